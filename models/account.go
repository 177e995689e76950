package models

import (
	"errors"
	"time"

	"github.com/flocksocial/flock/internal/snowflake"
	"gorm.io/gorm"
)

// An Account is a user profile. Identity (authentication, email confirmation)
// is owned by the identity provider; an Account row is created exactly once
// per identity, at first authentication.
type Account struct {
	snowflake.ID   `gorm:"primarykey;autoIncrement:false"`
	UpdatedAt      time.Time
	Email          string `gorm:"uniqueIndex;size:64;not null"`
	Username       string `gorm:"uniqueIndex;size:64;not null"`
	DisplayName    string `gorm:"size:128;not null"`
	FullName       string `gorm:"size:128;not null;default:''"`
	Avatar         string `gorm:"size:255;not null;default:''"`
	Bio            string `gorm:"type:text"`
	Website        string `gorm:"size:255;not null;default:''"`
	Country        string `gorm:"size:64;not null;default:''"`
	IsPrivate      bool   `gorm:"not null;default:false"`
	EmailVerified  bool   `gorm:"not null;default:false"`
	FollowersCount int32  `gorm:"not null;default:0"`
	FollowingCount int32  `gorm:"not null;default:0"`

	// EncryptedPassword is only set for accounts created locally with the
	// create-account command; hosted identities never have one.
	EncryptedPassword []byte `gorm:"size:60"`
}

// CreatedAt is encoded in the account's ID.
func (a *Account) CreatedAt() time.Time {
	return a.ID.ToTime()
}

type Accounts struct {
	db *gorm.DB
}

func NewAccounts(db *gorm.DB) *Accounts {
	return &Accounts{db: db}
}

// AccountParams are the fields a caller must choose when creating an account.
// Values the storage schema would otherwise default are explicit here.
type AccountParams struct {
	ID                snowflake.ID
	Email             string
	Username          string
	DisplayName       string
	FullName          string
	IsPrivate         bool
	Verified          bool
	EncryptedPassword []byte
}

// Create inserts a new account. The email and username must be unique; a
// second create for either fails with the driver's duplicate key error.
func (a *Accounts) Create(params AccountParams) (*Account, error) {
	if params.ID == 0 {
		params.ID = snowflake.Now()
	}
	if params.DisplayName == "" {
		params.DisplayName = params.Username
	}
	account := Account{
		ID:                params.ID,
		Email:             params.Email,
		Username:          params.Username,
		DisplayName:       params.DisplayName,
		FullName:          params.FullName,
		IsPrivate:         params.IsPrivate,
		EmailVerified:     params.Verified,
		EncryptedPassword: params.EncryptedPassword,
	}
	if err := a.db.Create(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// Find returns the account with the given id.
func (a *Accounts) Find(id snowflake.ID) (*Account, error) {
	var account Account
	if err := a.db.Take(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByEmail returns the account registered under the given email address.
func (a *Accounts) FindByEmail(email string) (*Account, error) {
	var account Account
	if err := a.db.Take(&account, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// Update applies profile field changes for the owning account. The privacy
// flag is not handled here; flipping it has cascade effects that belong to the
// workflow engine.
func (a *Accounts) Update(account *Account, fields map[string]any) (*Account, error) {
	delete(fields, "is_private")
	if len(fields) == 0 {
		return account, nil
	}
	if err := a.db.Model(account).Updates(fields).Error; err != nil {
		return nil, err
	}
	return account, nil
}
