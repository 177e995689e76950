package models

import (
	"time"

	"github.com/flocksocial/flock/internal/snowflake"
)

// A Token is a bearer credential for the API. Tokens are issued when an
// account is created; validating the credential that produced them is the
// identity provider's problem.
type Token struct {
	AccessToken string `gorm:"size:36;primarykey"`
	CreatedAt   time.Time
	AccountID   snowflake.ID `gorm:"not null"`
	Account     *Account     `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
}
