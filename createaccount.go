package main

import (
	"fmt"
	"strings"

	"github.com/flocksocial/flock/internal/snowflake"
	"github.com/flocksocial/flock/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateAccountCmd struct {
	Email    string `required:"" help:"email address of the account to create"`
	Username string `help:"username, defaults to the email's local part"`
	Password string `required:"" help:"password of the account to create"`
	FullName string `help:"full name shown on the profile"`
	Private  bool   `help:"create the account private"`
}

func (c *CreateAccountCmd) Run(ctx *Context) error {
	db, err := gorm.Open(ctx.Dialector, &ctx.Config)
	if err != nil {
		return err
	}

	username := c.Username
	if username == "" {
		username = strings.Split(c.Email, "@")[0]
	}
	passwd, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	account, err := models.NewAccounts(db).Create(models.AccountParams{
		ID:                snowflake.Now(),
		Email:             c.Email,
		Username:          username,
		FullName:          c.FullName,
		IsPrivate:         c.Private,
		EncryptedPassword: passwd,
	})
	if err != nil {
		return err
	}

	token := models.Token{
		AccessToken: uuid.New().String(),
		AccountID:   account.ID,
	}
	if err := db.Create(&token).Error; err != nil {
		return err
	}
	fmt.Printf("account: %d\naccess token: %s\n", uint64(account.ID), token.AccessToken)
	return nil
}
