package main

import (
	"context"
	"fmt"

	"github.com/flocksocial/flock/models"
	"github.com/flocksocial/flock/workflow"
	"gorm.io/gorm"
)

type SetPrivacyCmd struct {
	Email   string `required:"" help:"email address of the account"`
	Private bool   `help:"make the account private"`
}

func (c *SetPrivacyCmd) Run(ctx *Context) error {
	db, err := gorm.Open(ctx.Dialector, &ctx.Config)
	if err != nil {
		return err
	}

	account, err := models.NewAccounts(db).FindByEmail(c.Email)
	if err != nil {
		return err
	}
	engine := workflow.New(db, nil, nil)
	account, err = engine.SetPrivacy(context.Background(), account.ID, c.Private)
	if err != nil {
		return err
	}
	fmt.Printf("account %d private: %v\n", uint64(account.ID), account.IsPrivate)
	return nil
}
