package main

import (
	"context"
	"fmt"

	"github.com/flocksocial/flock/models"
	"github.com/flocksocial/flock/workflow"
	"gorm.io/gorm"
)

type FollowCmd struct {
	Follower string `required:"" help:"email of the account doing the following"`
	Target   string `required:"" help:"email of the account to follow"`
}

func (f *FollowCmd) Run(ctx *Context) error {
	db, err := gorm.Open(ctx.Dialector, &ctx.Config)
	if err != nil {
		return err
	}

	accounts := models.NewAccounts(db)
	follower, err := accounts.FindByEmail(f.Follower)
	if err != nil {
		return err
	}
	target, err := accounts.FindByEmail(f.Target)
	if err != nil {
		return err
	}

	engine := workflow.New(db, nil, nil)
	rel, err := engine.Request(context.Background(), follower.ID, target.ID)
	if err != nil {
		return err
	}
	fmt.Printf("%s -> %s: %s\n", f.Follower, f.Target, rel.Status)
	return nil
}
