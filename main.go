package main

import (
	"github.com/alecthomas/kong"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Context struct {
	Debug bool

	gorm.Config
	Dialector gorm.Dialector
}

var cli struct {
	Debug bool   `help:"Enable debug mode."`
	DSN   string `help:"Database connection string." default:"flock.db"`

	Serve         ServeCmd         `cmd:"" help:"Serve the flock API."`
	AutoMigrate   AutoMigrateCmd   `cmd:"" help:"Create or upgrade the database schema."`
	CreateAccount CreateAccountCmd `cmd:"" help:"Create a local account."`
	SetPrivacy    SetPrivacyCmd    `cmd:"" help:"Change an account's privacy flag."`
	Follow        FollowCmd        `cmd:"" help:"Issue a follow request between two accounts."`
}

func main() {
	ctx := kong.Parse(&cli)
	config := gorm.Config{
		// surface duplicate key violations as gorm.ErrDuplicatedKey
		TranslateError: true,
	}
	if cli.Debug {
		config.Logger = logger.Default.LogMode(logger.Info)
	}
	err := ctx.Run(&Context{
		Debug:     cli.Debug,
		Config:    config,
		Dialector: newDialector(cli.DSN),
	})
	ctx.FatalIfErrorf(err)
}
