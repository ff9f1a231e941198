package main

import (
	"context"
	"fmt"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/urfave/cli/v3"
)

func (a *app) loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and store the access token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "prompted for when omitted"},
		},
		Action: a.login,
	}
}

func (a *app) login(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	password := cmd.String("password")

	var err error
	if username == "" {
		if username, err = a.prompt("Username: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = a.prompt("Password: "); err != nil {
			return err
		}
	}
	if username == "" || password == "" {
		return apperrors.Local("", "Username and password are required.")
	}

	client, err := a.connect(ctx)
	if err != nil {
		return err
	}
	if _, err := client.Login(ctx, username, password); err != nil {
		return err
	}

	successColor.Fprintln(a.out, fmt.Sprintf("Logged in as %s.", username))
	return nil
}

func (a *app) logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the stored access token",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, err := a.connect(ctx)
			if err != nil {
				return err
			}
			if err := client.Logout(ctx); err != nil {
				return err
			}
			infoColor.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}
