// Package cli is the operator tool for ProposalKeeper. It talks to the same
// storage backend as the server and covers tasks that have no place in the
// HTTP API: provisioning accounts, listing users and forcing password
// resets.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/proposalkeeper/internal/logging"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/config"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/kv"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/users"
)

type App struct {
	config *config.Config
	logger logging.Logger
	users  *users.Service

	in  *bufio.Reader
	out io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewDefault()

	var store kv.Store
	if c.DatabaseDSN != "" {
		pg, err := kv.NewPostgresStore(c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		store = pg
	} else {
		return nil, fmt.Errorf("user administration needs a database, set the DSN")
	}

	return &App{
		config: c,
		logger: logger,
		users:  users.NewService(users.NewKVRepository(store), logger),
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (app *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		app.usage()
		return nil
	}

	switch args[0] {
	case "add-user":
		return app.addUser(ctx, false)
	case "add-admin":
		return app.addUser(ctx, true)
	case "list-users":
		return app.listUsers(ctx)
	case "reset-password":
		return app.resetPassword(ctx)
	default:
		app.usage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func (app *App) usage() {
	fmt.Fprintln(app.out, "Usage: proposalkeeper-cli <command>")
	fmt.Fprintln(app.out, "Commands:")
	fmt.Fprintln(app.out, "  add-user        create an analyst account")
	fmt.Fprintln(app.out, "  add-admin       create an administrator account")
	fmt.Fprintln(app.out, "  list-users      print all accounts")
	fmt.Fprintln(app.out, "  reset-password  set a new password for an account")
}

func (app *App) addUser(ctx context.Context, admin bool) error {
	username, err := GetSimpleText(app.in, "Username", app.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(app.in, "Email", app.out)
	if err != nil {
		return err
	}
	firstName, err := GetSimpleText(app.in, "First name (optional)", app.out)
	if err != nil {
		return err
	}
	lastName, err := GetSimpleText(app.in, "Last name (optional)", app.out)
	if err != nil {
		return err
	}
	secret, err := GetPassword(app.out, "Enter password: ")
	if err != nil {
		return err
	}

	role := users.RoleAnalyst
	if admin {
		role = users.RoleAdmin
	}

	profile := users.Profile{
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Secret:    string(secret),
	}
	user, err := app.users.CreateUser(ctx, profile, role, false)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.out, "created %s user %s (%s)\n", user.Role, user.Username, user.ID)
	return nil
}

func (app *App) listUsers(ctx context.Context) error {
	list, err := app.users.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range list {
		fmt.Fprintf(app.out, "%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role)
	}
	return nil
}

func (app *App) resetPassword(ctx context.Context) error {
	email, err := GetSimpleText(app.in, "Account email", app.out)
	if err != nil {
		return err
	}
	secret, err := GetPassword(app.out, "Enter new password: ")
	if err != nil {
		return err
	}

	if err := app.users.SetSecretByEmail(ctx, email, string(secret)); err != nil {
		return err
	}
	fmt.Fprintf(app.out, "password updated for %s\n", email)
	return nil
}
