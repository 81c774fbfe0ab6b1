package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/mentori/core/user"
	"github.com/trezcool/mentori/storage/database"
)

var (
	readPasswordFunc = term.ReadPassword      // mockable
	migrateFunc      = database.RunMigrations // mockable

	errEmptyPassword = errors.New("password cannot be empty")
)

// CLI is the admin command grammar.
type CLI struct {
	Migrate       migrateCmd       `cmd:"" help:"Run a goose command (up, up-by-one, up-to, down, down-to, redo, reset, status, version, create, fix)."`
	AddUser       addUserCmd       `cmd:"" name:"adduser" help:"Create a user or update the one with the same email. The password is prompted."`
	ResetPassword resetPasswordCmd `cmd:"" name:"resetpassword" help:"Reset a user's password. The password is prompted."`
	Seed          seedCmd          `cmd:"" help:"Create or reset the demo mentor and mentees."`
}

type commandLine struct {
	db     *sql.DB
	usrSvc *user.Service
	out    io.Writer
}

// run parses args (without the program name) and runs the selected command.
func (cli *commandLine) run(args []string, options ...kong.Option) error {
	var grammar CLI
	parser, err := kong.New(&grammar, append([]kong.Option{
		kong.Name("admin"),
		kong.Description("Mentori administration commands."),
		kong.UsageOnError(),
		kong.Writers(cli.out, cli.out),
	}, options...)...)
	if err != nil {
		return err
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return ctx.Run(cli)
}

func (cli *commandLine) readPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	if len(pwd) == 0 {
		return "", errEmptyPassword
	}
	return string(pwd), nil
}

type migrateCmd struct {
	Command string   `arg:"" help:"goose command."`
	Args    []string `arg:"" optional:"" help:"goose command arguments."`
}

func (c *migrateCmd) Run(cli *commandLine) error {
	return migrateFunc(cli.db, c.Command, c.Args...)
}

type addUserCmd struct {
	Email    string `required:"" help:"The user's email."`
	Nickname string `required:"" help:"The user's display name."`
	Role     string `enum:"mentor,mentee" default:"mentee" help:"mentor or mentee."`
}

func (c *addUserCmd) Run(cli *commandLine) error {
	pwd, err := cli.readPassword()
	if err != nil {
		return err
	}
	usr, err := cli.usrSvc.AddOrUpdate(context.Background(), c.Email, c.Nickname, c.Role, pwd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "saved %s %s (%s)\n", usr.Role, usr.Email, usr.ID)
	return nil
}

type resetPasswordCmd struct {
	Email string `required:"" help:"The user's email."`
}

func (c *resetPasswordCmd) Run(cli *commandLine) error {
	pwd, err := cli.readPassword()
	if err != nil {
		return err
	}
	_, err = cli.usrSvc.SetPassword(context.Background(), c.Email, pwd)
	return err
}

type seedCmd struct{}

func (c *seedCmd) Run(cli *commandLine) error {
	for _, acc := range user.SeedAccounts {
		usr, err := cli.usrSvc.AddOrUpdate(context.Background(), acc.Email, acc.Nickname, acc.Role, acc.Password)
		if err != nil {
			return errors.Wrapf(err, "seeding %s", acc.Email)
		}
		fmt.Fprintf(cli.out, "seeded %s %s\n", usr.Role, usr.Email)
	}
	return nil
}
