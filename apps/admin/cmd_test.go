package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mentori/core/user"
	inmemdb "github.com/trezcool/mentori/storage/database/inmem"
	"github.com/trezcool/mentori/testutil"
)

func setup(t *testing.T) (*commandLine, user.Repository, *bytes.Buffer) {
	t.Helper()
	repos := inmemdb.NewRepositories(inmemdb.Open())
	out := new(bytes.Buffer)
	return &commandLine{usrSvc: user.NewService(repos.Users), out: out}, repos.Users, out
}

func mockPassword(t *testing.T, pwd string) {
	t.Helper()
	orig := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = orig })
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwd        string
	wantErr    error
	wantErrStr string
	wantAnyErr bool
}

func (tt cliTest) check(t *testing.T, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		assert.True(t, errors.Is(err, tt.wantErr), "error = %v, want %v", err, tt.wantErr)
	case tt.wantErrStr != "":
		require.Error(t, err)
		assert.Equal(t, tt.wantErrStr, err.Error())
	case tt.wantAnyErr:
		assert.Error(t, err)
	default:
		assert.NoError(t, err)
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, _ := setup(t)

	var ran []string
	orig := migrateFunc
	migrateFunc = func(db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		ran = append(ran, command)
		return nil
	}
	t.Cleanup(func() { migrateFunc = orig })

	tests := []cliTest{
		{name: "no command", args: []string{}, wantAnyErr: true},
		{name: "no subcommand", args: []string{"migrate"}, wantAnyErr: true},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "reports", "sql"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(tt.args))
		})
	}
	assert.Equal(t, []string{"up", "up-to", "down-to", "status", "create"}, ran)
}

func Test_commandLine_addUser(t *testing.T) {
	cli, repo, out := setup(t)
	ctx := context.Background()

	tests := []cliTest{
		{name: "email required", args: []string{"adduser", "--nickname", "Kim"}, pwd: "Study-Hard-1", wantAnyErr: true},
		{name: "unknown role", args: []string{"adduser", "--email", "kim@test.kr", "--nickname", "Kim", "--role", "admin"}, pwd: "Study-Hard-1", wantAnyErr: true},
		{name: "empty password", args: []string{"adduser", "--email", "kim@test.kr", "--nickname", "Kim"}, wantErr: errEmptyPassword},
		{name: "created", args: []string{"adduser", "--email", " Kim@Test.kr ", "--nickname", "Kim"}, pwd: "Study-Hard-1"},
		{name: "updated", args: []string{"adduser", "--email", "kim@test.kr", "--nickname", "Kim S.", "--role", "mentor"}, pwd: "Study-Hard-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPassword(t, tt.pwd)
			tt.check(t, cli.run(tt.args))
		})
	}

	usrs, err := repo.FilterUsers(ctx, user.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, usrs, 1)
	usr := usrs[0]
	assert.Equal(t, "kim@test.kr", usr.Email)
	assert.Equal(t, "Kim S.", usr.Nickname)
	assert.Equal(t, user.RoleMentor, usr.Role)
	assert.NoError(t, usr.CheckPassword("Study-Hard-2"))
	assert.Contains(t, out.String(), "saved mentor kim@test.kr")
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, repo, _ := setup(t)
	usr := testutil.CreateUser(t, repo, "mentee-1", "kim@test.kr", "Kim", user.RoleMentee, "passw0rd")

	tests := []cliTest{
		{name: "email required", args: []string{"resetpassword"}, pwd: "lol", wantAnyErr: true},
		{name: "no password", args: []string{"resetpassword", "--email", usr.Email}, wantErr: errEmptyPassword},
		{name: "user not found", args: []string{"resetpassword", "--email", "lol@test.kr"}, pwd: "lol", wantAnyErr: true},
		{name: "reset", args: []string{"resetpassword", "--email", "KIM@test.kr"}, pwd: "lmao-1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPassword(t, tt.pwd)
			tt.check(t, cli.run(tt.args))
		})
	}

	refreshed, err := repo.GetUserByID(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.NoError(t, refreshed.CheckPassword("lmao-1234"))
	assert.Error(t, refreshed.CheckPassword("passw0rd"))
}

func Test_commandLine_seed(t *testing.T) {
	cli, repo, _ := setup(t)

	// twice: seeding is idempotent
	require.NoError(t, cli.run([]string{"seed"}))
	require.NoError(t, cli.run([]string{"seed"}))

	usrs, err := repo.FilterUsers(context.Background(), user.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, usrs, len(user.SeedAccounts))
	for _, acc := range user.SeedAccounts {
		usr, err := repo.GetUserByEmail(context.Background(), acc.Email)
		require.NoError(t, err)
		assert.Equal(t, acc.Role, usr.Role)
		assert.NoError(t, usr.CheckPassword(acc.Password))
	}
}
