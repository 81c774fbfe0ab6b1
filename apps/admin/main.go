package main

import (
	"os"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/user"
	logsvc "github.com/trezcool/mentori/services/logger"
	"github.com/trezcool/mentori/storage/database"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewStdLogger(conf, "ADMIN")

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal("creating database", "err", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", "err", err)
	}
	defer func() { _ = db.Close() }()

	// start CLI
	cli := commandLine{
		db:     db.DB,
		usrSvc: user.NewService(database.NewSQLRepositories(db).Users),
		out:    os.Stdout,
	}
	if err := cli.run(os.Args[1:]); err != nil {
		logger.Error("command failed", "err", err)
		_ = db.Close()
		os.Exit(1)
	}
}
