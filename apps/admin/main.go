package main

import (
	"context"
	"fmt"
	"os"

	"github.com/the-user01/Study-Platform-Server/apps/api/di"
	"github.com/the-user01/Study-Platform-Server/core"
	"github.com/the-user01/Study-Platform-Server/core/user"
	logsvc "github.com/the-user01/Study-Platform-Server/services/logger"
)

func main() {
	conf := core.NewConfig()

	logger, closeLogger, err := logsvc.New(conf)
	errAndDie(err)
	defer closeLogger()

	// set up the store
	repos, err := di.NewRepositories(conf, logger)
	errAndDie(err)

	// start CLI
	cli := &commandLine{
		usrSvc:  user.NewService(repos.Users),
		migrate: repos.Indexer,
		out:     os.Stdout,
	}
	err = cli.run(os.Args[1:])
	_ = repos.Closer(context.Background())
	if err != nil {
		closeLogger()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}
