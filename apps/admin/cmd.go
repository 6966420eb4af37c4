package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/the-user01/Study-Platform-Server/core/user"
)

type commandLine struct {
	usrSvc  user.Service
	migrate func(ctx context.Context) error // ensures store indexes
	out     io.Writer
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Study Platform operator commands",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(cli.out)
	root.SetErr(cli.out)

	root.AddCommand(cli.addUserCmd())
	root.AddCommand(cli.setRoleCmd())
	root.AddCommand(cli.deleteUserCmd())
	root.AddCommand(cli.listUsersCmd())
	root.AddCommand(cli.migrateCmd())
	return root
}

func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, args...)
}

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the store indexes (unique user emails, unique bookings)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cli.migrate(cmd.Context()); err != nil {
				return err
			}
			cli.printf("indexes are up to date\n")
			return nil
		},
	}
}
