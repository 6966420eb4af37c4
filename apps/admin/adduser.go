package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/the-user01/Study-Platform-Server/core"
	"github.com/the-user01/Study-Platform-Server/core/user"
)

var errUnknownRole = errors.New("role must be one of Admin, Teacher (tutor) or Student")

func (cli *commandLine) addUserCmd() *cobra.Command {
	var name, role string
	cmd := &cobra.Command{
		Use:   "adduser EMAIL",
		Short: "Create a user, or update the role of an existing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := user.ParseRole(role)
			if !ok {
				return errUnknownRole
			}
			usr, err := cli.addUser(cmd.Context(), args[0], name, r)
			if err != nil {
				return err
			}
			cli.printf("%s is %s (%s)\n", usr.Email, usr.Role, usr.ID.Hex())
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&role, "role", "r", string(user.RoleAdmin), "Admin, Teacher or Student")
	return cmd
}

// addUser updates or creates a user.User
func (cli *commandLine) addUser(ctx context.Context, email, name string, role user.Role) (user.User, error) {
	email = core.CleanString(email, true /* lower */)
	usr, err := cli.usrSvc.Create(ctx, user.NewUser{Name: core.CleanString(name), Email: email, Role: role})
	if err == nil {
		return usr, nil
	}
	if errors.Cause(err) != user.ErrAlreadyExists {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return cli.usrSvc.SetRole(ctx, email, role)
}

func (cli *commandLine) setRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setrole EMAIL ROLE",
		Short: "Assign a role to an existing user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, ok := user.ParseRole(args[1])
			if !ok {
				return errUnknownRole
			}
			usr, err := cli.usrSvc.SetRole(cmd.Context(), args[0], role)
			if err != nil {
				return errors.Wrap(err, "setting role")
			}
			cli.printf("%s is %s\n", usr.Email, usr.Role)
			return nil
		},
	}
}

func (cli *commandLine) deleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deleteuser ID",
		Short: "Delete a user by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := primitive.ObjectIDFromHex(args[0])
			if err != nil {
				return errors.Wrap(err, "parsing ID")
			}
			n, err := cli.usrSvc.Delete(cmd.Context(), id)
			if err != nil {
				return errors.Wrap(err, "deleting user")
			}
			cli.printf("deleted %d user(s)\n", n)
			return nil
		},
	}
}

func (cli *commandLine) listUsersCmd() *cobra.Command {
	var filter struct{ search, role string }
	cmd := &cobra.Command{
		Use:   "listusers",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			qf := user.QueryFilter{Search: filter.search}
			if filter.role != "" {
				r, ok := user.ParseRole(filter.role)
				if !ok {
					return errUnknownRole
				}
				qf.Role = r
			}
			users, err := cli.usrSvc.Query(cmd.Context(), qf)
			if err != nil {
				return errors.Wrap(err, "querying users")
			}
			for _, usr := range users {
				cli.printf("%s\t%s\t%s\t%s\n", usr.ID.Hex(), usr.Email, usr.Role, usr.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter.search, "search", "s", "", "match name or email")
	cmd.Flags().StringVarP(&filter.role, "role", "r", "", "Admin, Teacher or Student")
	return cmd
}
