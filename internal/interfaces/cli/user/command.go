package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumishop/shopadmin/internal/application/user/usecases"
	"github.com/lumishop/shopadmin/internal/infrastructure/auth"
	"github.com/lumishop/shopadmin/internal/infrastructure/database"
	"github.com/lumishop/shopadmin/internal/infrastructure/repository"
	"github.com/lumishop/shopadmin/internal/interfaces/cli/bootstrap"
	"github.com/lumishop/shopadmin/internal/shared/authorization"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

var (
	opts     bootstrap.Options
	email    string
	name     string
	role     string
	password string
	active   bool

	// update has its own role flag; sharing create's would reset its "staff" default.
	newRole string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage back-office users",
	}

	opts.Bind(cmd)
	cmd.AddCommand(newCreateCommand(), newUpdateCommand())

	return cmd
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Long:  `Create a back-office user, typically the first admin. Without --password the user can only sign in with Google.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the part of the email before @)")
	cmd.Flags().StringVar(&role, "role", string(authorization.RoleStaff), "Role (admin, staff, customer)")
	cmd.Flags().StringVar(&password, "password", "", "Initial password, at least 8 characters")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	parsedRole := authorization.UserRole(role)
	if !parsedRole.IsValid() {
		return fmt.Errorf("unknown role %q (admin, staff or customer)", role)
	}

	env, err := bootstrap.LoadWithDatabase(opts)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log := env.Log
	create := usecases.NewCreateUserUseCase(
		repository.NewUserRepository(database.Get(), log),
		auth.NewBcryptPasswordHasher(env.Config.Auth.Password.BcryptCost),
		log,
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	displayName := name
	if displayName == "" {
		displayName, _, _ = strings.Cut(email, "@")
	}

	u, err := create.Execute(ctx, usecases.CreateUserCommand{
		Email:    email,
		Name:     displayName,
		Role:     parsedRole,
		Password: password,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s user %s (id %d)\n", u.Role(), u.Email(), u.ID())
	return nil
}

func newUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change a user's role or enable/disable the account",
		Example: `  shopadmin user update --email staff@example.com --role admin
  shopadmin user update --email staff@example.com --active=false`,
		RunE: runUpdate,
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&newRole, "role", "", "New role (admin, staff, customer)")
	cmd.Flags().BoolVar(&active, "active", true, "Whether the account may sign in")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	var command usecases.UpdateUserCommand
	command.Email = email

	if cmd.Flags().Changed("role") {
		parsedRole := authorization.UserRole(newRole)
		if !parsedRole.IsValid() {
			return fmt.Errorf("unknown role %q (admin, staff or customer)", newRole)
		}
		command.Role = &parsedRole
	}
	if cmd.Flags().Changed("active") {
		command.Active = &active
	}
	if command.Role == nil && command.Active == nil {
		return fmt.Errorf("nothing to update, pass --role and/or --active")
	}

	env, err := bootstrap.LoadWithDatabase(opts)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	update := usecases.NewUpdateUserUseCase(repository.NewUserRepository(database.Get(), env.Log), env.Log)

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	u, err := update.Execute(ctx, command)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: role=%s status=%s\n", u.Email(), u.Role(), u.Status())
	return nil
}
