package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/services"
	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	stdinFd          = func() int { return int(os.Stdin.Fd()) }

	errEmptyPassword = errors.New("password must not be empty")
)

// NewUserCommand creates the user command group.
func NewUserCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage portal accounts",
	}
	cmd.AddCommand(newUserCreateCommand(opts))
	cmd.AddCommand(newUserResetPasswordCommand(opts))
	return cmd
}

func newUserCreateCommand(opts *RootOptions) *cobra.Command {
	var (
		name       string
		email      string
		role       string
		noPassword bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account; the password is prompted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &dto.UserRequest{
				Name:  name,
				Email: email,
				Role:  models.RoleType(strings.ToUpper(role)),
			}
			if !noPassword {
				pwd, err := promptPassword(cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				req.Password = &pwd
			}

			b, err := opts.backend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			user, err := services.NewUserService(b.Repos.UserRepository).CreateUser(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d <%s> (%s)\n", user.ID, user.Email, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&role, "role", string(models.RoleStudent), "STUDENT, INSTRUCTOR or ADMIN")
	cmd.Flags().BoolVar(&noPassword, "no-password", false, "create the account without a password (it cannot log in)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newUserResetPasswordCommand(opts *RootOptions) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for an account; the password is prompted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pwd, err := promptPassword(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			b, err := opts.backend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			user, err := b.Repos.UserRepository.GetByEmail(cmd.Context(), services.NormalizeEmail(email))
			if err != nil {
				return fmt.Errorf("find user %q: %w", email, err)
			}
			if err := services.NewUserService(b.Repos.UserRepository).SetPassword(cmd.Context(), user.ID, pwd); err != nil {
				return fmt.Errorf("reset password: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for <%s>\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "login email of the account")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func promptPassword(w io.Writer) (string, error) {
	fmt.Fprint(w, "Enter password: ")
	pwd, err := readPasswordFunc(stdinFd())
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if len(pwd) == 0 {
		return "", errEmptyPassword
	}
	return string(pwd), nil
}
