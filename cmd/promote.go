package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blogforge/blogd/config"
	"github.com/blogforge/blogd/models"
	"github.com/blogforge/blogd/store"
)

var (
	promoteEmail  string
	promoteRevoke bool
)

var promoteCmd = &cobra.Command{
	Use:   "promote-admin",
	Short: "Grant (or revoke) the admin role for an account",
	Long: `Set is_admin on the account with the given email.

Examples:
  blogd promote-admin --email alice@example.com
  blogd promote-admin --email alice@example.com --revoke`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close(ctx)

		user, err := setAdmin(ctx, st, promoteEmail, !promoteRevoke)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is_admin=%t\n", user.Email, user.ID, user.IsAdmin)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promoteCmd)

	promoteCmd.Flags().StringVar(&promoteEmail, "email", "", "Email of the account to change (required)")
	promoteCmd.Flags().BoolVar(&promoteRevoke, "revoke", false, "Remove the admin role instead of granting it")
	_ = promoteCmd.MarkFlagRequired("email")
}

func setAdmin(ctx context.Context, st *store.Store, email string, admin bool) (*models.User, error) {
	user, err := st.Users.FindByEmail(ctx, models.NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no account with email %q", email)
	}
	if err != nil {
		return nil, err
	}
	return st.Users.Update(ctx, user.ID, models.UserUpdate{IsAdmin: &admin})
}
