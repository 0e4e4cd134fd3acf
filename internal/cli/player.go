package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player account commands",
	}

	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerLoginCmd())
	cmd.AddCommand(newPlayerMeCmd())
	cmd.AddCommand(newPlayerLogoutCmd())

	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	var name, email, phone, pass string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new player account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"display_name": name,
				"email":        email,
				"phone":        phone,
				"password":     pass,
			}
			var result AuthResult

			if err := client.Post(cmd.Context(), "/auth/register", req, &result); err != nil {
				return err
			}
			return saveSession(result)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newPlayerLoginCmd() *cobra.Command {
	var email, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"email":    email,
				"password": pass,
			}
			var result AuthResult

			if err := client.Post(cmd.Context(), "/auth/login", req, &result); err != nil {
				return err
			}
			return saveSession(result)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newPlayerMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show current player info",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player

			if err := client.Get(cmd.Context(), "/auth/me", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the player session and forget the saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return logout(cmd.Context(), "/auth/logout")
		},
	}
}

// saveSession stores the session token and prints the principal
func saveSession(result AuthResult) error {
	if err := cfg.SaveToken(result.SessionToken); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	out := NewOutput(cfg.Output)
	out.Print(result)
	return nil
}

func logout(ctx context.Context, path string) error {
	if err := client.Post(ctx, path, nil, nil); err != nil {
		return err
	}
	if err := cfg.ClearToken(); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}

	out := NewOutput(cfg.Output)
	out.PrintMessage("Logged out")
	return nil
}
