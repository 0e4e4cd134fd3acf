package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator commands",
	}

	cmd.AddCommand(newAdminBootstrapCmd())
	cmd.AddCommand(newAdminLoginCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "End the admin session and forget the saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return logout(cmd.Context(), "/admin/logout")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "me",
		Short: "Show current admin info",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Admin
			if err := client.Get(cmd.Context(), "/admin/me", nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})
	cmd.AddCommand(newAdminPlayersCmd())
	cmd.AddCommand(newAdminContentCmd())

	return cmd
}

func newAdminBootstrapCmd() *cobra.Command {
	var email, pass string

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the first admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AuthResult
			if err := client.Post(cmd.Context(), "/admin/bootstrap", map[string]string{"email": email, "password": pass}, &result); err != nil {
				return err
			}
			return saveSession(result)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Admin password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newAdminLoginCmd() *cobra.Command {
	var email, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login as an admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AuthResult
			if err := client.Post(cmd.Context(), "/admin/login", map[string]string{"email": email, "password": pass}, &result); err != nil {
				return err
			}
			return saveSession(result)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Admin password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newAdminPlayersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Manage player accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all players",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []PlayerRecord
			if err := client.Get(cmd.Context(), "/admin/players", nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <player-id>",
		Short: "Show one player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayerRecord
			if err := client.Get(cmd.Context(), "/admin/players/"+url.PathEscape(args[0]), nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status <player-id> <true|false>",
		Short: "Activate or deactivate a player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			active, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid status %q: %w", args[1], err)
			}

			var result PlayerRecord
			path := "/admin/players/"+url.PathEscape(args[0]) + "/status"
			if err := client.Patch(cmd.Context(), path, map[string]bool{"is_active": active}, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <player-id>",
		Short: "Permanently delete a player and their scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/admin/players/"+url.PathEscape(args[0])); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Player deleted")
			return nil
		},
	})

	return cmd
}

func newAdminContentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Manage subjects and words",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add-subject <name>",
		Short: "Create a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Subject
			if err := client.Post(cmd.Context(), "/admin/subjects", map[string]string{"name": args[0]}, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete-subject <subject-id>",
		Short: "Delete a subject and its words",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/admin/subjects/"+url.PathEscape(args[0])); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Subject deleted")
			return nil
		},
	})

	var hint string
	addWord := &cobra.Command{
		Use:   "add-word <subject-id> <text>",
		Short: "Add a word to a subject",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"subject_id": args[0], "text": args[1], "hint": hint}
			var result Word
			if err := client.Post(cmd.Context(), "/admin/words", req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
	addWord.Flags().StringVar(&hint, "hint", "", "Optional hint shown with the word")
	cmd.AddCommand(addWord)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete-word <word-id>",
		Short: "Delete a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/admin/words/"+url.PathEscape(args[0])); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Word deleted")
			return nil
		},
	})

	return cmd
}
