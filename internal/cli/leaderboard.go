package cli

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Leaderboard commands",
	}

	cmd.AddCommand(newLeaderboardShowCmd())
	cmd.AddCommand(newLeaderboardMeCmd())

	return cmd
}

func newLeaderboardShowCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:       "show <weekly|monthly|challenge>",
		Short:     "Show a ranked leaderboard",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"weekly", "monthly", "challenge"},
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if cmd.Flags().Changed("limit") {
				query.Set("limit", strconv.Itoa(limit))
			}

			var result Leaderboard
			if err := client.Get(cmd.Context(), "/leaderboard/"+url.PathEscape(args[0]), query, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of entries")

	return cmd
}

func newLeaderboardMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me <weekly|monthly|challenge>",
		Short: "Show the current player's standing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result LeaderboardEntry
			if err := client.Get(cmd.Context(), "/leaderboard/"+url.PathEscape(args[0])+"/me", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
