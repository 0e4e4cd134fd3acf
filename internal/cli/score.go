package cli

import (
	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score commands",
	}

	cmd.AddCommand(newScoreSubmitCmd())

	return cmd
}

func newScoreSubmitCmd() *cobra.Command {
	var points int64
	var challenge bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Record points for the current player",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"points":    points,
				"challenge": challenge,
			}
			var result ScoreEvent

			if err := client.Post(cmd.Context(), "/scores", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&points, "points", 0, "Points earned (required)")
	cmd.Flags().BoolVar(&challenge, "challenge", false, "Count the score toward the challenge board")
	_ = cmd.MarkFlagRequired("points")

	return cmd
}
