package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newSubjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subject",
		Short: "Browse quiz subjects and words",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List subjects",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Subject
			if err := client.Get(cmd.Context(), "/subjects", nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "words <subject-id>",
		Short: "List the words in a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Word
			if err := client.Get(cmd.Context(), "/subjects/"+url.PathEscape(args[0])+"/words", nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "random <subject-id>",
		Short: "Draw a random word from a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Word
			if err := client.Get(cmd.Context(), "/subjects/"+url.PathEscape(args[0])+"/words/random", nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	return cmd
}
