package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	var players, tags []string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch prompts for players filtered by tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(players) == 0 {
				return fmt.Errorf("--players is required")
			}

			req := map[string]any{
				"players":  players,
				"tag_list": tags,
			}
			var result []Prompt

			if err := client.Get("/utils/get", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&players, "players", nil, "Players to fetch prompts for")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Tags to filter by (case-insensitive)")

	return cmd
}
