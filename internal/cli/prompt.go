package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPromptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Prompt management commands",
	}

	cmd.AddCommand(newPromptCreateCmd())
	cmd.AddCommand(newPromptModerateCmd())
	cmd.AddCommand(newPromptDeleteCmd())

	return cmd
}

func newPromptCreateCmd() *cobra.Command {
	var username, text string
	var tags []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Submit a prompt for translation and storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || text == "" {
				return fmt.Errorf("--username and --text are required")
			}

			req := map[string]any{
				"text":     text,
				"username": username,
				"tags":     tags,
			}
			var result StatusResult

			if err := client.Post("/prompt/create", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Owning player")
	cmd.Flags().StringVarP(&text, "text", "t", "", "Prompt text (20-120 characters)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Tags for the prompt")

	return cmd
}

func newPromptModerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moderate [prompt-id...]",
		Short: "Score prompts for content safety",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"prompt-ids": args}
			var result []Verdict

			if err := client.Post("/prompt/moderate", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	return cmd
}

func newPromptDeleteCmd() *cobra.Command {
	var player string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete all of a player's prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if player == "" {
				return fmt.Errorf("--player is required")
			}

			req := map[string]string{"player": player}
			var result StatusResult

			if err := client.Post("/prompt/delete", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&player, "player", "p", "", "Owning player")

	return cmd
}
