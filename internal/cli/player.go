package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerLoginCmd())
	cmd.AddCommand(newPlayerUpdateCmd())

	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new player",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password are required")
			}

			req := map[string]string{"username": username, "password": password}
			var result StatusResult

			if err := client.Post("/player/register", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (5-12 characters)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (8-12 characters)")

	return cmd
}

func newPlayerLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check a player's credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password are required")
			}

			req := map[string]string{"username": username, "password": password}
			var result StatusResult

			if err := client.Get("/player/login", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")

	return cmd
}

func newPlayerUpdateCmd() *cobra.Command {
	var username string
	var games, score int

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Add to a player's games-played and score counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--username is required")
			}

			req := map[string]any{
				"username":            username,
				"add_to_games_played": games,
				"add_to_score":        score,
			}
			var result StatusResult

			if err := client.Put("/player/update", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().IntVar(&games, "games", 0, "Games played to add")
	cmd.Flags().IntVar(&score, "score", 0, "Score to add")

	return cmd
}
