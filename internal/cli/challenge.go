package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newChallengeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "challenge",
		Short: "Challenge and flag submission commands",
	}

	cmd.AddCommand(newChallengeCreateCmd())
	cmd.AddCommand(newChallengeListCmd())
	cmd.AddCommand(newChallengeGetCmd())
	cmd.AddCommand(newChallengeDeleteCmd())
	cmd.AddCommand(newChallengeSubmitCmd())

	return cmd
}

func newChallengeCreateCmd() *cobra.Command {
	var name, description, flag string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new challenge (contributors only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || flag == "" {
				return fmt.Errorf("--name and --flag are required")
			}

			req := map[string]string{
				"name":        name,
				"description": description,
				"flag":        flag,
			}
			var result Challenge

			if err := client.Post("/api/v1/challenges", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Challenge name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Challenge description")
	cmd.Flags().StringVar(&flag, "flag", "", "Secret flag (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("flag")

	return cmd
}

func newChallengeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List published challenges",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Challenge

			if err := client.Get("/api/v1/challenges", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if len(result) == 0 {
				out.PrintMessage("No challenges published")
				return nil
			}
			out.Print(result)
			return nil
		},
	}
}

func newChallengeGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <challenge-id>",
		Short: "Show a challenge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Challenge

			if err := client.Get("/api/v1/challenges/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newChallengeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <challenge-id>",
		Short: "Delete a challenge you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/challenges/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Challenge deleted")
			return nil
		},
	}
}

func newChallengeSubmitCmd() *cobra.Command {
	var flag string

	cmd := &cobra.Command{
		Use:   "submit <challenge-id>",
		Short: "Submit a flag for grading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flag == "" {
				return fmt.Errorf("--flag is required")
			}

			req := map[string]string{"flag": flag}
			var result Attempt

			if err := client.Post("/api/v1/challenges/"+args[0]+"/attempts", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if cfg.Output == "json" {
				out.Print(result)
				return nil
			}
			if result.Correct {
				out.PrintMessage("Correct!")
			} else {
				out.PrintMessage("Incorrect")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flag, "flag", "", "Flag value (required)")
	_ = cmd.MarkFlagRequired("flag")

	return cmd
}
