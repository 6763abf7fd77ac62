package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Team management commands",
	}

	cmd.AddCommand(newTeamCreateCmd())
	cmd.AddCommand(newTeamGetCmd())
	cmd.AddCommand(newTeamInviteCmd())
	cmd.AddCommand(newTeamJoinCmd())
	cmd.AddCommand(newTeamRescindCmd())
	cmd.AddCommand(newTeamInvitesCmd())
	cmd.AddCommand(newTeamQuitCmd())
	cmd.AddCommand(newTeamAttemptsCmd())

	return cmd
}

func newTeamCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new team with yourself as captain",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			req := map[string]string{"name": name}
			var result Team

			if err := client.Post("/api/v1/teams", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Team name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTeamGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <team-id>",
		Short: "Show a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Team

			if err := client.Get("/api/v1/teams/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newTeamInviteCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "invite <team-id>",
		Short: "Invite a player to your team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--user is required")
			}

			req := map[string]string{"username": username}
			var result Team

			if err := client.Post("/api/v1/teams/"+args[0]+"/invites", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "user", "", "Username to invite (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newTeamJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <team-id>",
		Short: "Accept an invitation and join a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Team

			if err := client.Post("/api/v1/teams/"+args[0]+"/join", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newTeamRescindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rescind <team-id> <user-id>",
		Short: "Withdraw a pending invitation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/teams/" + args[0] + "/invites/" + args[1]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Invitation withdrawn")
			return nil
		},
	}
}

func newTeamInvitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invites",
		Short: "List teams that have invited you",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Team

			if err := client.Get("/api/v1/teams/invites", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if len(result) == 0 {
				out.PrintMessage("No pending invitations")
				return nil
			}
			out.Print(result)
			return nil
		},
	}
}

func newTeamQuitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quit",
		Short: "Leave your current team",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/teams/quit", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Left team")
			return nil
		},
	}
}

func newTeamAttemptsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attempts <team-id>",
		Short: "Show a team's flag submission history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Attempt

			if err := client.Get("/api/v1/teams/"+args[0]+"/attempts", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if len(result) == 0 {
				out.PrintMessage("No attempts yet")
				return nil
			}
			out.Print(result)
			return nil
		},
	}
}
