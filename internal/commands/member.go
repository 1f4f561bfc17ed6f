package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chapterbooks/chapterbooks/internal/audit"
	"github.com/chapterbooks/chapterbooks/internal/auth"
	"github.com/chapterbooks/chapterbooks/internal/config"
)

func newMemberCommand(root *rootOptions) *cobra.Command {
	memberCmd := &cobra.Command{
		Use:   "member",
		Short: "Manage the chapter roster",
	}
	memberCmd.AddCommand(newMemberAddCommand(root), newMemberListCommand(root))
	return memberCmd
}

func newMemberAddCommand(root *rootOptions) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Put someone on the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			actor, err := ch.authorize(auth.PermManageRoster)
			if err != nil {
				return err
			}
			r, err := auth.ParseRole(role)
			if err != nil {
				return err
			}

			name := strings.TrimSpace(args[0])
			ch.cfg.Members = append(ch.cfg.Members, config.Member{Name: name, Role: string(r)})
			if err := ch.cfg.Validate(); err != nil {
				return err
			}
			members := make([]auth.Member, 0, len(ch.cfg.Members))
			for _, m := range ch.cfg.Members {
				members = append(members, auth.Member{Name: m.Name, Role: auth.Role(m.Role)})
			}
			if _, err := auth.NewDirectory(members); err != nil {
				return err
			}
			if err := ch.saveConfig(); err != nil {
				return err
			}
			ch.record(actor.Name, audit.ActionAddMember, fmt.Sprintf("Added %s as %s", name, r), "")

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s as %s\n", name, r)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", string(auth.RoleMember), "treasurer, president, vice_president, secretary or member")
	return cmd
}

func newMemberListCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			if _, err := ch.authorize(auth.PermView); err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			row(tw, "NAME", "ROLE")
			for _, m := range ch.cfg.Members {
				row(tw, m.Name, m.Role)
			}
			return tw.Flush()
		},
	}
}
