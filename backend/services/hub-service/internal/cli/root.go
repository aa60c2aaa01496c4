// Package cli implements oicpctl, the operator tool for OICP documents.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/services/hub-service/internal/auth"
)

// NewRootCmd builds the oicpctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "oicpctl",
		Short:         "Validate, canonicalize and compare OICP documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newValidateCmd(), newCanonCmd(), newDiffCmd(time.Now), newTokenCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Parse a document tolerantly and list every problem found",
		Long:  "Supported messages: " + strings.Join(Supported(), ", "),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			root, _, problems, err := Decode(data)
			out := cmd.OutOrStdout()
			for _, p := range problems {
				fmt.Fprintf(out, "skipped %s\n", p)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%s: %d problems in %s", args[0], len(problems), root)
			}
			fmt.Fprintf(out, "ok %s\n", root)
			return nil
		},
	}
}

func newCanonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "canon <file>",
		Short: "Re-serialize a document in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			_, e, problems, err := Decode(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			for _, p := range problems {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s\n", p)
			}
			return write(cmd, e)
		},
	}
}

func newDiffCmd(now func() time.Time) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Print the incremental push turning the old push document into the new one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stamp := now().UTC()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				stamp = t.UTC()
			}
			prev, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			next, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			e, n, err := DiffPushes(prev, next, stamp)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d changed records\n", n)
			return write(cmd, e)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "lastUpdate stamp of the deltas (RFC 3339, default now)")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		secret   string
		name     string
		operator string
		provider string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a partner token for the hub endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				secret = os.Getenv("HUB_JWT_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("--secret or HUB_JWT_SECRET is required")
			}
			partner := auth.Partner{Name: name}
			if operator != "" {
				id, err := ids.ParseOperatorID(operator)
				if err != nil {
					return err
				}
				partner.OperatorID = id
			}
			if provider != "" {
				id, err := ids.ParseProviderID(provider)
				if err != nil {
					return err
				}
				partner.ProviderID = id
			}
			token, err := auth.NewTokenService(secret, ttl).GenerateToken(partner)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (default $HUB_JWT_SECRET)")
	cmd.Flags().StringVar(&name, "name", "", "partner name")
	cmd.Flags().StringVar(&operator, "operator", "", "operator id the partner pushes for")
	cmd.Flags().StringVar(&provider, "provider", "", "provider id the partner pulls for")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func write(cmd *cobra.Command, e *etree.Element) error {
	data, err := oicp.Marshal(e)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
