package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cmlabs-hris/clocksync/internal/app"
	"github.com/cmlabs-hris/clocksync/internal/config"
	"github.com/cmlabs-hris/clocksync/internal/domain/clocking"
	"github.com/cmlabs-hris/clocksync/internal/pkg/jwt"
	"github.com/cmlabs-hris/clocksync/internal/pkg/logger"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "clocksync",
		Short: "Reconcile Synel clockings into Priority and push the roster back",
		Long: `clocksync runs the Synel/Priority sync jobs once and prints the result as JSON.

Configuration is read the same way as the server: config.yml (CONFIG_FILE),
then .env, then the process environment.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newReconcileCommand(),
		newBackfillCommand(),
		newSyncEmployeesCommand(),
		newTokenCommand(),
	)
	return root
}

func newReconcileCommand() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Write Synel scans missing from Priority",
		Example: `  clocksync reconcile                                # today
  clocksync reconcile --from 2024-05-01 --to 2024-05-07`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := clocking.Today(time.Now())
			if from != "" || to != "" {
				var err error
				if r, err = clocking.ParseDateRange(from, to); err != nil {
					return err
				}
			}
			return runReconcile(cmd, r)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD (defaults to --from)")
	return cmd
}

func newBackfillCommand() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Reconcile every day from a historical date through today",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.Parse(clocking.DateLayout, from)
			if err != nil {
				return fmt.Errorf("invalid --from %q: %w", from, err)
			}
			return runReconcile(cmd, clocking.Since(start, time.Now()))
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func newSyncEmployeesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-employees",
		Short: "Push employees flagged in Priority to Synel",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Employees.SyncAllPending(cmd.Context())
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			return res.Err()
		},
	}
}

func newTokenCommand() *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator token for the /api/v1/sync endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).GenerateOperatorToken(subject)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"token":      token,
				"expires_at": time.Unix(expiresAt, 0).UTC(),
			})
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "name recorded in the token")
	return cmd
}

func runReconcile(cmd *cobra.Command, r clocking.DateRange) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Reconciler.Run(cmd.Context(), r)
	if perr := printJSON(cmd.OutOrStdout(), res); perr != nil && err == nil {
		err = perr
	}
	if err != nil {
		return err
	}
	return res.Err()
}

// bootstrap loads configuration and wires the services. Logs go to stderr so
// stdout carries only the JSON result.
func bootstrap(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger.New(os.Stderr, cfg.App))
	return app.New(cmd.Context(), cfg)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
