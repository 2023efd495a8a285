package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	postgresRepo "github.com/iho/goforecast/internal/adapter/repository/postgres"
	"github.com/iho/goforecast/internal/adapter/repository/snapshot"
	"github.com/iho/goforecast/internal/infrastructure/clock"
	"github.com/iho/goforecast/internal/infrastructure/logger"
	"github.com/iho/goforecast/internal/infrastructure/postgres"
	"github.com/iho/goforecast/internal/usecase"
)

// options are the persistent flags shared by every command.
type options struct {
	snapshotPath string
	today        string
	userID       string
	logLevel     string
}

// services are the use cases backed by a loaded snapshot.
type services struct {
	projection *usecase.ProjectionUseCase
	suggestion *usecase.SuggestionUseCase
	health     *usecase.HealthUseCase
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "goforecast-cli",
		Short:         "GoForecast CLI tool",
		Long:          `Replay goal, debt, budget and financial health forecasts against a JSON or TOML snapshot.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return requireFlags(cmd, "snapshot", "user")
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.snapshotPath, "snapshot", "s", "", "Snapshot file (.json or .toml)")
	rootCmd.PersistentFlags().StringVar(&opts.today, "today", "", "Calculation day YYYY-MM-DD (default: current UTC day)")
	rootCmd.PersistentFlags().StringVarP(&opts.userID, "user", "u", "", "User ID whose data is forecast")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level")

	rootCmd.SetOut(out)
	rootCmd.AddCommand(
		goalCmd(opts),
		debtCmd(opts),
		seriesCmd(opts),
		suggestCmd(opts),
		healthCmd(opts),
		insightsCmd(opts),
		alertsCmd(opts),
		migrateCmd(opts),
	)

	return rootCmd
}

func goalCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "goal <goal-id>",
		Short: "Project a goal's balance at its target date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, svc *services) (any, error) {
				return svc.projection.ProjectGoal(ctx, usecase.GoalInput{UserID: opts.userID, GoalID: args[0]})
			})
		},
	}
}

func debtCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "debt <debt-id>",
		Short: "Project a debt's balance at its payoff date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, svc *services) (any, error) {
				return svc.projection.ProjectDebt(ctx, usecase.DebtInput{UserID: opts.userID, DebtID: args[0]})
			})
		},
	}
}

func seriesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "series <goal|debt> <id>",
		Short:     "Print the month-by-month projected balance",
		Args:      cobra.MatchAll(cobra.ExactArgs(2), validKind),
		ValidArgs: []string{"goal", "debt"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, svc *services) (any, error) {
				if args[0] == "goal" {
					return svc.projection.GoalSeries(ctx, usecase.GoalInput{UserID: opts.userID, GoalID: args[1]})
				}
				return svc.projection.DebtSeries(ctx, usecase.DebtInput{UserID: opts.userID, DebtID: args[1]})
			})
		},
	}
}

func validKind(_ *cobra.Command, args []string) error {
	if args[0] != "goal" && args[0] != "debt" {
		return fmt.Errorf("series kind must be goal or debt, got %q", args[0])
	}
	return nil
}

func suggestCmd(opts *options) *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest Loans and Savings budgets for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, svc *services) (any, error) {
				return svc.suggestion.Suggest(ctx, usecase.SuggestInput{UserID: opts.userID, Year: year, Month: month})
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Budget year (default: current year)")
	cmd.Flags().IntVar(&month, "month", 0, "Budget month 1-12 (default: current month)")

	return cmd
}

func healthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Score the user's financial health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, svc *services) (any, error) {
				return svc.health.Score(ctx, opts.userID)
			})
		},
	}
}

func insightsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Predict goal completion and the spending trend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, svc *services) (any, error) {
				return svc.health.Insights(ctx, opts.userID)
			})
		},
	}
}

func alertsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "List deadline, schedule and budget alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, svc *services) (any, error) {
				return svc.health.Alerts(ctx, opts.userID)
			})
		},
	}
}

func migrateCmd(opts *options) *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:       "migrate <up|down|version>",
		Short:     "Manage the forecasting schema in a development database",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "version"},
		// Migrations need neither a snapshot nor a user.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				databaseURL = os.Getenv("DATABASE_URL")
			}
			if databaseURL == "" {
				return errors.New("--database-url or DATABASE_URL is required")
			}

			log := logger.New(logger.Config{Level: opts.logLevel, Format: "console", Output: cmd.ErrOrStderr()})

			mg, err := postgres.NewMigrator(databaseURL, log)
			if err != nil {
				return err
			}
			defer mg.Close()

			switch args[0] {
			case "up":
				return mg.Up()
			case "down":
				return mg.Down()
			default:
				version, dirty, err := mg.Version()
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{"version": version, "dirty": dirty})
			}
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL (default: $DATABASE_URL)")

	return cmd
}

func requireFlags(cmd *cobra.Command, names ...string) error {
	var missing []string
	for _, name := range names {
		if f := cmd.Flag(name); f == nil || !f.Changed {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf(`required flag(s) "%s" not set`, strings.Join(missing, `", "`))
	}
	return nil
}

// run loads the snapshot, executes fn and prints its result as JSON.
func run(cmd *cobra.Command, opts *options, fn func(ctx context.Context, svc *services) (any, error)) error {
	log := logger.New(logger.Config{Level: opts.logLevel, Format: "console", Output: cmd.ErrOrStderr()})
	ctx := log.WithContext(cmd.Context())

	svc, err := newServices(opts)
	if err != nil {
		return err
	}

	result, err := fn(ctx, svc)
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), result)
}

func newServices(opts *options) (*services, error) {
	store, err := snapshot.Load(opts.snapshotPath)
	if err != nil {
		return nil, err
	}

	clk, err := newClock(opts.today)
	if err != nil {
		return nil, err
	}

	goals, debts := store.Goals(), store.Debts()

	return &services{
		projection: usecase.NewProjectionUseCase(goals, debts, clk, postgresRepo.NewULIDGenerator(), nil),
		suggestion: usecase.NewSuggestionUseCase(goals, debts, store.Categories(), clk, nil),
		health:     usecase.NewHealthUseCase(goals, debts, store.Budgets(), store.Transactions(), nil, clk, nil),
	}, nil
}

func newClock(today string) (usecase.Clock, error) {
	if today == "" {
		return clock.NewSystem(time.UTC), nil
	}

	day, err := time.Parse(time.DateOnly, today)
	if err != nil {
		return nil, fmt.Errorf("invalid --today %q, expected YYYY-MM-DD", today)
	}
	return clock.NewFixed(day), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
