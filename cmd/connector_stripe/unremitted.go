package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/connector-stripe/internal/config"
	"github.com/connector-stripe/internal/connector/handler"
	"github.com/connector-stripe/internal/connector/service"
	"github.com/connector-stripe/internal/domain/billing"
	"github.com/connector-stripe/internal/logger"
	"github.com/connector-stripe/internal/platform/fanout"
	"github.com/connector-stripe/internal/platform/stripeapi"
	"github.com/spf13/cobra"
)

const cliDateLayout = "2006-01-02"

var unremittedCmd = &cobra.Command{
	Use:   "unremitted",
	Short: "Print the unremitted funds report as JSON",
	Long: `Runs the unremitted funds reconciliation once against the configured Stripe
account and prints the report to stdout. Logs go to stderr.

With --as-of the window ends at the close of that UTC day and reaches back
--lookback-days (default 90). Otherwise --from and --to bound the window,
defaulting to the last 30 days.`,
	Example: `  # Charges not yet paid out as of the end of March
  connector-stripe unremitted --as-of 2024-03-31 --lookback-days 31

  # Legacy range
  connector-stripe unremitted --from 2024-03-01 --to 2024-03-31`,
	Args: cobra.NoArgs,
	RunE: runUnremitted,
}

func init() {
	rootCmd.AddCommand(unremittedCmd)

	unremittedCmd.Flags().String("as-of", "", "Report date (format: YYYY-MM-DD)")
	unremittedCmd.Flags().Int("lookback-days", billing.DefaultLookbackDays, "Days to reach back from --as-of")
	unremittedCmd.Flags().String("from", "", "Window start (format: YYYY-MM-DD)")
	unremittedCmd.Flags().String("to", "", "Window end (format: YYYY-MM-DD)")
	unremittedCmd.MarkFlagsMutuallyExclusive("as-of", "from")
	unremittedCmd.MarkFlagsMutuallyExclusive("as-of", "to")
}

func runUnremitted(cmd *cobra.Command, args []string) error {
	spec, err := windowSpecFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(configName)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.NewLoggerTo(os.Stderr, cfg)

	pool, err := fanout.NewPool(fanout.Config{Size: cfg.WorkerPool.Size}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize worker pool: %w", err)
	}
	defer pool.Shutdown()

	gateway := stripeapi.NewGateway(log, stripeapi.NewProvider(log, cfg.Stripe))
	reconciliationService := service.NewReconciliationService(log, gateway, pool)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report, err := reconciliationService.Unremitted(ctx, spec)
	if err != nil {
		return fmt.Errorf("unremitted report failed: %w", err)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(handler.NewUnremittedReportResponse(report))
}

// windowSpecFromFlags mirrors the HTTP endpoint: --as-of selects the as-of convention,
// anything else is the legacy range
func windowSpecFromFlags(cmd *cobra.Command) (billing.WindowSpec, error) {
	flags := cmd.Flags()

	if raw, _ := flags.GetString("as-of"); raw != "" {
		asOf, err := time.Parse(cliDateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --as-of date format. Use YYYY-MM-DD: %w", err)
		}
		spec := billing.AsOfWindow{AsOf: asOf}
		if flags.Changed("lookback-days") {
			lookback, _ := flags.GetInt("lookback-days")
			spec.LookbackDays = &lookback
		}
		return spec, nil
	}

	spec := billing.RangeWindow{}
	for name, bound := range map[string]**time.Time{"from": &spec.From, "to": &spec.To} {
		raw, _ := flags.GetString(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(cliDateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s date format. Use YYYY-MM-DD: %w", name, err)
		}
		*bound = &t
	}
	return spec, nil
}
