package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hearthledger/budget-backend/config"
	"github.com/hearthledger/budget-backend/internal/events"
	"github.com/hearthledger/budget-backend/internal/store/memory"
	"github.com/hearthledger/budget-backend/models/overspend"
	"github.com/hearthledger/budget-backend/models/overspend/service"
	"github.com/hearthledger/budget-backend/types"
	"github.com/spf13/cobra"
)

type replayOptions struct {
	householdPath string
	statementPath string
	at            string
	defaults      config.OverspendConfig
}

// replayOutput is what the replay command prints.
type replayOutput struct {
	HouseholdID string                 `json:"householdId"`
	StatementID string                 `json:"statementId"`
	Result      *service.ProcessResult `json:"result"`
	Events      []types.Event          `json:"events"`
}

func newReplayCmd() *cobra.Command {
	opts := &replayOptions{}
	defaults := overspend.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a statement against a household fixture",
		Long: "Runs overspend detection for a statement against an in-memory copy of the household\n" +
			"and prints the detections, projects, tasks, notifications and events it would produce.\n" +
			"Nothing is persisted and no notifications are sent.",
		Example: "  overspendctl replay --household household.yaml --statement statement.yaml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReplay(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.householdPath, "household", "", "Household fixture (YAML)")
	cmd.Flags().StringVar(&opts.statementPath, "statement", "", "Statement fixture (YAML)")
	cmd.Flags().StringVar(&opts.at, "at", "", "Processing time (RFC 3339); defaults to now")
	cmd.Flags().StringVar(&opts.defaults.Threshold, "threshold", defaults.Threshold.String(), "Default overspend threshold")
	cmd.Flags().StringVar(&opts.defaults.AutoCreateThreshold, "auto-create-threshold", defaults.AutoCreateThreshold.String(), "Responsibility below which projects activate without approval")
	cmd.Flags().StringVar(&opts.defaults.ResponsibilityPercent, "percent", defaults.ResponsibilityPercent.String(), "Default responsibility percent")
	cmd.Flags().IntVar(&opts.defaults.WeekCount, "weeks", defaults.WeekCount, "Default repayment week count")
	_ = cmd.MarkFlagRequired("household")
	_ = cmd.MarkFlagRequired("statement")

	return cmd
}

func runReplay(cmd *cobra.Command, opts *replayOptions) error {
	household, err := loadHousehold(opts.householdPath)
	if err != nil {
		return err
	}
	statement, err := loadStatement(opts.statementPath)
	if err != nil {
		return err
	}

	cfg, err := replayConfig(opts.defaults)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if opts.at != "" {
		if now, err = time.Parse(time.RFC3339, opts.at); err != nil {
			return fmt.Errorf("invalid --at %q: %w", opts.at, err)
		}
	}

	st := memory.New()
	st.PutHousehold(household)
	publisher := events.NewMemoryPublisher()

	processor := service.NewStatementProcessor(st, st, nil, publisher, cfg).
		WithClock(func() time.Time { return now })

	result, err := processor.ProcessStatementCharges(cmd.Context(), household.ID, statement.Charges, statement.ID)
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}

	out := replayOutput{
		HouseholdID: household.ID,
		StatementID: statement.ID,
		Result:      result,
		Events:      publisher.Events(household.ID),
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func replayConfig(c config.OverspendConfig) (overspend.Config, error) {
	if c.WeekCount <= 0 {
		return overspend.Config{}, fmt.Errorf("--weeks must be positive, got %d", c.WeekCount)
	}
	threshold, autoCreate, percent, err := c.Amounts()
	if err != nil {
		return overspend.Config{}, err
	}
	return overspend.Config{
		Threshold:             threshold,
		AutoCreateThreshold:   autoCreate,
		ResponsibilityPercent: percent,
		WeekCount:             c.WeekCount,
	}, nil
}
