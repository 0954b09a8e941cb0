package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/ecsgo/pkg/ecslog"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the kill-counter, interval, and counter-state scenarios once and report results",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := ecslog.WithComponent("bench")
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		kill, err := killScenario(ctx)
		if err != nil {
			return fmt.Errorf("kill scenario: %w", err)
		}
		logger.Info().
			Int("kill_count", kill.KillCount).
			Bool("immortal_survived", kill.Immortal.IsLive()).
			Msg("kill scenario complete")

		counter, err := counterStateScenario(ctx)
		if err != nil {
			return fmt.Errorf("counter state scenario: %w", err)
		}
		logger.Info().Ints("values", counter.Values).Msg("counter state scenario complete")

		interval, err := intervalScenario(ctx)
		if err != nil {
			return fmt.Errorf("interval scenario: %w", err)
		}
		logger.Info().Int("intervals_observed", interval.IntervalsObserved).Msg("interval scenario complete")

		fmt.Printf("kill_count=%d immortal_survived=%v counter_values=%v intervals_observed=%d\n",
			kill.KillCount, kill.Immortal.IsLive(), counter.Values, interval.IntervalsObserved)
		return nil
	},
}
