package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/seatplan-api/internal/seating"
)

func (c *CLI) solveCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "solve <scenario.toml>",
		Short: "Run the engine and print the resulting arrangement",
		Long:  `Solve clears every unlocked seat of the scenario, places its guests and repairs proximity rules, then prints the arrangement with its remaining violations.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			sc, err := LoadScenario(args[0])
			if err != nil {
				return err
			}

			start := time.Now()
			result := seating.Run(sc.Request())
			c.logger.Debug("engine run finished",
				zap.String("scenario", args[0]),
				zap.Int("seats_filled", result.Stats.SeatsFilled),
				zap.Int("violations", len(result.Violations)),
				zap.Duration("duration", time.Since(start)),
			)

			if format == formatJSON {
				stats := statsJSON(result.Stats)
				return writeJSON(c.out, arrangementJSON{
					Scenario:   sc.Name,
					Tables:     toTablesJSON(result.Tables),
					Violations: toViolationsJSON(result.Violations),
					Stats:      &stats,
				})
			}
			renderArrangement(c.out, sc.Name, result.Tables, sc.Roster())
			renderViolations(c.out, result.Violations)
			renderStats(c.out, result.Stats)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text or json")
	return cmd
}

func (c *CLI) checkCommand() *cobra.Command {
	var (
		format string
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "check <scenario.toml>",
		Short: "Report the violations of the scenario's current arrangement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			sc, err := LoadScenario(args[0])
			if err != nil {
				return err
			}
			tables := sc.Layout()
			violations := seating.DetectViolations(tables, sc.proximity(), sc.Roster())

			if format == formatJSON {
				if err := writeJSON(c.out, arrangementJSON{
					Scenario:   sc.Name,
					Tables:     toTablesJSON(tables),
					Violations: toViolationsJSON(violations),
				}); err != nil {
					return err
				}
			} else {
				renderArrangement(c.out, sc.Name, tables, sc.Roster())
				renderViolations(c.out, violations)
			}
			if strict && len(violations) > 0 {
				return fmt.Errorf("%d violation(s) found", len(violations))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text or json")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any violation is found")
	return cmd
}

func (c *CLI) swapsCommand() *cobra.Command {
	var (
		format string
		seatID string
	)
	cmd := &cobra.Command{
		Use:   "swaps <scenario.toml>",
		Short: "List swap partners for one seat of the scenario's current arrangement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			sc, err := LoadScenario(args[0])
			if err != nil {
				return err
			}
			candidates, err := seating.FindSwapCandidates(sc.Layout(), seatID, sc.proximity(), sc.Roster())
			if err != nil {
				return fmt.Errorf("seat %s: %w", seatID, err)
			}

			if format == formatJSON {
				return writeJSON(c.out, swapsJSON{
					SourceSeatID:  candidates.SourceSeatID,
					SourceGuestID: candidates.SourceGuestID,
					Baseline:      candidates.Baseline,
					Perfect:       toCandidatesJSON(candidates.Perfect),
					Imperfect:     toCandidatesJSON(candidates.Imperfect),
				})
			}
			fmt.Fprintln(c.out, styleTitle.Render(fmt.Sprintf("Swaps for %s (%s), %d violation(s) now",
				candidates.SourceSeatID, candidates.SourceGuestID, candidates.Baseline)))
			renderCandidates(c.out, "Perfect", candidates.Perfect)
			renderCandidates(c.out, "Imperfect", candidates.Imperfect)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text or json")
	cmd.Flags().StringVar(&seatID, "seat", "", "seat ID to find partners for")
	_ = cmd.MarkFlagRequired("seat")
	return cmd
}
