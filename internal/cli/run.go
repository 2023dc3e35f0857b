package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/futurewallet/wallet/engine"
	"github.com/futurewallet/wallet/export"
	"github.com/futurewallet/wallet/scenario"
	"github.com/futurewallet/wallet/store"
	"github.com/futurewallet/wallet/worker"
)

func newRunCmd(rc *RootConfig) *cobra.Command {
	var (
		counterfactual bool
		csvOut         string
		jsonOut        string
		save           bool
		progress       bool
	)

	cmd := &cobra.Command{
		Use:   "run <scenario-file>",
		Short: "Run a simulation from a YAML or JSON scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := scenario.LoadFromFile(args[0])
			if err != nil {
				return err
			}

			kind := worker.KindRun
			if counterfactual {
				kind = worker.KindRunCounterfactual
			}
			responses := worker.Run(cmd.Context(), rc.Logger(), worker.Request{
				Kind:     kind,
				Scenario: *cfg,
			})

			var (
				res *engine.Result
				cf  *engine.CounterfactualResult
			)
			for resp := range responses {
				switch resp.Kind {
				case worker.RespProgress:
					if progress {
						cmd.Printf("day %d/%d\n", resp.Day, resp.TotalDays)
					}
				case worker.RespResult:
					res = resp.Result
				case worker.RespCounterfactualResult:
					cf = resp.Counterfactual
				case worker.RespError:
					return errors.New(resp.Message)
				}
			}
			if cf != nil {
				res = cf.WithShocks
			}
			if res == nil {
				return cmd.Context().Err()
			}

			printSummary(cmd, &res.Summary, cfg.Name)
			if cf != nil {
				cmd.Printf("no-shocks balance delta: %.2f\n", cf.Insights.BalanceDeltaNoShocksVsActual)
				cmd.Printf("no-shocks NAV delta:     %.2f\n", cf.Insights.NAVDeltaNoShocksVsActual)
			}

			if save {
				st, err := store.Open(rc.DBPath)
				if err != nil {
					return err
				}
				defer st.Close()
				rec, err := st.SaveScenario(*cfg)
				if err != nil {
					return err
				}
				if _, err := st.SaveRun(rec.ID, res); err != nil {
					return err
				}
				cmd.Printf("saved scenario %s\n", rec.ID)
			}

			return writeOutputs(res, cfg.Name, csvOut, jsonOut)
		},
	}

	cmd.Flags().BoolVar(&counterfactual, "counterfactual", false, "Also run with all shocks disabled and report deltas")
	cmd.Flags().StringVar(&csvOut, "csv", "", "Write per-day CSV to this path")
	cmd.Flags().StringVar(&jsonOut, "json", "", "Write JSON export to this path")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the scenario and weekly snapshots to the database")
	cmd.Flags().BoolVar(&progress, "progress", false, "Print progress while the simulation runs")

	return cmd
}

func printSummary(cmd *cobra.Command, s *engine.Summary, name string) {
	cmd.Printf("scenario: %s\n", name)
	cmd.Printf("final balance: %.2f  (P5 %.2f / P95 %.2f)\n", s.FinalBalance, s.FinalBalanceP5, s.FinalBalanceP95)
	cmd.Printf("final NAV:     %.2f  (P5 %.2f / P95 %.2f)\n", s.FinalNAV, s.FinalNAVP5, s.FinalNAVP95)
	cmd.Printf("credit score:  %.0f   vibe: %s   RSI: %.1f\n", s.FinalCreditScore, s.VibeTier, s.ShockResilienceIndex)
	cmd.Printf("deficit days:  %d    collapse probability: %.3f\n", s.DeficitDays, s.CollapseProbability)
	cmd.Printf("taxes paid:    %.2f  realized gains: %.2f\n", s.TaxesPaid, s.RealizedGains)
}

func writeOutputs(res *engine.Result, name, csvOut, jsonOut string) error {
	if csvOut != "" {
		f, err := os.Create(csvOut)
		if err != nil {
			return err
		}
		if err := export.WriteCSV(f, res, name); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	if jsonOut != "" {
		data, err := export.ToJSON(res, name, time.Now().UTC())
		if err != nil {
			return err
		}
		if err := os.WriteFile(jsonOut, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func newScenariosCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List saved scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(rc.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.ListScenarios()
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				cmd.Println("no scenarios saved")
				return nil
			}
			for _, rec := range recs {
				line := fmt.Sprintf("%s  %-30s  %s", rec.ID, rec.Name, rec.CreatedAt.Format(time.RFC3339))
				if rec.ParentID != "" {
					line += fmt.Sprintf("  (branch of %s @ day %d)", rec.ParentID, rec.BranchDay)
				}
				cmd.Println(line)
			}
			return nil
		},
	}
}
