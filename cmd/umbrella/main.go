// Package main is the umbrella CLI: a one-shot decision check against the
// public forecast feed, sharing the decision pipeline with the API server.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/jiten-project/umbrella-app/internal/config"
	"github.com/jiten-project/umbrella-app/internal/forecast"
	"github.com/jiten-project/umbrella-app/internal/jma"
	"github.com/jiten-project/umbrella-app/internal/types"
	"github.com/jiten-project/umbrella-app/internal/umbrella"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "umbrella",
		Short:         "Decide whether you need an umbrella",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCheckCmd())
	return root
}

func newCheckCmd() *cobra.Command {
	var (
		area      string
		start     string
		end       string
		pop       float64
		precip    float64
		logic     string
		asJSON    bool
		withTemps bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check one area for a given outing window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			criteria := types.UmbrellaCriteria{
				PopThreshold:    pop,
				PrecipThreshold: precip,
				Logic:           types.CriteriaLogic(logic),
			}
			if err := criteria.Validate(); err != nil {
				return err
			}
			window := types.Window{Start: start, End: end}
			if err := window.Validate(); err != nil {
				return err
			}

			client := jma.NewClient(
				&http.Client{Timeout: cfg.Provider.Timeout},
				cfg.Provider.BaseURL,
				cfg.Provider.UserAgent,
				cfg.Provider.RequestsPerSecond,
				cfg.Provider.RateBurst,
			)

			raw, err := client.FetchForecastPayload(cmd.Context(), area)
			if err != nil {
				return err
			}
			fc, err := forecast.Normalize(raw, area)
			if err != nil {
				return err
			}
			result, err := umbrella.Determine(fc, window, &criteria)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", fc.AreaName, fc.AreaCode)
			fmt.Fprintf(out, "decision: %s\n", result.Decision)
			fmt.Fprintf(out, "%s\n", result.Message)
			for _, s := range result.Hourly {
				fmt.Fprintf(out, "  %s  %3.0f%%  %.1fmm  %s\n", s.TimeLabel, s.Pop, s.Precip, s.Weather)
			}
			if withTemps {
				tr := forecast.ExtractTemperature(fc)
				fmt.Fprintf(out, "temperature: %s / %s\n", formatTemp(tr.Min), formatTemp(tr.Max))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&area, "area", "", "forecast area code (required)")
	cmd.Flags().StringVar(&start, "start", "09:00", "outing start (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "18:00", "outing end (HH:MM)")
	cmd.Flags().Float64Var(&pop, "pop-threshold", 50, "rain probability threshold (%)")
	cmd.Flags().Float64Var(&precip, "precip-threshold", 1, "precipitation threshold (mm)")
	cmd.Flags().StringVar(&logic, "logic", "OR", "threshold combinator (AND or OR)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the raw result as JSON")
	cmd.Flags().BoolVar(&withTemps, "temps", false, "include min/max temperature")
	_ = cmd.MarkFlagRequired("area")

	return cmd
}

func formatTemp(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f°C", *v)
}
