package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/adtech-insider/insight-cli/internal/compare"
	"github.com/adtech-insider/insight-cli/internal/export"
	"github.com/adtech-insider/insight-cli/internal/model"
	"github.com/adtech-insider/insight-cli/internal/store"
)

var (
	compareQuarters  []string
	compareNormalize bool
	compareFormat    string
	compareOut       string
	compareWeights   []float64
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compute cross-company comparison metrics",
	Long:  "Derives averages, totals, consistency, chart-space normalization, competition ranks, and weighted composite scores across every stored company.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		companies, err := st.ListCompanies(ctx, store.CompanyFilter{})
		if err != nil {
			return err
		}
		if len(companies) == 0 {
			return eris.New("no companies in store; run import first")
		}

		weights := cfg.Compare.Weights
		if len(compareWeights) == 4 {
			weights = model.MetricWeights{
				Brand:      compareWeights[0],
				Innovation: compareWeights[1],
				Presence:   compareWeights[2],
				Activity:   compareWeights[3],
			}
		} else if len(compareWeights) != 0 {
			return eris.New("--weights needs exactly four values: brand,innovation,presence,activity")
		}

		engine := compare.NewEngine()
		result := engine.Compute(companies, compareQuarters, weights, compareNormalize)

		out := os.Stdout
		if compareOut != "" {
			f, err := os.Create(compareOut)
			if err != nil {
				return eris.Wrapf(err, "create %s", compareOut)
			}
			defer f.Close()
			out = f
		}

		switch compareFormat {
		case "table":
			return renderCompareTable(out, &result)
		case "json":
			return export.WriteCompareJSON(out, &result)
		case "csv":
			return export.WriteCompareCSV(out, &result)
		case "xlsx":
			if compareOut == "" {
				return eris.New("xlsx output requires --out")
			}
			return export.WriteCompareXLSX(out, &result)
		default:
			return eris.Errorf("unknown format: %s", compareFormat)
		}
	},
}

func renderCompareTable(out *os.File, result *model.CompareResult) error {
	metrics := make([]model.CompanyCompareMetrics, len(result.Metrics))
	copy(metrics, result.Metrics)
	sort.SliceStable(metrics, func(i, j int) bool {
		return metrics[i].RankCompositeScore < metrics[j].RankCompositeScore
	})

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tCOMPANY\tCOMPOSITE\tBRAND\tINTENSITY\tACTIVITY\tPEAK\tCONSISTENCY")
	for _, m := range metrics {
		fmt.Fprintf(w, "%d\t%s\t%.3f\t%.1f\t%.1f\t%.0f\t%.0f\t%.1f\n",
			m.RankCompositeScore, m.Name, m.CompositeScore,
			m.AvgBrandScore, m.AvgIntensity, m.TotalActivity,
			m.PeakIntensity, m.Consistency)
	}
	if err := w.Flush(); err != nil {
		return eris.Wrap(err, "render table")
	}

	if len(result.Debug.Warnings) > 0 {
		fmt.Fprintln(out)
		for _, warn := range result.Debug.Warnings {
			fmt.Fprintf(out, "warning: %s/%s: %s\n", warn.CompanyID, warn.Metric, warn.Message)
		}
	}
	return nil
}

func init() {
	compareCmd.Flags().StringSliceVar(&compareQuarters, "quarters", nil, "quarter focus, e.g. Q1,Q2 (default all)")
	compareCmd.Flags().BoolVar(&compareNormalize, "normalize", true, "use min-max chart normalization in the composite")
	compareCmd.Flags().StringVar(&compareFormat, "format", "table", "output format: table, json, csv, xlsx")
	compareCmd.Flags().StringVar(&compareOut, "out", "", "output file (default stdout)")
	compareCmd.Flags().Float64SliceVar(&compareWeights, "weights", nil, "composite weights as brand,innovation,presence,activity (default 40,20,20,20)")
	rootCmd.AddCommand(compareCmd)
}
