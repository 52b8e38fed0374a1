package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adtech-insider/insight-cli/internal/analyze"
	"github.com/adtech-insider/insight-cli/internal/model"
	"github.com/adtech-insider/insight-cli/internal/normalize"
)

var analyzePersist bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <company name>",
	Short: "Generate an LLM-backed marketing analysis for a company",
	Long:  "Asks the configured model for a structured year-in-review of the company's marketing activity. Without an API key a deterministic fallback analysis is produced instead.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		analyzer := newAnalyzer()
		res, err := analyzer.Analyze(ctx, args[0])
		if err != nil {
			return err
		}

		if analyzePersist {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			input := analyze.ToInputCompany(res.Company.Slug, res)
			canonical := normalize.Normalize([]model.InputCompany{input})
			if len(canonical) == 1 {
				if err := st.UpsertCompany(ctx, canonical[0]); err != nil {
					return err
				}
				zap.L().Info("analysis persisted", zap.String("id", canonical[0].ID))
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzePersist, "persist", false, "normalize and store the analyzed company")
	rootCmd.AddCommand(analyzeCmd)
}
