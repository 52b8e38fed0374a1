package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adtech-insider/insight-cli/internal/export"
	"github.com/adtech-insider/insight-cli/internal/mockgen"
	"github.com/adtech-insider/insight-cli/internal/model"
	"github.com/adtech-insider/insight-cli/internal/normalize"
)

var (
	mockCount   int
	mockSeed    int
	mockPersist bool
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Generate deterministic mock companies",
	Long:  "Emits seeded mock companies in the input schema, useful for demos and pipeline testing. The same seed always produces the same data.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		inputs := make([]model.InputCompany, 0, mockCount)
		for i := 0; i < mockCount; i++ {
			inputs = append(inputs, mockgen.CreateMockCompany(mockSeed+i))
		}

		if mockPersist {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			canonical := normalize.Normalize(inputs)
			n, err := st.UpsertCompanies(ctx, canonical)
			if err != nil {
				return err
			}
			zap.L().Info("mock companies persisted", zap.Int("companies", n))
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(export.Document{Companies: inputs})
	},
}

func init() {
	mockCmd.Flags().IntVar(&mockCount, "count", 4, "number of companies to generate")
	mockCmd.Flags().IntVar(&mockSeed, "seed", 1, "starting seed")
	mockCmd.Flags().BoolVar(&mockPersist, "persist", false, "normalize and store the generated companies")
	rootCmd.AddCommand(mockCmd)
}
