package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adtech-insider/insight-cli/internal/export"
	"github.com/adtech-insider/insight-cli/internal/store"
)

var (
	exportOut  string
	exportYear int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored companies as re-ingestable JSON",
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

		out := os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return eris.Wrapf(err, "create %s", exportOut)
			}
			defer f.Close()
			out = f
		}

		if err := export.WriteCompaniesJSON(out, companies, exportYear); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.Int("companies", len(companies)),
			zap.String("out", exportOut))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
	exportCmd.Flags().IntVar(&exportYear, "year", 2025, "year used in quarter labels")
	rootCmd.AddCommand(exportCmd)
}
