package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/adtech-insider/insight-cli/internal/compare"
	"github.com/adtech-insider/insight-cli/internal/store"
)

var sanityCmd = &cobra.Command{
	Use:   "sanity",
	Short: "Run invariant checks over the stored companies",
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

		result := compare.RunSanityChecks(companies)
		if result.OK {
			fmt.Printf("ok: %d companies pass all checks\n", len(companies))
			return nil
		}

		for _, msg := range result.Errors {
			fmt.Println("fail:", msg)
		}
		return eris.Errorf("%d sanity check failures", len(result.Errors))
	},
}

func init() {
	rootCmd.AddCommand(sanityCmd)
}
