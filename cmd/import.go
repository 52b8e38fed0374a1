package main

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adtech-insider/insight-cli/internal/compare"
	"github.com/adtech-insider/insight-cli/internal/fetch"
	"github.com/adtech-insider/insight-cli/internal/normalize"
	"github.com/adtech-insider/insight-cli/internal/schema"
)

var importDryRun bool

var importCmd = &cobra.Command{
	Use:   "import <file-or-url> [file-or-url ...]",
	Short: "Import company JSON into the store",
	Long:  "Parses loosely-structured company JSON (wrapper object, bare array, or single company) from local files or https URLs, normalizes every record into the canonical schema, and upserts the results.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		fetcher := fetch.New(fetch.Options{})

		total := 0
		for _, path := range args {
			var data []byte
			if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
				data, err = fetcher.FetchJSON(ctx, path)
			} else {
				data, err = os.ReadFile(path)
			}
			if err != nil {
				return eris.Wrapf(err, "read %s", path)
			}

			parsed, err := schema.ParseJSON(data)
			if err != nil {
				return eris.Wrapf(err, "parse %s", path)
			}
			if parsed.Partial {
				zap.L().Warn("some records were dropped",
					zap.String("file", path),
					zap.Strings("issues", parsed.Issues))
			}

			canonical := normalize.Normalize(parsed.Companies)

			sanity := compare.RunSanityChecks(canonical)
			if !sanity.OK {
				zap.L().Warn("sanity check failures",
					zap.String("file", path),
					zap.Strings("errors", sanity.Errors))
			}

			if importDryRun {
				zap.L().Info("dry run, not persisting",
					zap.String("file", path),
					zap.Int("companies", len(canonical)))
				total += len(canonical)
				continue
			}

			n, err := st.UpsertCompanies(ctx, canonical)
			if err != nil {
				return eris.Wrapf(err, "persist %s", path)
			}
			zap.L().Info("imported companies",
				zap.String("file", path),
				zap.Int("companies", n))
			total += n
		}

		zap.L().Info("import complete", zap.Int("total", total))
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse and validate without persisting")
	rootCmd.AddCommand(importCmd)
}
