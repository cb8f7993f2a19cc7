package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/bugdash/schema"
)

func newSchemaCommand() *cobra.Command {
	var (
		format     string
		sampleSize int
		recovered  []string
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Describe the dataset's columns",
		Long: `Inspect the CSV and print what each column looks like: dimension or
measure, value type, sample values, cardinality and missing counts. The four
bug-report columns are always listed as required dimensions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := getApp(cmd.Context())
			if err != nil {
				return err
			}

			data, err := afero.ReadFile(a.fs, a.cfg.DataPath)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}

			opts := schema.DefaultDiscoverOptions()
			opts.SampleSize = sampleSize
			opts.RecoverColumns = recovered
			sch, err := schema.DiscoverFromCSV(data, opts)
			if err != nil {
				return fmt.Errorf("auto-detect failed: %w", err)
			}
			a.logger.Debug("schema discovered",
				"dimensions", len(sch.Dimensions), "measures", len(sch.Measures), "skipped", len(sch.SkippedColumns))

			w := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(sch)
			case "yaml":
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(sch); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format (json|yaml)")
	cmd.Flags().IntVar(&sampleSize, "sample", 1000, "Rows to inspect (0 = all)")
	cmd.Flags().StringSliceVar(&recovered, "recover", nil, "Force-include columns that were auto-skipped")
	return cmd
}
