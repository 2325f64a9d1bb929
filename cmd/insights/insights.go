// Package insights implements the insights command: assemble the report
// from already-ingested transactions without re-reading the message source.
package insights

import (
	"fmt"

	"github.com/spf13/cobra"

	"mpesa-insights/cmd/root"
	insightscore "mpesa-insights/internal/insights"
	"mpesa-insights/internal/report"
)

var (
	outputFile string
	csvFile    string
)

// Cmd represents the insights command.
var Cmd = &cobra.Command{
	Use:   "insights",
	Short: "Assemble the insights report from stored transactions",
	RunE:  insightsFunc,
}

func init() {
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the insights report to this JSON file")
	Cmd.Flags().StringVar(&csvFile, "merchants-csv", "", "Write the merchant frequency table to this CSV file")
}

func insightsFunc(cmd *cobra.Command, args []string) error {
	logger := root.Logger()

	_, detector, tax, err := root.NewParser()
	if err != nil {
		return err
	}

	txStore, mappings, err := root.OpenStores()
	if err != nil {
		return err
	}

	assembler := insightscore.NewAssembler(txStore, detector, tax, logger)
	rpt, err := assembler.Assemble(mappings.MappedMerchants(), insightscore.Options{
		RecurringMinOccurrences: root.Cfg.Insights.RecurringMinOccurrences,
		SuggestionMinGroupSize:  root.Cfg.Insights.SuggestionMinGroupSize,
		TopMerchants:            root.Cfg.Insights.TopMerchants,
	})
	if err != nil {
		return err
	}

	exporter := report.NewExporter(logger)

	if outputFile != "" {
		if err := exporter.WriteJSON(rpt, outputFile); err != nil {
			return err
		}
	} else {
		data, err := exporter.MarshalJSON(rpt)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}

	if csvFile != "" {
		if err := exporter.WriteMerchantCSV(rpt.FrequentMerchants, csvFile); err != nil {
			return err
		}
	}

	return nil
}
