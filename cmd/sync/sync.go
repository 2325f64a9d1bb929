// Package sync implements the batch sync command: read a message export,
// parse and ingest it, then assemble and emit the insights report.
package sync

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mpesa-insights/cmd/root"
	"mpesa-insights/internal/insights"
	"mpesa-insights/internal/msgsource"
	"mpesa-insights/internal/pipeline"
	"mpesa-insights/internal/report"
)

var (
	inputFile  string
	outputFile string
	csvFile    string
	reset      bool
)

// Cmd represents the sync command.
var Cmd = &cobra.Command{
	Use:   "sync",
	Short: "Parse a message export and refresh the insights report",
	Long: `Read an exported batch of mobile-money messages (CSV with sender, body and
timestamp_millis columns), parse them into transaction records, ingest them
idempotently, and assemble the insights report.`,
	RunE: syncFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Message export CSV file")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the insights report to this JSON file")
	Cmd.Flags().StringVar(&csvFile, "merchants-csv", "", "Write the merchant frequency table to this CSV file")
	Cmd.Flags().BoolVar(&reset, "reset", false, "Delete all stored transactions before ingesting")
	_ = Cmd.MarkFlagRequired("input")
}

func syncFunc(cmd *cobra.Command, args []string) error {
	logger := root.Logger()

	parser, detector, tax, err := root.NewParser()
	if err != nil {
		return err
	}

	txStore, mappings, err := root.OpenStores()
	if err != nil {
		return err
	}

	if reset {
		if err := txStore.DeleteAll(); err != nil {
			return fmt.Errorf("failed to reset transaction store: %w", err)
		}
		logger.Info("Transaction store reset")
	}

	source := msgsource.NewCSVSource(inputFile, logger)
	filter := msgsource.NewSenderFilter(root.Cfg.Source.Senders)
	runner := pipeline.NewRunner(source, filter, parser, txStore, logger)

	result, err := runner.Run(cmd.Context(), pipeline.Options{
		Workers:       root.Cfg.Parser.Workers,
		RetryAttempts: root.Cfg.Source.RetryAttempts,
		RetryBackoff:  time.Duration(root.Cfg.Source.RetryBackoffMS) * time.Millisecond,
	})
	if err != nil {
		return err
	}

	if err := txStore.Flush(); err != nil {
		return fmt.Errorf("failed to persist transactions: %w", err)
	}

	assembler := insights.NewAssembler(txStore, detector, tax, logger)
	rpt, err := assembler.Assemble(mappings.MappedMerchants(), insights.Options{
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

	root.Log.Infof("Sync %s: %d received, %d from known senders, %d parsed, %d ingested",
		result.RunID, result.Received, result.Filtered, result.Parsed, result.Ingested)

	return nil
}
