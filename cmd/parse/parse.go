// Package parse implements the one-shot parse command for inspecting how a
// single message body is interpreted.
package parse

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"mpesa-insights/cmd/root"
)

var message string

// Cmd represents the parse command.
var Cmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a single message body and print the extracted transaction",
	RunE:  parseFunc,
}

func init() {
	Cmd.Flags().StringVarP(&message, "message", "m", "", "Message body to parse")
	_ = Cmd.MarkFlagRequired("message")
}

func parseFunc(cmd *cobra.Command, args []string) error {
	parser, _, _, err := root.NewParser()
	if err != nil {
		return err
	}

	tx, ok := parser.Parse(message)
	if !ok {
		// Not an error: unconfirmed or unrecognized messages simply
		// produce no record.
		fmt.Println("No transaction extracted")
		return nil
	}

	data, err := json.MarshalIndent(tx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	fmt.Println(string(data))
	return nil
}
