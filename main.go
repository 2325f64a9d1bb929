package main

import (
	"fmt"
	"os"

	"mpesa-insights/cmd/insights"
	"mpesa-insights/cmd/parse"
	"mpesa-insights/cmd/root"
	"mpesa-insights/cmd/sync"
)

func init() {
	root.Cmd.AddCommand(sync.Cmd)
	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(insights.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
