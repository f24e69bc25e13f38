package main

import (
	"fmt"
	"os"

	"fjacquet/statement-csv/cmd/banks"
	"fjacquet/statement-csv/cmd/batch"
	"fjacquet/statement-csv/cmd/categorize"
	"fjacquet/statement-csv/cmd/convert"
	"fjacquet/statement-csv/cmd/detect"
	"fjacquet/statement-csv/cmd/root"
	"fjacquet/statement-csv/cmd/version"
	"fjacquet/statement-csv/internal/config"
)

func init() {
	// Environment first: config loading reads STMT_* and GEMINI_API_KEY.
	config.LoadEnv()

	root.Init()

	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(detect.Cmd)
	root.Cmd.AddCommand(banks.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(version.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
