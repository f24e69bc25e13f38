// Package banks lists the supported institutions
package banks

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/statement-csv/cmd/root"
	"fjacquet/statement-csv/pkg/converter"

	"github.com/spf13/cobra"
)

// Cmd represents the banks command
var Cmd = &cobra.Command{
	Use:   "banks",
	Short: "List supported banks in detection priority order",
	Run: func(cmd *cobra.Command, args []string) {
		logger := root.GetLogger()
		appContainer := root.GetContainer()
		if appContainer == nil {
			logger.Fatal("Container not initialized")
		}
		if err := Run(appContainer.GetConverter(), cmd.OutOrStdout()); err != nil {
			logger.Fatalf("Error listing banks: %v", err)
		}
	},
}

// Run prints one "id  name" row per bank.
func Run(conv *converter.Converter, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, b := range conv.Banks() {
		fmt.Fprintf(tw, "%s\t%s\n", b.ID, b.Name)
	}
	return tw.Flush()
}
