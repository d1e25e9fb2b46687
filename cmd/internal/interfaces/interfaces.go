package interfaces

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tracereplay/replay-cli/cmd/internal/cmderr"
	"github.com/tracereplay/replay-cli/pcap"
	"github.com/tracereplay/replay-cli/printer"
)

var Cmd = &cobra.Command{
	Use:          "interfaces",
	Short:        "List network interfaces eligible for injection.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ifcs, err := pcap.ListInterfaces()
		if err != nil {
			return cmderr.ReplayErr{Err: err}
		}

		for _, ifc := range ifcs {
			line := ifc.Name
			if ifc.Description != "" {
				line = fmt.Sprintf("%s (%s)", line, ifc.Description)
			}
			if len(ifc.Addrs) > 0 {
				addrs := make([]string, len(ifc.Addrs))
				for i, a := range ifc.Addrs {
					addrs[i] = a.String()
				}
				line = fmt.Sprintf("%s: %s", line, strings.Join(addrs, ", "))
			}
			printer.Stdout.RawOutput(line)
		}
		return nil
	},
}
