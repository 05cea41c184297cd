package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keurnel/logsim/internal/simulator"
)

var (
	runCycles   int
	runMonitors []string
)

// runCmd parses and simulates a circuit definition file. Exit codes: 0 on a
// clean run, 1 if the file fails to parse, 2 if the network oscillates
// instead of settling on some cycle.
var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Parse and simulate a circuit definition file",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		sim := simulator.New()
		res, err := sim.Load(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for _, msg := range res.Messages {
			fmt.Println(msg)
		}
		fmt.Println(res.Summary)
		if !res.Success {
			os.Exit(1)
		}

		declared, _ := sim.SignalNames()
		alreadyMonitored := make(map[string]bool, len(declared))
		for _, name := range declared {
			alreadyMonitored[name] = true
		}
		for _, name := range runMonitors {
			if alreadyMonitored[name] {
				continue
			}
			if err := sim.AddMonitor(name); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}

		for i := 0; i < runCycles; i++ {
			if !sim.ExecuteCycle() {
				fmt.Fprintf(os.Stderr, "oscillation detected on cycle %d\n", i+1)
				os.Exit(2)
			}
		}

		monitored, _ := sim.SignalNames()
		for _, name := range monitored {
			fmt.Printf("%s:", name)
			for _, level := range sim.MonitorHistory(name) {
				fmt.Printf(" %s", level)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&runCycles, "cycles", 10, "number of cycles to simulate")
	runCmd.Flags().StringArrayVar(&runMonitors, "monitor", nil, "additional signal to monitor (repeatable)")
}
