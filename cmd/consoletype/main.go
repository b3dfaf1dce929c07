// Command consoletype prints whether the terminal on stdin is a virtual
// console, a serial line, or a pseudo-terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/termquery-dev/termquery/internal/consoletype"
)

// exitCode carries the detected type out of RunE; scripts branch on it.
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "consoletype [stdout]",
	Short: "Print the type of terminal attached to stdin",
	Long: `consoletype classifies the terminal on stdin as "vt", "serial", "pty", or
"unknown" and prints the label. The exit status is the type ordinal, unless
the literal argument "stdout" is given, in which case it is always 0.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t := consoletype.Classify(int(os.Stdin.Fd()))
		if _, err := fmt.Println(t); err != nil {
			return err
		}
		if len(args) == 1 && args[0] == "stdout" {
			exitCode = 0
		} else {
			exitCode = int(t)
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "consoletype: %v\n", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
