// Command cursorpos reports the cursor position of the terminal on stdin.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/termquery-dev/termquery/internal/cpr"
)

var rootCmd = &cobra.Command{
	Use:   "cursorpos",
	Short: "Report the cursor position of the terminal on stdin",
	Long: `cursorpos queries the controlling terminal with the ECMA-48 CPR sequence
and prints the 1-based cursor row and column, separated by a space.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := cpr.Query(os.Stdin, cpr.Options{})
		if err != nil {
			return err
		}
		_, err = fmt.Printf("%d %d\n", pos.Row, pos.Col)
		return err
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cursorpos: %v\n", err)
		os.Exit(1)
	}
}
