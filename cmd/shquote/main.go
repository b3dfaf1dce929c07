// Command shquote quotes its arguments for safe reuse as shell input.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/termquery-dev/termquery/internal/shquote"
)

var rootCmd = &cobra.Command{
	Use:   "shquote [string ...]",
	Short: "Quote arguments for safe reuse as shell input",
	Long: `shquote prints its arguments on one line, each quoted so the shell reads
it back as the original string. With POSIXLY_CORRECT set, $'...' quoting is
avoided for the benefit of strictly POSIX shells.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		allowDollar := true
		if v, ok := os.LookupEnv("POSIXLY_CORRECT"); ok && v != "" {
			allowDollar = false
		}
		_, err := fmt.Println(shquote.Join(args, allowDollar))
		return err
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "shquote: %v\n", err)
		os.Exit(1)
	}
}
