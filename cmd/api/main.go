package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "worklog-api",
		Short: "Work log backend: clock in/out, work orders and manager reports",
		Long: `worklog-api serves the employee clock and work order API together with
the manager work log search. Configuration comes from .env, the YAML file
named by CONFIG_FILE and the environment, in that order.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
