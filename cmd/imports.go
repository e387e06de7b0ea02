package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xiaoyuanzhu-com/project-import/db"
)

var (
	listLimit  int
	listFormat string
)

var importsCmd = &cobra.Command{
	Use:   "imports",
	Short: "List recorded imports",
	Long:  `Show the most recent imports from the journal, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listFormat != "" {
			if err := validateFormat(listFormat); err != nil {
				return err
			}
		}

		database, err := db.Open(appConfig.DatabasePath, appConfig.DBLogQueries)
		if err != nil {
			return fmt.Errorf("failed to open import journal: %w", err)
		}
		defer database.Close()

		runs, err := db.NewJournal(database).List(listLimit)
		if err != nil {
			return fmt.Errorf("failed to list imports: %w", err)
		}

		if listFormat != "" {
			return encode(cmd.OutOrStdout(), listFormat, runs)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderRuns(runs))
		return nil
	},
}

func init() {
	importsCmd.Flags().IntVarP(&listLimit, "limit", "n", db.DefaultListLimit, "Maximum number of imports to show")
	importsCmd.Flags().StringVarP(&listFormat, "format", "f", "", "Print as json or yaml instead of a listing")

	rootCmd.AddCommand(importsCmd)
}
