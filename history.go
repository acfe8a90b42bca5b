package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tracknote/tracknote/internal/repository"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently created issues",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := repository.InitDB(historyDB)
	if err != nil {
		return err
	}
	defer db.Close()

	issues, err := repository.NewHistoryRepository(db).ListRecent(historyLimit)
	if err != nil {
		return err
	}
	if len(issues) == 0 {
		fmt.Println("no issues created yet")
		return nil
	}
	for _, issue := range issues {
		fmt.Printf("%-12s %-40s %s, %s\n", issue.TaskID, issue.Summary, issue.Source, humanize.Time(issue.CreatedAt))
	}
	return nil
}
