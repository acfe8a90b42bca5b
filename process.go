package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracknote/tracknote/internal/config"
	"github.com/tracknote/tracknote/internal/mention"
)

var processCmd = &cobra.Command{
	Use:   "process <note-file>...",
	Short: "Rewrite bare task references into links in the given notes",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	manager, err := config.Load()
	if err != nil {
		return err
	}
	settings := manager.Snapshot()

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		normalized := mention.Normalize(string(data), settings.BaseURL)
		if normalized == string(data) {
			fmt.Printf("%s: no changes\n", path)
			continue
		}
		if err := os.WriteFile(path, []byte(normalized), 0644); err != nil {
			return err
		}
		fmt.Printf("%s: links normalized\n", path)
	}
	return nil
}
