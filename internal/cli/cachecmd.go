package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/phantomworx/cq-intel/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local entry cache",
	}
	cmd.AddCommand(newCacheStatusCmd(), newCacheClearCmd())
	return cmd
}

func newCacheStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the cached record's age and contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cache.New(dataDir(cmd))
			if err != nil {
				return fmt.Errorf("initializing cache: %w", err)
			}

			rec := store.Load(true)
			if rec == nil {
				fmt.Println("No cached data.")
				return nil
			}

			age := time.Since(time.UnixMilli(rec.Timestamp)).Round(time.Minute)
			state := "fresh"
			if rec.Stale {
				state = "stale"
			}

			fmt.Printf("Entries:      %d\n", len(rec.Entries))
			fmt.Printf("Source:       %s\n", rec.SourceURL)
			fmt.Printf("Last updated: %s ago (%s)\n", formatAge(age), state)
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the cached record",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cache.New(dataDir(cmd))
			if err != nil {
				return fmt.Errorf("initializing cache: %w", err)
			}
			store.Clear()
			fmt.Fprintln(os.Stderr, "Cache cleared.")
			return nil
		},
	}
}

func formatAge(age time.Duration) string {
	if age < time.Minute {
		return "moments"
	}
	hours := int(age.Hours())
	minutes := int(age.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
