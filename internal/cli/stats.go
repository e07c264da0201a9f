package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lazypower/curator/internal/config"
	"github.com/lazypower/curator/internal/engine"
)

var statsCmd = &cobra.Command{
	Use:   "stats [user-id]",
	Short: "Show recommendation stats for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	userID := args[0]

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	eng := engine.New(engine.Options{})
	defer eng.Stop()
	if err := replay(db, eng); err != nil {
		return fmt.Errorf("replay state: %w", err)
	}
	eng.Flush()

	stats := eng.Stats(userID)
	fmt.Printf("user: %s\n", userID)
	fmt.Printf("  profile completeness: %.0f%%\n", stats.ProfileCompleteness*100)
	fmt.Printf("  total interactions:   %d\n", stats.TotalInteractions)
	fmt.Printf("  similar users:        %d\n", stats.SimilarUserCount)
	if len(stats.PreferredCategories) > 0 {
		fmt.Printf("  preferred categories: %s\n", strings.Join(stats.PreferredCategories, ", "))
	} else {
		fmt.Printf("  preferred categories: (none yet)\n")
	}
	return nil
}
