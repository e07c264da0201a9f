package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lazypower/curator/internal/config"
	"github.com/lazypower/curator/internal/engine"
)

var importCmd = &cobra.Command{
	Use:   "import [file.json]",
	Short: "Bulk-load content items from a JSON array",
	Long:  "Import content items into the catalog. The file holds a JSON array of items; existing ids are replaced. The serve command picks them up on next start.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	var items []engine.ContentItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	imported := 0
	for _, item := range items {
		if item.ID == "" {
			fmt.Fprintf(os.Stderr, "import: skipping item with empty id (%q)\n", item.Title)
			continue
		}
		if err := db.SaveContent(item); err != nil {
			return fmt.Errorf("save %s: %w", item.ID, err)
		}
		imported++
	}

	fmt.Printf("imported %d items into %s\n", imported, db.Path)
	return nil
}
