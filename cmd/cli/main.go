package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lza6/NooMiNav-optimization/pkg/adapters/repository"
	"github.com/lza6/NooMiNav-optimization/pkg/config"
	"github.com/lza6/NooMiNav-optimization/pkg/core/domain"
	"github.com/lza6/NooMiNav-optimization/pkg/ports"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "snapshot JSON file to import")

	if len(os.Args) < 2 {
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}

	cfg := config.Load()
	repo, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open click store: %v", err)
	}
	defer repo.Close()

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		doExport(repo)
	case "import":
		importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		doImport(repo, *importFile)
	default:
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}
}

// doExport writes the full stats document to stdout. The same snapshot
// imports into either store backend, which is how data moves between the
// JSON file and SQLite.
func doExport(repo ports.ClickRepository) {
	snap, err := repo.Dump(context.Background())
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		log.Fatalf("Encode failed: %v", err)
	}
}

func doImport(repo ports.ClickRepository, filename string) {
	file, err := os.Open(filename)
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer file.Close()

	var snap domain.Snapshot
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		log.Fatalf("Decode failed: %v", err)
	}
	if snap.Stats == nil {
		snap.Stats = make(map[string]domain.StatRecord)
	}

	if err := repo.Restore(context.Background(), &snap); err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Printf("Imported %d log rows, %d stat rows", len(snap.Logs), len(snap.Stats))
}
