package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"slices"

	"npi-linker/core/config"
	"npi-linker/core/reference"
	"npi-linker/core/storage"
)

// Prints the extracted profile of every reference row carrying one of the
// NPIs given as arguments, stopping once all of them have been seen.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: debug_lookup NPI [NPI...]")
	}
	wanted := os.Args[1:]

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	var client storage.Client
	if cfg.Storage.Enabled {
		if client, err = storage.NewClient(cfg.Storage); err != nil {
			log.Fatal(err)
		}
	}

	ctx := context.Background()
	source, err := reference.ParseSource(cfg.Run.Reference, client)
	if err != nil {
		log.Fatal(err)
	}
	rc, err := source.Open(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer rc.Close()

	scanner, err := reference.NewScanner(rc, reference.DefaultSchema(), cfg.Run.FilterChunkSize)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("=== Scanning %s ===\n", source)
	if missing := scanner.Missing(); len(missing) > 0 {
		fmt.Printf("Header is missing %d columns\n", len(missing))
	}

	found := make(map[string]reference.Profile)
	var rows int64
	for len(found) < len(wanted) {
		chunk, err := scanner.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
		rows += int64(len(chunk.Rows))
		for _, row := range chunk.Rows {
			npi := row.NPI.Trimmed()
			if slices.Contains(wanted, npi) {
				found[npi] = reference.Extract(row)
			}
		}
	}

	fmt.Printf("Rows scanned: %d\n", rows)
	for _, npi := range wanted {
		if p, ok := found[npi]; ok {
			fmt.Printf("FOUND %s: %s (%s) at %q, %d licenses, %d taxonomy codes\n",
				npi, p.FullName, p.Credential, p.Address(), len(p.Licenses), len(p.TaxonomyCodes))
		} else {
			fmt.Printf("NOT FOUND: %s\n", npi)
		}
	}

	data, _ := json.MarshalIndent(found, "", "  ")
	os.WriteFile("debug_lookup.json", data, 0644)

	fmt.Println("\nDebug complete. Check debug_lookup.json for details.")
}
