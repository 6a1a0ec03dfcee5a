package main

import (
	"fmt"
	"log"
	"os"

	"npi-linker/core/config"
	"npi-linker/core/normalize"
)

// Shows how license numbers, names and phones are keyed before comparison.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: debug_normalize VALUE [VALUE...]")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}
	licenses := normalize.NewLicenseNormalizer(cfg.Run.LicensePrefixes...)
	fmt.Printf("License prefixes: %v\n\n", licenses.Prefixes())

	for _, raw := range os.Args[1:] {
		fmt.Printf("Input: %q\n", raw)
		fmt.Printf("  -> license: %q\n", licenses.Normalize(raw))
		fmt.Printf("  -> name:    %q\n", normalize.Name(raw))
		phone := normalize.Phone(raw)
		if phone == "" {
			fmt.Println("  -> phone:   (not a usable phone)")
		} else {
			fmt.Printf("  -> phone:   %q\n", phone)
		}
	}
}
