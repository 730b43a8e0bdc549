// Command inspect dumps the persisted records for one region, for
// debugging a live simulation from the shared store.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"physgrid.dev/internal/persistence/kvs"
)

func main() {
	var (
		dbPath = flag.String("db", "./data/physgrid.db", "key-value store path")
		region = flag.String("region", "", "region key, e.g. region_0_0_0")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[inspect] ", 0)
	if *region == "" {
		logger.Fatal("missing -region")
	}

	store, err := kvs.OpenSQLite(*dbPath)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer store.Close()

	dump := func(name string, v any, ok bool) {
		if !ok {
			fmt.Printf("%s: (none)\n", name)
			return
		}
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			logger.Fatalf("marshal %s: %v", name, err)
		}
		fmt.Printf("%s: %s\n", name, b)
	}

	warm, ok, err := store.GetWarmSet(*region)
	if err != nil {
		logger.Fatalf("read warm set: %v", err)
	}
	dump("warm", warm, ok)

	watch, ok, err := store.GetWatchSet(*region)
	if err != nil {
		logger.Fatalf("read watch set: %v", err)
	}
	dump("watch", watch, ok)
}
