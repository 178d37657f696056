// main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mwenda/sf311-elt/config"
	"github.com/mwenda/sf311-elt/database"
	"github.com/mwenda/sf311-elt/scraper"
	"github.com/mwenda/sf311-elt/services"
	"github.com/mwenda/sf311-elt/utils"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(),
		"Usage: %s [flags] year month day\n\n"+
			"Fetches SF 311 service requests opened on or after the given UTC date\n"+
			"and upserts them into the bronze table. Month and day may be unpadded.\n\n"+
			"Flags:\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: config/config.yaml, then config.yaml)")
	fromCSV := flag.Bool("from-csv", false, "backfill from the full CSV export instead of paging the API")
	transformOnly := flag.Bool("transform", false, "rebuild the silver/gold transformation models and exit (no date arguments)")
	flag.Usage = usage
	flag.Parse()

	log.Println("Starting SF 311 ELT job...")

	// Secrets (.env is optional; the process environment always wins).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using the process environment.")
	}

	path := *configPath
	if path == "" {
		for _, p := range []string{"config/config.yaml", "config.yaml"} {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
		if path == "" {
			log.Fatalf("%v: config.yaml not found in default locations", services.ErrConfiguration)
		}
	}
	if err := config.LoadConfig(path); err != nil {
		log.Fatalf("%v: %v", services.ErrConfiguration, err)
	}
	log.Printf("Configuration loaded. Dataset: %s, DB name: %s\n",
		config.AppConfig.Socrata.DatasetID, config.AppConfig.Database.DBName)

	// Argument errors must surface before any network or store activity.
	var start time.Time
	if !*transformOnly {
		var err error
		start, err = parseStartDate(flag.Args())
		if err != nil {
			log.Printf("ERROR: %v", err)
			usage()
			os.Exit(2)
		}
	}

	if err := database.InitDB(config.AppConfig.Database); err != nil {
		log.Fatalf("%v: %v", services.ErrConfiguration, err)
	}
	defer database.CloseDB()

	if err := database.EnsureSchema(); err != nil {
		log.Fatalf("Error preparing schema: %v", err)
	}

	var err error
	switch {
	case *transformOnly:
		err = services.RunTransformations()
	case *fromCSV:
		backfill := services.NewBackfillService(database.NewBronzeStore(database.DB))
		err = backfill.RunFromExport(start)
	default:
		sync := services.NewSyncService(
			database.NewBronzeStore(database.DB),
			scraper.NewSodaClient(config.AppConfig.Socrata),
			config.AppConfig.Socrata,
		)
		if config.AppConfig.Freshness.Enabled {
			fresh := config.AppConfig.Freshness
			sync.Freshness = func() (time.Time, error) {
				return scraper.CheckPortalUpdatedDate(fresh.PageURL, fresh.Selector)
			}
		}
		err = sync.Run(start)
	}

	if err != nil {
		switch {
		case errors.Is(err, services.ErrConfiguration):
			log.Fatalf("Configuration error: %v", err)
		case errors.Is(err, services.ErrFetch):
			log.Fatalf("Fetch failed, no records were written: %v", err)
		case errors.Is(err, services.ErrWrite):
			log.Fatalf("Store operation failed, no partial data was committed: %v", err)
		default:
			log.Fatalf("Run failed: %v", err)
		}
	}

	log.Println("Run completed successfully.")
}

// parseStartDate turns the three positional arguments into the UTC-midnight
// start instant.
func parseStartDate(args []string) (time.Time, error) {
	if len(args) != 3 {
		return time.Time{}, fmt.Errorf("%w: expected exactly three arguments: year month day", services.ErrConfiguration)
	}

	nums := make([]int, 3)
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: argument %q is not an integer", services.ErrConfiguration, arg)
		}
		nums[i] = n
	}

	start, err := utils.StartOfDayUTC(nums[0], nums[1], nums[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", services.ErrConfiguration, err)
	}
	return start, nil
}
