// database/schema.go
package database

import (
	"fmt"
	"log"
)

// Bronze table: one row per service_request_id holding the latest-known raw
// state. Timestamp columns are TEXT and stored verbatim as received; UTC
// interpretation happens in the planner, not here. inserted_at is set once
// on first insert and never overwritten by the upsert.
const createBronzeTable = `
CREATE TABLE IF NOT EXISTS bronze_sf311_calls (
    service_request_id               VARCHAR(64) NOT NULL PRIMARY KEY,
    requested_datetime               TEXT,
    closed_date                      TEXT,
    updated_datetime                 TEXT,
    status_description               TEXT,
    status_notes                     TEXT,
    agency_responsible               TEXT,
    service_name                     TEXT,
    service_subtype                  TEXT,
    service_details                  TEXT,
    address                          TEXT,
    street                           TEXT,
    supervisor_district              TEXT,
    neighborhoods_sffind_boundaries  TEXT,
    analysis_neighborhood            TEXT,
    police_district                  TEXT,
    lat                              TEXT,
    ` + "`long`" + `                           TEXT,
    point                            TEXT,
    point_geom                       TEXT,
    source                           TEXT,
    media_url                        TEXT,
    bos_2012                         TEXT,
    data_as_of                       TEXT,
    data_loaded_at                   TEXT,
    inserted_at                      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const createLoadRunsTable = `
CREATE TABLE IF NOT EXISTS etl_load_runs (
    id            BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
    run_at        TIMESTAMP NOT NULL,
    source        VARCHAR(16) NOT NULL,
    fetch_mode    VARCHAR(16) NOT NULL,
    lower_bound   VARCHAR(32) NOT NULL,
    updated_since VARCHAR(32) NULL,
    record_count  INT NOT NULL,
    duration_ms   BIGINT NOT NULL
)`

// EnsureSchema creates the bronze and operational tables if they do not
// exist yet.
func EnsureSchema() error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	if _, err := DB.Exec(createBronzeTable); err != nil {
		return fmt.Errorf("failed to create bronze_sf311_calls: %w", err)
	}
	if _, err := DB.Exec(createLoadRunsTable); err != nil {
		return fmt.Errorf("failed to create etl_load_runs: %w", err)
	}

	log.Println("Database schema is in place.")
	return nil
}
