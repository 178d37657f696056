// database/call_store.go
package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mwenda/sf311-elt/models"
	"github.com/mwenda/sf311-elt/utils"
)

// bronzeInsertColumns is the column order of the upsert statement; it must
// stay aligned with recordArgs below. inserted_at is deliberately absent:
// the table default stamps it on first insert and the upsert never touches
// it again.
var bronzeInsertColumns = []string{
	"service_request_id",
	"requested_datetime",
	"closed_date",
	"updated_datetime",
	"status_description",
	"status_notes",
	"agency_responsible",
	"service_name",
	"service_subtype",
	"service_details",
	"address",
	"street",
	"supervisor_district",
	"neighborhoods_sffind_boundaries",
	"analysis_neighborhood",
	"police_district",
	"lat",
	"`long`",
	"point",
	"point_geom",
	"source",
	"media_url",
	"bos_2012",
	"data_as_of",
	"data_loaded_at",
}

// upsertServiceRequestQuery builds the INSERT ... ON DUPLICATE KEY UPDATE
// statement. Every column except the key is overwritten with the incoming
// value on conflict, so replaying an identical batch is a no-op for business
// data while data_loaded_at still moves to the latest fetch time.
func upsertServiceRequestQuery() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(bronzeInsertColumns)), ", ")

	var updates []string
	for _, col := range bronzeInsertColumns[1:] {
		updates = append(updates, fmt.Sprintf("%s = VALUES(%s)", col, col))
	}

	return fmt.Sprintf(
		"INSERT INTO bronze_sf311_calls (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
		strings.Join(bronzeInsertColumns, ", "),
		placeholders,
		strings.Join(updates, ", "),
	)
}

// recordArgs serializes one normalized record into driver arguments in
// bronzeInsertColumns order. Listing every field keeps the serialization
// exhaustive: adding a column to the record without extending this function
// shows up as a length mismatch in tests.
func recordArgs(rec models.ServiceRequestRecord, loadedAt string) []interface{} {
	return []interface{}{
		rec.ServiceRequestID.Arg(),
		rec.RequestedDatetime.Arg(),
		rec.ClosedDate.Arg(),
		rec.UpdatedDatetime.Arg(),
		rec.StatusDescription.Arg(),
		rec.StatusNotes.Arg(),
		rec.AgencyResponsible.Arg(),
		rec.ServiceName.Arg(),
		rec.ServiceSubtype.Arg(),
		rec.ServiceDetails.Arg(),
		rec.Address.Arg(),
		rec.Street.Arg(),
		rec.SupervisorDistrict.Arg(),
		rec.NeighborhoodsSffindBoundaries.Arg(),
		rec.AnalysisNeighborhood.Arg(),
		rec.PoliceDistrict.Arg(),
		rec.Lat.Arg(),
		rec.Long.Arg(),
		rec.Point.Arg(),
		rec.PointGeom.Arg(),
		rec.Source.Arg(),
		rec.MediaURL.Arg(),
		rec.Bos2012.Arg(),
		rec.DataAsOf.Arg(),
		loadedAt,
	}
}

// BronzeStore reads and writes the raw 311 table.
type BronzeStore struct {
	db *sql.DB
}

func NewBronzeStore(db *sql.DB) *BronzeStore {
	return &BronzeStore{db: db}
}

// Watermarks returns the store's current boundaries: the minimum
// requested_datetime and the maximum updated_datetime, each nil when the
// table holds no value. They are computed fresh on every call; no cached
// boundary is trusted across runs.
func (s *BronzeStore) Watermarks() (existingMin, maxUpdated *string, err error) {
	if s.db == nil {
		return nil, nil, fmt.Errorf("database connection is not initialized")
	}

	var minRequested sql.NullString
	if err := s.db.QueryRow(
		"SELECT MIN(requested_datetime) FROM bronze_sf311_calls",
	).Scan(&minRequested); err != nil {
		return nil, nil, fmt.Errorf("failed to query min requested_datetime: %w", err)
	}

	var maxUpdatedRow sql.NullString
	if err := s.db.QueryRow(
		"SELECT MAX(updated_datetime) FROM bronze_sf311_calls",
	).Scan(&maxUpdatedRow); err != nil {
		return nil, nil, fmt.Errorf("failed to query max updated_datetime: %w", err)
	}

	if minRequested.Valid {
		existingMin = &minRequested.String
	}
	if maxUpdatedRow.Valid {
		maxUpdated = &maxUpdatedRow.String
	}
	return existingMin, maxUpdated, nil
}

// SaveServiceRequests merges one invocation's batch into the bronze table in
// a single transaction: the whole batch commits or none of it does, so a
// failed run leaves the watermarks exactly where they were and the identical
// invocation is safe to retry.
func (s *BronzeStore) SaveServiceRequests(records []models.ServiceRequestRecord, loadedAt time.Time) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database connection is not initialized")
	}
	if len(records) == 0 {
		log.Println("No service requests provided to save.")
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for service requests: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertServiceRequestQuery())
	if err != nil {
		return 0, fmt.Errorf("failed to prepare service request upsert statement: %w", err)
	}
	defer stmt.Close()

	loadedAtText := utils.SoQLTimestamp(loadedAt)
	savedCount := 0
	for _, rec := range records {
		id, ok := rec.ExternalID()
		if !ok {
			// Fetchers filter these out already; a stray one here must
			// abort the batch rather than write an unkeyed row.
			return 0, fmt.Errorf("record without service_request_id reached the writer")
		}
		if _, err := stmt.Exec(recordArgs(rec, loadedAtText)...); err != nil {
			return 0, fmt.Errorf("failed to upsert service request %s: %w", id, err)
		}
		savedCount++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction for service requests: %w", err)
	}

	log.Printf("Successfully upserted %d service requests.\n", savedCount)
	return savedCount, nil
}

// LogLoadRun appends one row of run-history metadata.
func (s *BronzeStore) LogLoadRun(run models.LoadRun) error {
	if s.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	var updatedSince sql.NullString
	if run.UpdatedSince != "" {
		updatedSince = sql.NullString{String: run.UpdatedSince, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO etl_load_runs (
			run_at, source, fetch_mode, lower_bound,
			updated_since, record_count, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.RunAt, run.Source, string(run.Mode), run.LowerBound,
		updatedSince, run.RecordCount, run.Duration.Milliseconds())

	if err != nil {
		return fmt.Errorf("failed to log load run: %w", err)
	}
	return nil
}
