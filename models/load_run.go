// models/load_run.go
package models

import "time"

// LoadRun records the operational outcome of one ELT invocation in the
// etl_load_runs table. It is run-history metadata only: the Fetch Planner
// always recomputes its boundaries from the bronze table itself and never
// trusts a previously logged run.
type LoadRun struct {
	ID           int64         `db:"id"`
	RunAt        time.Time     `db:"run_at"`
	Source       string        `db:"source"` // "api" or "csv"
	Mode         FetchMode     `db:"fetch_mode"`
	LowerBound   string        `db:"lower_bound"`
	UpdatedSince string        `db:"updated_since"` // empty when no filter applied
	RecordCount  int           `db:"record_count"`
	Duration     time.Duration `db:"duration_ms"`
}
