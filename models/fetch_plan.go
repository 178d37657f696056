// models/fetch_plan.go
package models

// FetchMode selects how a run covers the requested date range.
type FetchMode string

const (
	// FetchHistorical backfills a period earlier than anything stored:
	// the full range from the lower bound is fetched with no update-time
	// filter, so never-before-seen older records are not skipped.
	FetchHistorical FetchMode = "historical"

	// FetchIncremental fetches only records touched since the stored
	// high-water mark of updated_datetime.
	FetchIncremental FetchMode = "incremental"
)

// FetchPlan is the Fetch Planner's output: the remote query bounds for one
// run. Both bounds are SoQL timestamp text in UTC (the same textual layout
// the store holds verbatim), so plan comparisons and the server-side
// predicate agree byte for byte.
type FetchPlan struct {
	Mode       FetchMode
	LowerBound string // requested_datetime >= LowerBound, always set

	// UpdatedSince is the updated_datetime > filter; empty means absent.
	// Historical plans never carry it.
	UpdatedSince string
}
