// services/planner.go
package services

import (
	"time"

	"github.com/mwenda/sf311-elt/models"
	"github.com/mwenda/sf311-elt/utils"
)

// BuildFetchPlan decides what subset of the remote dataset a run covers.
//
// Historical mode applies when the store is empty or requestedStart reaches
// back before anything stored: fetch the full range with no update-time
// filter, because an updated-since filter would silently skip older records
// the store has never seen.
//
// Incremental mode applies when the requested range is already covered at
// its start: fetch only records touched since the stored maximum
// updated_datetime.
//
// The function is pure: it never reads a clock, and requestedStart is
// normalized to UTC before being rendered, so the bounds always compare
// correctly against the UTC watermark text the API emits. Timestamps share
// one textual layout, which makes the lexicographic comparison below a
// chronological one.
func BuildFetchPlan(requestedStart time.Time, existingMin, maxUpdated *string) models.FetchPlan {
	lower := utils.SoQLTimestamp(requestedStart)

	if existingMin == nil || lower < *existingMin {
		return models.FetchPlan{
			Mode:       models.FetchHistorical,
			LowerBound: lower,
		}
	}

	plan := models.FetchPlan{
		Mode:       models.FetchIncremental,
		LowerBound: lower,
	}
	if maxUpdated != nil {
		plan.UpdatedSince = *maxUpdated
	}
	return plan
}
