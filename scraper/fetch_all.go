// scraper/fetch_all.go
package scraper

import (
	"fmt"
	"log"
	"time"

	"github.com/mwenda/sf311-elt/models"
)

// PageFetcher is the capability the pagination loop needs from a remote
// client. Keeping it an interface lets the retry/backoff strategy live in
// the client and lets tests drive the loop with a fake.
type PageFetcher interface {
	FetchPage(where string, offset, limit int) ([]models.ServiceRequestRecord, error)
}

// BuildWhereClause renders a fetch plan as a SoQL predicate. Both bounds are
// UTC timestamp text; historical plans carry no update-time filter.
func BuildWhereClause(plan models.FetchPlan) string {
	where := fmt.Sprintf("requested_datetime >= '%s'", plan.LowerBound)
	if plan.UpdatedSince != "" {
		where += fmt.Sprintf(" AND updated_datetime > '%s'", plan.UpdatedSince)
	}
	return where
}

// FetchAll drains every page matching the plan, sequentially. A page shorter
// than pageSize is the final page (the API exposes no has-more flag) and
// no request is issued beyond it. The delay between pages is a deliberate
// blocking wait so the run never trips the API's rate limit. Any page error
// fails the whole fetch: no partial set is handed to the writer.
func FetchAll(f PageFetcher, plan models.FetchPlan, pageSize int, delay time.Duration) ([]models.ServiceRequestRecord, error) {
	if pageSize <= 0 {
		pageSize = 1000
	}

	where := BuildWhereClause(plan)
	log.Printf("Scraper: fetching with predicate: %s\n", where)

	var all []models.ServiceRequestRecord
	offset := 0
	for {
		page, err := f.FetchPage(where, offset, pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page at offset %d: %w", offset, err)
		}

		kept := 0
		for _, rec := range page {
			if _, ok := rec.ExternalID(); !ok {
				log.Printf("WARN Scraper: skipping record without service_request_id at offset %d\n", offset)
				continue
			}
			all = append(all, rec)
			kept++
		}
		log.Printf("Scraper: page at offset %d returned %d records (%d kept).\n", offset, len(page), kept)

		if len(page) < pageSize {
			break
		}
		offset += pageSize
		if delay > 0 {
			time.Sleep(delay)
		}
	}

	log.Printf("Scraper: fetched %d records in total.\n", len(all))
	return all, nil
}
