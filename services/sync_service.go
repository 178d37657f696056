// services/sync_service.go
package services

import (
	"fmt"
	"log"
	"time"

	"github.com/mwenda/sf311-elt/config"
	"github.com/mwenda/sf311-elt/models"
	"github.com/mwenda/sf311-elt/scraper"
	"github.com/mwenda/sf311-elt/utils"
)

// Store is what the sync run needs from the durable bronze table.
type Store interface {
	Watermarks() (existingMin, maxUpdated *string, err error)
	SaveServiceRequests(records []models.ServiceRequestRecord, loadedAt time.Time) (int, error)
	LogLoadRun(run models.LoadRun) error
}

// FreshnessFunc reports the portal's "data last updated" date.
type FreshnessFunc func() (time.Time, error)

// SyncService runs one Plan -> Fetch -> Upsert invocation against the API.
type SyncService struct {
	Store     Store
	Pages     scraper.PageFetcher
	PageSize  int
	PageDelay time.Duration

	// Freshness, when set, lets an incremental run exit early with zero
	// writes if the portal has published nothing since the watermark.
	Freshness FreshnessFunc

	// Now supplies the current UTC instant. It exists so nothing in the
	// run reads a host-timezone wall clock: the single injected value is
	// already UTC when it is stamped into data_loaded_at.
	Now func() time.Time
}

// NewSyncService wires a sync run from configuration.
func NewSyncService(store Store, pages scraper.PageFetcher, cfg config.SocrataConfig) *SyncService {
	return &SyncService{
		Store:     store,
		Pages:     pages,
		PageSize:  cfg.PageSize,
		PageDelay: cfg.PageDelay,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *SyncService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Run performs one synchronization pass for the range starting at
// requestedStart (a UTC-midnight instant). Any error leaves the store
// exactly as it was.
func (s *SyncService) Run(requestedStart time.Time) error {
	started := s.now()

	existingMin, maxUpdated, err := s.Store.Watermarks()
	if err != nil {
		return fmt.Errorf("%w: reading watermarks: %v", ErrWrite, err)
	}
	log.Printf("Service: existing min requested_datetime: %s\n", orNone(existingMin))
	log.Printf("Service: max updated_datetime from DB: %s\n", orNone(maxUpdated))

	plan := BuildFetchPlan(requestedStart, existingMin, maxUpdated)
	if plan.UpdatedSince != "" {
		log.Printf("Service: fetch mode %s (requested_datetime >= %s AND updated_datetime > %s)\n",
			plan.Mode, plan.LowerBound, plan.UpdatedSince)
	} else {
		log.Printf("Service: fetch mode %s (requested_datetime >= %s)\n", plan.Mode, plan.LowerBound)
	}

	if plan.Mode == models.FetchIncremental && plan.UpdatedSince != "" && s.Freshness != nil {
		if skip := s.portalIsStale(plan.UpdatedSince); skip {
			log.Println("Service: portal has published nothing since the watermark; skipping fetch.")
			s.logRun(plan, "api", started, 0)
			return nil
		}
	}

	records, err := scraper.FetchAll(s.Pages, plan, s.PageSize, s.PageDelay)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}

	count, err := s.Store.SaveServiceRequests(records, s.now())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	log.Printf("Service: run complete, %d records upserted.\n", count)

	s.logRun(plan, "api", started, count)
	return nil
}

// portalIsStale returns true only when the freshness check succeeds AND the
// portal's updated date is strictly older than the watermark's date. The
// comparison is day-granular while the watermark is not, so an equal date
// can still hide same-day updates and must fetch. Errors are advisory: the
// fetch proceeds.
func (s *SyncService) portalIsStale(watermark string) bool {
	portalDate, err := s.Freshness()
	if err != nil {
		log.Printf("WARN Service: portal freshness check failed, fetching anyway: %v\n", err)
		return false
	}
	wmDate, err := utils.DatePart(watermark)
	if err != nil {
		log.Printf("WARN Service: could not read a date from watermark %q, fetching anyway: %v\n", watermark, err)
		return false
	}
	log.Printf("Service: portal last updated %s, watermark date %s.\n",
		portalDate.Format("2006-01-02"), wmDate.Format("2006-01-02"))
	return portalDate.Before(wmDate)
}

// logRun appends run-history metadata. The batch is already committed, so a
// failure here is a warning, not a failed run.
func (s *SyncService) logRun(plan models.FetchPlan, source string, started time.Time, count int) {
	run := models.LoadRun{
		RunAt:        started,
		Source:       source,
		Mode:         plan.Mode,
		LowerBound:   plan.LowerBound,
		UpdatedSince: plan.UpdatedSince,
		RecordCount:  count,
		Duration:     s.now().Sub(started),
	}
	if err := s.Store.LogLoadRun(run); err != nil {
		log.Printf("WARN Service: failed to log load run: %v\n", err)
	}
}

func orNone(s *string) string {
	if s == nil {
		return "None (empty table)"
	}
	return *s
}
