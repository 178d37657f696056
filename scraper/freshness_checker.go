// scraper/freshness_checker.go
package scraper

import (
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	isoDateRegex   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	longDateRegex  = regexp.MustCompile(`[A-Z][a-z]+ \d{1,2}, \d{4}`)
	longDateLayout = "January 2, 2006"
)

// CheckPortalUpdatedDate scrapes the dataset landing page for its "data last
// updated" date. The result is advisory: an incremental run uses it to skip
// fetching when the portal has published nothing since the stored watermark,
// and callers downgrade any error here to a warning.
func CheckPortalUpdatedDate(pageURL, selector string) (time.Time, error) {
	if selector == "" {
		log.Println("WARN Scraper: no CSS selector configured for the portal updated date, using 'time'.")
		selector = "time"
	}

	client := http.Client{Timeout: 20 * time.Second}
	res, err := client.Get(pageURL)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get URL %s: %w", pageURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return time.Time{}, fmt.Errorf("failed to get URL %s: status code %d", pageURL, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse HTML from %s: %w", pageURL, err)
	}

	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return time.Time{}, fmt.Errorf("selector %q matched nothing on %s", selector, pageURL)
	}

	// Prefer a machine-readable datetime attribute, fall back to the text.
	if dt, ok := sel.Attr("datetime"); ok {
		if t, err := time.Parse(time.RFC3339, dt); err == nil {
			return t.UTC().Truncate(24 * time.Hour), nil
		}
		if m := isoDateRegex.FindString(dt); m != "" {
			return time.Parse("2006-01-02", m)
		}
	}

	text := strings.TrimSpace(sel.Text())
	if m := isoDateRegex.FindString(text); m != "" {
		return time.Parse("2006-01-02", m)
	}
	if m := longDateRegex.FindString(text); m != "" {
		return time.Parse(longDateLayout, m)
	}

	return time.Time{}, fmt.Errorf("no recognizable date in %q (selector %q on %s)", text, selector, pageURL)
}
