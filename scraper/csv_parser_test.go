// scraper/csv_parser_test.go
package scraper

import (
	"strings"
	"testing"

	"github.com/mwenda/sf311-elt/models"
)

const exportSample = `service_request_id,requested_datetime,updated_datetime,status_description,service_name,lat,long,media_url
17500001,2025-09-30T23:59:59,2025-10-01T08:00:00,Closed,Street Cleaning,37.7749,-122.4194,
17500002,2025-10-01T00:00:00,2025-10-01T09:00:00,Open,Graffiti,,,
,2025-10-02T12:00:00,2025-10-02T12:00:00,Open,Graffiti,,,
17500003,2025-10-03T15:30:00,2025-10-03T16:00:00,Open,Encampment,37.76,-122.41,http://example.com/p.jpg
`

func TestParseExportCsvFiltersOnLowerBound(t *testing.T) {
	records, err := ParseExportCsv(strings.NewReader(exportSample), "2025-10-01T00:00:00.000")
	if err != nil {
		t.Fatalf("ParseExportCsv failed: %v", err)
	}

	// Row one is a second before midnight and drops; the empty-ID row is
	// skipped; the boundary row and the later row survive.
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ServiceRequestID.Scalar != "17500002" {
		t.Errorf("first surviving record = %q, want boundary row 17500002", records[0].ServiceRequestID.Scalar)
	}
	if records[1].ServiceRequestID.Scalar != "17500003" {
		t.Errorf("second surviving record = %q, want 17500003", records[1].ServiceRequestID.Scalar)
	}
}

func TestParseExportCsvKeepsAllWithoutBound(t *testing.T) {
	records, err := ParseExportCsv(strings.NewReader(exportSample), "")
	if err != nil {
		t.Fatalf("ParseExportCsv failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("got %d records, want 3 (only the empty-ID row skipped)", len(records))
	}
}

func TestParseExportCsvNormalizesEmptyToNull(t *testing.T) {
	records, err := ParseExportCsv(strings.NewReader(exportSample), "")
	if err != nil {
		t.Fatalf("ParseExportCsv failed: %v", err)
	}

	graffiti := records[1]
	if graffiti.Lat.Kind != models.FieldNull || graffiti.Long.Kind != models.FieldNull {
		t.Errorf("empty lat/long should be null, got %+v / %+v", graffiti.Lat, graffiti.Long)
	}
	if graffiti.StatusNotes.Kind != models.FieldNull {
		t.Errorf("column absent from the export should be null, got %+v", graffiti.StatusNotes)
	}

	encampment := records[2]
	if encampment.MediaURL.Kind != models.FieldScalar || encampment.MediaURL.Scalar != "http://example.com/p.jpg" {
		t.Errorf("media_url = %+v, want scalar URL", encampment.MediaURL)
	}
}

func TestBeforeLowerBound(t *testing.T) {
	tests := []struct {
		ts, bound string
		want      bool
	}{
		{"2025-09-30T23:59:59", "2025-10-01T00:00:00.000", true},
		{"2025-10-01T00:00:00", "2025-10-01T00:00:00.000", false},
		{"2025-10-01T00:00:00.123", "2025-10-01T00:00:00.000", false},
		{"2025-10-02T08:00:00", "2025-10-01T00:00:00.000", false},
	}
	for _, tt := range tests {
		if got := beforeLowerBound(tt.ts, tt.bound); got != tt.want {
			t.Errorf("beforeLowerBound(%q, %q) = %v, want %v", tt.ts, tt.bound, got, tt.want)
		}
	}
}
