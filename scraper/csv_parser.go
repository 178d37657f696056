// scraper/csv_parser.go
package scraper

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"

	"github.com/jszwec/csvutil"
	"github.com/mwenda/sf311-elt/models"
)

// exportRow mirrors one line of the resource CSV export. Headers are the
// API field names; every value arrives as text (the export flattens the
// geographic point to WKT), so normalization is scalar-or-null.
type exportRow struct {
	ServiceRequestID              string `csv:"service_request_id"`
	RequestedDatetime             string `csv:"requested_datetime"`
	ClosedDate                    string `csv:"closed_date"`
	UpdatedDatetime               string `csv:"updated_datetime"`
	StatusDescription             string `csv:"status_description"`
	StatusNotes                   string `csv:"status_notes"`
	AgencyResponsible             string `csv:"agency_responsible"`
	ServiceName                   string `csv:"service_name"`
	ServiceSubtype                string `csv:"service_subtype"`
	ServiceDetails                string `csv:"service_details"`
	Address                       string `csv:"address"`
	Street                        string `csv:"street"`
	SupervisorDistrict            string `csv:"supervisor_district"`
	NeighborhoodsSffindBoundaries string `csv:"neighborhoods_sffind_boundaries"`
	AnalysisNeighborhood          string `csv:"analysis_neighborhood"`
	PoliceDistrict                string `csv:"police_district"`
	Lat                           string `csv:"lat"`
	Long                          string `csv:"long"`
	Point                         string `csv:"point"`
	PointGeom                     string `csv:"point_geom"`
	Source                        string `csv:"source"`
	MediaURL                      string `csv:"media_url"`
	Bos2012                       string `csv:"bos_2012"`
	DataAsOf                      string `csv:"data_as_of"`
}

func scalarOrNull(s string) models.FieldValue {
	if s == "" {
		return models.NullField()
	}
	return models.ScalarField(s)
}

func (row exportRow) toRecord() models.ServiceRequestRecord {
	return models.ServiceRequestRecord{
		ServiceRequestID:              scalarOrNull(row.ServiceRequestID),
		RequestedDatetime:             scalarOrNull(row.RequestedDatetime),
		ClosedDate:                    scalarOrNull(row.ClosedDate),
		UpdatedDatetime:               scalarOrNull(row.UpdatedDatetime),
		StatusDescription:             scalarOrNull(row.StatusDescription),
		StatusNotes:                   scalarOrNull(row.StatusNotes),
		AgencyResponsible:             scalarOrNull(row.AgencyResponsible),
		ServiceName:                   scalarOrNull(row.ServiceName),
		ServiceSubtype:                scalarOrNull(row.ServiceSubtype),
		ServiceDetails:                scalarOrNull(row.ServiceDetails),
		Address:                       scalarOrNull(row.Address),
		Street:                        scalarOrNull(row.Street),
		SupervisorDistrict:            scalarOrNull(row.SupervisorDistrict),
		NeighborhoodsSffindBoundaries: scalarOrNull(row.NeighborhoodsSffindBoundaries),
		AnalysisNeighborhood:          scalarOrNull(row.AnalysisNeighborhood),
		PoliceDistrict:                scalarOrNull(row.PoliceDistrict),
		Lat:                           scalarOrNull(row.Lat),
		Long:                          scalarOrNull(row.Long),
		Point:                         scalarOrNull(row.Point),
		PointGeom:                     scalarOrNull(row.PointGeom),
		Source:                        scalarOrNull(row.Source),
		MediaURL:                      scalarOrNull(row.MediaURL),
		Bos2012:                       scalarOrNull(row.Bos2012),
		DataAsOf:                      scalarOrNull(row.DataAsOf),
	}
}

// beforeLowerBound compares timestamp text against the SoQL lower bound on
// their shared second-precision prefix, so export values without a
// milliseconds suffix land on the correct side of a midnight boundary.
func beforeLowerBound(ts, lowerBound string) bool {
	const prefix = len("2006-01-02T15:04:05")
	a, b := ts, lowerBound
	if len(a) > prefix {
		a = a[:prefix]
	}
	if len(b) > prefix {
		b = b[:prefix]
	}
	return a < b
}

// ParseExportCsv decodes the CSV export stream into normalized records,
// keeping only rows at or after the lower bound (empty bound keeps all) and
// skipping rows without a service_request_id.
func ParseExportCsv(reader io.Reader, lowerBound string) ([]models.ServiceRequestRecord, error) {
	decoder, err := csvutil.NewDecoder(csv.NewReader(reader))
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder for the export: %w", err)
	}

	var records []models.ServiceRequestRecord
	skippedNoID := 0
	skippedOutOfRange := 0
	for {
		var row exportRow
		if err := decoder.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to decode export CSV row: %w", err)
		}

		if row.ServiceRequestID == "" {
			skippedNoID++
			continue
		}
		if lowerBound != "" && (row.RequestedDatetime == "" || beforeLowerBound(row.RequestedDatetime, lowerBound)) {
			skippedOutOfRange++
			continue
		}
		records = append(records, row.toRecord())
	}

	if skippedNoID > 0 {
		log.Printf("WARN Scraper: skipped %d export rows without service_request_id.\n", skippedNoID)
	}
	log.Printf("Successfully parsed %d export rows (%d outside the requested range).\n",
		len(records), skippedOutOfRange)
	return records, nil
}
