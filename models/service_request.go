// models/service_request.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldKind tags the normalized representation of a raw API field.
type FieldKind int

const (
	FieldNull FieldKind = iota
	FieldScalar
	FieldStructured
)

// FieldValue is the normalized form of a single raw field. The Socrata API
// returns the same logical field as a string in one page and a nested object
// in another (the geographic point fields do this), so every field is held as
// Null, Scalar text, or Structured raw JSON instead of a dynamically typed
// value.
type FieldValue struct {
	Kind   FieldKind
	Scalar string
	JSON   json.RawMessage
}

// NullField returns the null field value.
func NullField() FieldValue {
	return FieldValue{Kind: FieldNull}
}

// ScalarField wraps plain text as a scalar field value.
func ScalarField(s string) FieldValue {
	return FieldValue{Kind: FieldScalar, Scalar: s}
}

// StructuredField wraps raw JSON as a structured field value.
func StructuredField(raw json.RawMessage) FieldValue {
	return FieldValue{Kind: FieldStructured, JSON: raw}
}

// UnmarshalJSON normalizes whatever the API sent: objects and arrays stay
// structured JSON, strings become scalar text, numbers and booleans keep
// their raw token text, null stays null.
func (f *FieldValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*f = FieldValue{Kind: FieldNull}
		return nil
	}
	switch trimmed[0] {
	case '{', '[':
		raw := make(json.RawMessage, len(trimmed))
		copy(raw, trimmed)
		*f = FieldValue{Kind: FieldStructured, JSON: raw}
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("failed to decode scalar field: %w", err)
		}
		*f = FieldValue{Kind: FieldScalar, Scalar: s}
	default:
		*f = FieldValue{Kind: FieldScalar, Scalar: string(trimmed)}
	}
	return nil
}

// MarshalJSON round-trips the normalized value.
func (f FieldValue) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case FieldStructured:
		return f.JSON, nil
	case FieldScalar:
		return json.Marshal(f.Scalar)
	default:
		return []byte("null"), nil
	}
}

// IsNull reports whether the field carries no value.
func (f FieldValue) IsNull() bool {
	return f.Kind == FieldNull
}

// Arg returns the database driver argument for this field: nil for null,
// the text for scalars, and the JSON document text for structured values.
func (f FieldValue) Arg() interface{} {
	switch f.Kind {
	case FieldScalar:
		return f.Scalar
	case FieldStructured:
		return string(f.JSON)
	default:
		return nil
	}
}

// ServiceRequestRecord is one raw 311 service request as returned by the
// Socrata resource endpoint for dataset vw6y-z8j6. Field names mirror the
// API's column names; every value is kept in its normalized form and stored
// verbatim in the bronze table.
type ServiceRequestRecord struct {
	ServiceRequestID              FieldValue `json:"service_request_id"`
	RequestedDatetime             FieldValue `json:"requested_datetime"`
	ClosedDate                    FieldValue `json:"closed_date"`
	UpdatedDatetime               FieldValue `json:"updated_datetime"`
	StatusDescription             FieldValue `json:"status_description"`
	StatusNotes                   FieldValue `json:"status_notes"`
	AgencyResponsible             FieldValue `json:"agency_responsible"`
	ServiceName                   FieldValue `json:"service_name"`
	ServiceSubtype                FieldValue `json:"service_subtype"`
	ServiceDetails                FieldValue `json:"service_details"`
	Address                       FieldValue `json:"address"`
	Street                        FieldValue `json:"street"`
	SupervisorDistrict            FieldValue `json:"supervisor_district"`
	NeighborhoodsSffindBoundaries FieldValue `json:"neighborhoods_sffind_boundaries"`
	AnalysisNeighborhood          FieldValue `json:"analysis_neighborhood"`
	PoliceDistrict                FieldValue `json:"police_district"`
	Lat                           FieldValue `json:"lat"`
	Long                          FieldValue `json:"long"`
	Point                         FieldValue `json:"point"`
	PointGeom                     FieldValue `json:"point_geom"`
	Source                        FieldValue `json:"source"`
	MediaURL                      FieldValue `json:"media_url"`
	Bos2012                       FieldValue `json:"bos_2012"`
	DataAsOf                      FieldValue `json:"data_as_of"`
}

// ExternalID returns the stable remote identifier, and whether the record
// carries a usable one. Records without it cannot satisfy the one-row-per-id
// upsert key and are skipped by the fetchers.
func (r ServiceRequestRecord) ExternalID() (string, bool) {
	if r.ServiceRequestID.Kind != FieldScalar {
		return "", false
	}
	id := strings.TrimSpace(r.ServiceRequestID.Scalar)
	return id, id != ""
}
