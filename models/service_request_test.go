// models/service_request_test.go
package models

import (
	"encoding/json"
	"testing"
)

func TestFieldValueUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind FieldKind
		want     string // scalar text or raw JSON, depending on kind
	}{
		{"null", `null`, FieldNull, ""},
		{"string", `"Street Cleaning"`, FieldScalar, "Street Cleaning"},
		{"escaped string", `"Avénue"`, FieldScalar, "Avénue"},
		{"number token", `6`, FieldScalar, "6"},
		{"float token", `37.7749`, FieldScalar, "37.7749"},
		{"bool token", `true`, FieldScalar, "true"},
		{"object", `{"type":"Point","coordinates":[-122.4,37.7]}`, FieldStructured, `{"type":"Point","coordinates":[-122.4,37.7]}`},
		{"array", `[1,2]`, FieldStructured, `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FieldValue
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("unmarshal %q: %v", tt.input, err)
			}
			if f.Kind != tt.wantKind {
				t.Fatalf("kind = %v, want %v", f.Kind, tt.wantKind)
			}
			switch tt.wantKind {
			case FieldScalar:
				if f.Scalar != tt.want {
					t.Errorf("scalar = %q, want %q", f.Scalar, tt.want)
				}
			case FieldStructured:
				if string(f.JSON) != tt.want {
					t.Errorf("json = %s, want %s", f.JSON, tt.want)
				}
			}
		})
	}
}

func TestFieldValueArg(t *testing.T) {
	if got := NullField().Arg(); got != nil {
		t.Errorf("null Arg() = %v, want nil", got)
	}
	if got := ScalarField("Open").Arg(); got != "Open" {
		t.Errorf("scalar Arg() = %v, want Open", got)
	}
	raw := json.RawMessage(`{"type":"Point"}`)
	if got := StructuredField(raw).Arg(); got != `{"type":"Point"}` {
		t.Errorf("structured Arg() = %v, want the JSON text", got)
	}
}

func TestFieldValueMarshalRoundTrip(t *testing.T) {
	inputs := []string{`null`, `"hello"`, `{"a":1}`}
	for _, in := range inputs {
		var f FieldValue
		if err := json.Unmarshal([]byte(in), &f); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		out, err := json.Marshal(f)
		if err != nil {
			t.Fatalf("marshal %s: %v", in, err)
		}
		if string(out) != in {
			t.Errorf("round trip of %s produced %s", in, out)
		}
	}
}

func TestExternalID(t *testing.T) {
	tests := []struct {
		name   string
		field  FieldValue
		wantID string
		wantOK bool
	}{
		{"scalar id", ScalarField("17512345"), "17512345", true},
		{"padded id trims", ScalarField("  17512345 "), "17512345", true},
		{"null id", NullField(), "", false},
		{"blank id", ScalarField("   "), "", false},
		{"structured id", StructuredField(json.RawMessage(`{"id":1}`)), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ServiceRequestRecord{ServiceRequestID: tt.field}
			id, ok := rec.ExternalID()
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("ExternalID() = (%q, %v), want (%q, %v)", id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}
