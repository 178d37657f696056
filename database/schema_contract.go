// database/schema_contract.go
package database

import (
	"fmt"
	"strings"
)

// ContractColumn is one column of the bronze table as the transformation
// models expect it. The silver model renames and retypes some of these
// (service_request_id becomes the numeric case_id), so the coupling between
// the writer's output schema and the models' input schema is pinned down
// here instead of living as an implicit convention in SQL text.
type ContractColumn struct {
	Name string
	Type string // information_schema DATA_TYPE, lower case
}

// TransformContract is the input schema the transformation models are
// written against. Changing a bronze column means updating this table and
// the models together.
var TransformContract = []ContractColumn{
	{"service_request_id", "varchar"},
	{"requested_datetime", "text"},
	{"closed_date", "text"},
	{"updated_datetime", "text"},
	{"status_description", "text"},
	{"status_notes", "text"},
	{"agency_responsible", "text"},
	{"service_name", "text"},
	{"service_subtype", "text"},
	{"service_details", "text"},
	{"address", "text"},
	{"street", "text"},
	{"supervisor_district", "text"},
	{"neighborhoods_sffind_boundaries", "text"},
	{"analysis_neighborhood", "text"},
	{"police_district", "text"},
	{"lat", "text"},
	{"long", "text"},
	{"point", "text"},
	{"point_geom", "text"},
	{"source", "text"},
	{"media_url", "text"},
	{"bos_2012", "text"},
	{"data_as_of", "text"},
	{"data_loaded_at", "text"},
	{"inserted_at", "timestamp"},
}

// diffContract compares the live column set (name -> data type) against the
// contract and returns one message per violation.
func diffContract(actual map[string]string) []string {
	var problems []string
	for _, col := range TransformContract {
		gotType, ok := actual[col.Name]
		if !ok {
			problems = append(problems, fmt.Sprintf("missing column %q", col.Name))
			continue
		}
		if !strings.EqualFold(gotType, col.Type) {
			problems = append(problems,
				fmt.Sprintf("column %q has type %q, models expect %q", col.Name, gotType, col.Type))
		}
	}
	return problems
}

// CheckTransformContract verifies the live bronze table against the contract
// before any transformation model runs.
func CheckTransformContract() error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	rows, err := DB.Query(`
		SELECT LOWER(column_name), LOWER(data_type)
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = 'bronze_sf311_calls'
	`)
	if err != nil {
		return fmt.Errorf("failed to query bronze table columns: %w", err)
	}
	defer rows.Close()

	actual := make(map[string]string)
	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return fmt.Errorf("failed to scan column row: %w", err)
		}
		actual[name] = dataType
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating column rows: %w", err)
	}
	if len(actual) == 0 {
		return fmt.Errorf("bronze_sf311_calls does not exist; run the loader before transforming")
	}

	if problems := diffContract(actual); len(problems) > 0 {
		return fmt.Errorf("bronze schema violates the transformation contract: %s",
			strings.Join(problems, "; "))
	}
	return nil
}
