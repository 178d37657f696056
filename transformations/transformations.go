// transformations/transformations.go
package transformations

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed *.sql
var files embed.FS

// Model is one declarative SQL transformation. Models run in the order
// listed: silver depends on bronze, gold depends on silver.
type Model struct {
	Name string
	File string
}

var Models = []Model{
	{Name: "silver_sf311_calls", File: "silver_sf311_calls.sql"},
	{Name: "gold_daily_service_counts", File: "gold_daily_service_counts.sql"},
	{Name: "gold_agency_response_times", File: "gold_agency_response_times.sql"},
}

// SQL returns the model's full SQL text.
func (m Model) SQL() (string, error) {
	b, err := files.ReadFile(m.File)
	if err != nil {
		return "", fmt.Errorf("failed to read model %s: %w", m.Name, err)
	}
	return string(b), nil
}

// Statements splits model SQL into executable statements. The models use a
// plain statement-per-semicolon style (no procedures or triggers), so a
// simple split is sufficient.
func Statements(sqlText string) []string {
	var stmts []string
	for _, part := range strings.Split(sqlText, ";") {
		stmt := strings.TrimSpace(part)
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
