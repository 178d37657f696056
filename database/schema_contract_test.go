// database/schema_contract_test.go
package database

import (
	"strings"
	"testing"
)

func contractAsMap() map[string]string {
	actual := make(map[string]string, len(TransformContract))
	for _, col := range TransformContract {
		actual[col.Name] = col.Type
	}
	return actual
}

func TestDiffContractAcceptsMatchingSchema(t *testing.T) {
	if problems := diffContract(contractAsMap()); len(problems) != 0 {
		t.Errorf("matching schema reported problems: %v", problems)
	}
}

func TestDiffContractIgnoresExtraColumns(t *testing.T) {
	actual := contractAsMap()
	actual["operator_notes"] = "text"
	if problems := diffContract(actual); len(problems) != 0 {
		t.Errorf("extra live column should not violate the contract: %v", problems)
	}
}

func TestDiffContractReportsMissingColumn(t *testing.T) {
	actual := contractAsMap()
	delete(actual, "updated_datetime")

	problems := diffContract(actual)
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1: %v", len(problems), problems)
	}
	if !strings.Contains(problems[0], "updated_datetime") || !strings.Contains(problems[0], "missing") {
		t.Errorf("problem does not name the missing column: %q", problems[0])
	}
}

func TestDiffContractReportsTypeMismatch(t *testing.T) {
	actual := contractAsMap()
	actual["service_request_id"] = "int"

	problems := diffContract(actual)
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1: %v", len(problems), problems)
	}
	if !strings.Contains(problems[0], "service_request_id") || !strings.Contains(problems[0], `"int"`) {
		t.Errorf("problem does not describe the mismatch: %q", problems[0])
	}
}

func TestDiffContractTypeComparisonIsCaseInsensitive(t *testing.T) {
	actual := contractAsMap()
	actual["lat"] = "TEXT"
	if problems := diffContract(actual); len(problems) != 0 {
		t.Errorf("case difference should not violate the contract: %v", problems)
	}
}
