package checks

import (
	"fmt"
	"reflect"
	"strings"

	"inventory-tracker/core/database"
	"inventory-tracker/core/docstore"

	"gorm.io/gorm"
)

// SchemaReport is the result of comparing the products table with the document model.
type SchemaReport struct {
	Table          string   `json:"table"`
	Matched        bool     `json:"matched"`
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	MissingIndexes []string `json:"missing_indexes"`
	Errors         []string `json:"errors"`
}

// CheckSchema verifies the products table against docstore.Document.
// Columns and declared types come from the model's gorm tags.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	model := docstore.Document{}
	report := &SchemaReport{
		Table:          model.TableName(),
		Matched:        true,
		MissingColumns: []string{},
		TypeMismatches: []string{},
		MissingIndexes: []string{},
		Errors:         []string{},
	}

	actualCols, err := database.GetTableColumns(db, report.Table)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", report.Table, err))
		report.Matched = false
		return report, nil
	}
	if len(actualCols) == 0 {
		report.Errors = append(report.Errors, fmt.Sprintf("Table %s does not exist", report.Table))
		report.Matched = false
		return report, nil
	}

	actual := make(map[string]database.ColumnInfo, len(actualCols))
	for _, col := range actualCols {
		actual[col.Field] = col
	}

	typ := reflect.TypeOf(model)
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("gorm")
		col := tagValue(tag, "column")
		if col == "" {
			continue
		}

		got, ok := actual[col]
		if !ok {
			report.MissingColumns = append(report.MissingColumns, col)
			report.Matched = false
			continue
		}

		want := strings.ToLower(tagValue(tag, "type"))
		if want != "" && !strings.Contains(got.Type, want) {
			report.TypeMismatches = append(report.TypeMismatches, fmt.Sprintf("%s: expected %s, got %s", col, want, got.Type))
			report.Matched = false
		}
	}

	if !database.HasIndex(db, report.Table, docstore.IndexOwnerQR) {
		report.MissingIndexes = append(report.MissingIndexes, docstore.IndexOwnerQR)
		report.Matched = false
	}

	return report, nil
}

// tagValue returns the value of key in a gorm struct tag.
func tagValue(tag, key string) string {
	for _, part := range strings.Split(tag, ";") {
		if strings.HasPrefix(part, key+":") {
			return strings.TrimPrefix(part, key+":")
		}
	}
	return ""
}
