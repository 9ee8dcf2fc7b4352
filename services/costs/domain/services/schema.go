package services

import "github.com/ghuser/workcosts/services/costs/domain/models"

// SchemaField describes a cost field in a work item schema. Cost fields are
// computed, so they are never required and never writable.
type SchemaField struct {
	Field      Field
	Type       string
	Required   bool
	Writable   bool
	NameSource string
}

// CostSchema returns the schema of the cost fields for work items of project.
// Nothing is declared unless the project has costs enabled.
func CostSchema(project *models.Project) []SchemaField {
	if project == nil || !project.CostsEnabled {
		return nil
	}
	return []SchemaField{
		{Field: FieldOverallCosts, Type: "String"},
		{Field: FieldLaborCosts, Type: "String"},
		{Field: FieldMaterialCosts, Type: "String"},
		{Field: FieldCostsByType, Type: "Collection", NameSource: "spent_units"},
	}
}

// SumsSchema returns the schema of the sums representation, limited to the
// columns enabled in the summable-columns setting.
func SumsSchema(columns []string) []SchemaField {
	enabled := make(map[string]bool, len(columns))
	for _, c := range columns {
		enabled[c] = true
	}
	var out []SchemaField
	for _, sf := range []struct {
		column string
		field  Field
	}{
		{ColumnOverallCosts, FieldOverallCosts},
		{ColumnLaborCosts, FieldLaborCosts},
		{ColumnMaterialCosts, FieldMaterialCosts},
	} {
		if enabled[sf.column] {
			out = append(out, SchemaField{Field: sf.field, Type: "String"})
		}
	}
	return out
}
