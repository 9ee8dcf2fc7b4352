package services

import (
	"github.com/google/uuid"

	"github.com/ghuser/workcosts/services/costs/domain/models"
)

// Summable column names as stored in the work_package_list_summable_columns setting.
const (
	ColumnLaborCosts    = "labor_costs"
	ColumnMaterialCosts = "material_costs"
	ColumnOverallCosts  = "overall_costs"
)

var summableFields = []struct {
	column  string
	field   Field
	compute func(*Aggregator, EntryScope) (models.NullMoney, error)
}{
	{ColumnLaborCosts, FieldLaborCosts, (*Aggregator).LaborCost},
	{ColumnMaterialCosts, FieldMaterialCosts, (*Aggregator).MaterialCost},
	{ColumnOverallCosts, FieldOverallCosts, (*Aggregator).OverallCost},
}

// SumWorkItems totals the money fields over items for the columns enabled in
// the summable-columns setting. Work items of projects without costs do not
// contribute; a column with no contributing item sums to a valid zero.
func SumWorkItems(items []*models.WorkItem, entries map[uuid.UUID]models.EntrySet, columns []string, scope EntryScope, currency models.CurrencyConfig) ([]FieldValue, error) {
	enabled := make(map[string]bool, len(columns))
	for _, c := range columns {
		enabled[c] = true
	}

	var out []FieldValue
	for _, sf := range summableFields {
		if !enabled[sf.column] {
			continue
		}
		total := models.ZeroMoney()
		for _, item := range items {
			amount, err := sf.compute(NewAggregator(item, entries[item.ID]), scope)
			if err != nil {
				return nil, err
			}
			if amount.Valid {
				total = total.Add(amount.Money)
			}
		}
		out = append(out, FieldValue{
			Field:     sf.field,
			Own:       scope.IsOwn(),
			Amount:    models.SomeMoney(total),
			Formatted: models.FormatCurrency(total, currency),
		})
	}
	return out, nil
}
