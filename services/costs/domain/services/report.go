package services

import (
	"github.com/google/uuid"

	"github.com/ghuser/workcosts/services/costs/domain/models"
)

// ReportLine holds the totals of one work item in a project cost report.
type ReportLine struct {
	WorkItemID uuid.UUID
	Subject    string
	Labor      models.Money
	Material   models.Money
	Overall    models.Money
}

// ProjectReport is the per-work-item cost summary of a project.
type ProjectReport struct {
	ProjectID uuid.UUID
	Own       bool
	Currency  models.CurrencyConfig
	Lines     []ReportLine
	Labor     models.Money
	Material  models.Money
	Overall   models.Money
}

// BuildProjectReport aggregates every item of project within scope, in the
// order given. ok is false when the project does not track costs.
func BuildProjectReport(project *models.Project, items []*models.WorkItem, entries map[uuid.UUID]models.EntrySet, scope EntryScope) (report *ProjectReport, ok bool, err error) {
	if project == nil || !project.CostsEnabled {
		return nil, false, nil
	}
	report = &ProjectReport{
		ProjectID: project.ID,
		Own:       scope.IsOwn(),
		Currency:  project.Currency.Or(models.DefaultCurrency()),
		Labor:     models.ZeroMoney(),
		Material:  models.ZeroMoney(),
		Overall:   models.ZeroMoney(),
	}
	for _, item := range items {
		agg := NewAggregator(item, entries[item.ID])
		labor, err := agg.LaborCost(scope)
		if err != nil {
			return nil, false, err
		}
		material, err := agg.MaterialCost(scope)
		if err != nil {
			return nil, false, err
		}
		if !labor.Valid || !material.Valid {
			continue
		}
		line := ReportLine{
			WorkItemID: item.ID,
			Subject:    item.Subject,
			Labor:      labor.Money,
			Material:   material.Money,
			Overall:    labor.Money.Add(material.Money),
		}
		report.Lines = append(report.Lines, line)
		report.Labor = report.Labor.Add(line.Labor)
		report.Material = report.Material.Add(line.Material)
		report.Overall = report.Overall.Add(line.Overall)
	}
	return report, true, nil
}
