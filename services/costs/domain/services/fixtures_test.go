package services

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/workcosts/services/costs/domain/models"
)

var (
	userA = models.User{ID: uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001"), Login: "alice"}
	userB = models.User{ID: uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000002"), Login: "bob"}

	// typeX sorts before typeY by ID while their names sort the other way.
	typeX = models.CostType{ID: uuid.MustParse("00000000-0000-0000-0000-00000000000a"), Name: "travel", UnitName: "trip", UnitPluralName: "trips"}
	typeY = models.CostType{ID: uuid.MustParse("00000000-0000-0000-0000-00000000000b"), Name: "equipment", UnitName: "piece", UnitPluralName: "pieces"}
)

func newProject(costsEnabled bool) *models.Project {
	return &models.Project{
		ID:           uuid.New(),
		Identifier:   "demo",
		Name:         "Demo",
		CostsEnabled: costsEnabled,
		Currency:     models.DefaultCurrency(),
	}
}

func newWorkItem(p *models.Project) *models.WorkItem {
	return &models.WorkItem{ID: uuid.New(), ProjectID: p.ID, Subject: "Build bridge", Project: p}
}

func timeEntry(item *models.WorkItem, user models.User, hours, rate string) models.TimeLogEntry {
	return models.TimeLogEntry{
		ID:         uuid.New(),
		WorkItemID: item.ID,
		UserID:     user.ID,
		Hours:      decimal.RequireFromString(hours),
		Rate:       models.MustParseMoney(rate),
		Activity:   "development",
	}
}

func costEntry(item *models.WorkItem, user models.User, ct models.CostType, units, amount string) models.CostLogEntry {
	return models.CostLogEntry{
		ID:         uuid.New(),
		WorkItemID: item.ID,
		UserID:     user.ID,
		CostTypeID: ct.ID,
		Units:      decimal.RequireFromString(units),
		Amount:     models.MustParseMoney(amount),
	}
}

func costTypes(types ...models.CostType) map[uuid.UUID]models.CostType {
	out := make(map[uuid.UUID]models.CostType, len(types))
	for _, ct := range types {
		out[ct.ID] = ct
	}
	return out
}
