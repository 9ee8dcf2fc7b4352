package models

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeLogEntry is logged time on a work item. Entries are append-only.
type TimeLogEntry struct {
	ID         uuid.UUID
	WorkItemID uuid.UUID
	UserID     uuid.UUID
	Hours      decimal.Decimal
	Rate       Money // hourly rate in effect when the time was logged
	Activity   string
	SpentOn    time.Time
}

// Cost returns hours × rate.
func (e TimeLogEntry) Cost() Money {
	return e.Rate.Mul(e.Hours)
}

// CostLogEntry is a directly logged (material) cost on a work item.
type CostLogEntry struct {
	ID         uuid.UUID
	WorkItemID uuid.UUID
	UserID     uuid.UUID
	CostTypeID uuid.UUID
	Units      decimal.Decimal
	Amount     Money
	Comments   string
	SpentOn    time.Time
}

// CostType categorizes material cost entries, e.g. "travel" or "equipment".
type CostType struct {
	ID             uuid.UUID
	Name           string
	UnitName       string
	UnitPluralName string
}

// UnitLabel picks the singular or plural unit name for the given quantity.
func (c CostType) UnitLabel(units decimal.Decimal) string {
	if units.Equal(decimal.NewFromInt(1)) || c.UnitPluralName == "" {
		return c.UnitName
	}
	return c.UnitPluralName
}

// SpentUnits renders a quantity with its unit label, e.g. "2 trips".
func (c CostType) SpentUnits(units decimal.Decimal) string {
	return units.String() + " " + c.UnitLabel(units)
}

// EntrySet is the snapshot of log entries an aggregation reads. The store is
// responsible for returning a consistent set.
type EntrySet struct {
	TimeEntries []TimeLogEntry
	CostEntries []CostLogEntry
	CostTypes   map[uuid.UUID]CostType
}

// TypeCost is the material cost logged against a single cost type.
type TypeCost struct {
	CostType CostType
	Units    decimal.Decimal
	Amount   Money
}

// CostBreakdown groups material costs by cost type, ordered by cost type ID.
// Valid is false when costs do not apply to the work item.
type CostBreakdown struct {
	Types []TypeCost
	Valid bool
}

// SortTypeCosts orders types by cost type identifier.
func SortTypeCosts(types []TypeCost) {
	sort.Slice(types, func(i, j int) bool {
		return bytes.Compare(types[i].CostType.ID[:], types[j].CostType.ID[:]) < 0
	})
}
