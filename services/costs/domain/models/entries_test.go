package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestTimeLogEntry_Cost(t *testing.T) {
	e := TimeLogEntry{Hours: decimal.RequireFromString("1.5"), Rate: MustParseMoney("80")}
	if got := e.Cost(); got.String() != "120.00" {
		t.Fatalf("expected 120.00, got %s", got)
	}
}

func TestCostType_SpentUnits(t *testing.T) {
	trip := CostType{Name: "Travel", UnitName: "trip", UnitPluralName: "trips"}
	box := CostType{Name: "Hardware", UnitName: "box"}

	tests := []struct {
		ct    CostType
		units string
		want  string
	}{
		{trip, "1", "1 trip"},
		{trip, "1.0", "1 trip"},
		{trip, "2", "2 trips"},
		{trip, "0", "0 trips"},
		{trip, "0.5", "0.5 trips"},
		{box, "3", "3 box"},
	}
	for _, tt := range tests {
		if got := tt.ct.SpentUnits(decimal.RequireFromString(tt.units)); got != tt.want {
			t.Errorf("SpentUnits(%s) = %q, want %q", tt.units, got, tt.want)
		}
	}
}

func TestSortTypeCosts(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	c := uuid.MustParse("10000000-0000-0000-0000-000000000000")

	types := []TypeCost{{CostType: CostType{ID: c}}, {CostType: CostType{ID: a}}, {CostType: CostType{ID: b}}}
	SortTypeCosts(types)

	for i, want := range []uuid.UUID{a, b, c} {
		if types[i].CostType.ID != want {
			t.Fatalf("position %d: got %s, want %s", i, types[i].CostType.ID, want)
		}
	}
}
