package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	costsdomain "github.com/ghuser/workcosts/services/costs/domain"
	"github.com/ghuser/workcosts/services/costs/domain/models"
	"github.com/ghuser/workcosts/services/costs/domain/permissions"
)

func sharedItem(t *testing.T, enabled bool) (*models.WorkItem, models.EntrySet) {
	t.Helper()
	item := newWorkItem(newProject(enabled))
	return item, models.EntrySet{
		TimeEntries: []models.TimeLogEntry{
			timeEntry(item, userA, "2", "50"),
			timeEntry(item, userB, "3", "50"),
		},
		CostEntries: []models.CostLogEntry{
			costEntry(item, userA, typeY, "1", "5"),
			costEntry(item, userB, typeX, "2", "13"),
		},
		CostTypes: costTypes(typeX, typeY),
	}
}

func TestPolicy_FullPermission(t *testing.T) {
	item, entries := sharedItem(t, true)
	policy := NewPolicy(permissions.StaticResolver{permissions.ViewCostEntries: true})

	rep, err := policy.Evaluate(context.Background(), userA, item, entries, models.DefaultCurrency())
	require.NoError(t, err)

	require.Len(t, rep.Fields, 4)
	assert.Equal(t, []Field{FieldLaborCosts, FieldMaterialCosts, FieldOverallCosts, FieldCostsByType},
		[]Field{rep.Fields[0].Field, rep.Fields[1].Field, rep.Fields[2].Field, rep.Fields[3].Field})

	labor, ok := rep.Field(FieldLaborCosts)
	require.True(t, ok)
	assert.False(t, labor.Own)
	assert.Equal(t, "250.00 EUR", labor.Formatted)

	overall, _ := rep.Field(FieldOverallCosts)
	assert.Equal(t, "268.00 EUR", overall.Formatted)

	byType, _ := rep.Field(FieldCostsByType)
	require.Len(t, byType.Breakdown, 2)
	assert.Equal(t, typeX.ID, byType.Breakdown[0].CostType.ID)
	assert.Equal(t, "2 trips", byType.Breakdown[0].SpentUnits)
	assert.Equal(t, "13.00 EUR", byType.Breakdown[0].Formatted)
	assert.Equal(t, "1 piece", byType.Breakdown[1].SpentUnits)
}

func TestPolicy_OwnPermissionScopesToAuthor(t *testing.T) {
	item, entries := sharedItem(t, true)
	policy := NewPolicy(permissions.StaticResolver{permissions.ViewOwnCostEntries: true})

	rep, err := policy.Evaluate(context.Background(), userA, item, entries, models.DefaultCurrency())
	require.NoError(t, err)

	labor, ok := rep.Field(FieldLaborCosts)
	require.True(t, ok)
	assert.True(t, labor.Own)
	assert.Equal(t, "100.00", labor.Amount.Money.String())

	material, _ := rep.Field(FieldMaterialCosts)
	assert.Equal(t, "5.00", material.Amount.Money.String())

	byType, _ := rep.Field(FieldCostsByType)
	require.Len(t, byType.Breakdown, 1)
	assert.Equal(t, typeY.ID, byType.Breakdown[0].CostType.ID)
}

func TestPolicy_FullPermissionWinsOverOwn(t *testing.T) {
	item, entries := sharedItem(t, true)
	policy := NewPolicy(permissions.StaticResolver{
		permissions.ViewCostEntries:    true,
		permissions.ViewOwnCostEntries: true,
	})

	rep, err := policy.Evaluate(context.Background(), userA, item, entries, models.DefaultCurrency())
	require.NoError(t, err)
	labor, _ := rep.Field(FieldLaborCosts)
	assert.False(t, labor.Own)
	assert.Equal(t, "250.00", labor.Amount.Money.String())
}

func TestPolicy_AnonymousNeverGetsOwnScope(t *testing.T) {
	item, entries := sharedItem(t, true)
	policy := NewPolicy(permissions.StaticResolver{permissions.ViewOwnCostEntries: true})

	rep, err := policy.Evaluate(context.Background(), models.AnonymousUser(), item, entries, models.DefaultCurrency())
	require.NoError(t, err)
	assert.Empty(t, rep.Fields)
}

func TestPolicy_NoPermissionOmitsFields(t *testing.T) {
	item, entries := sharedItem(t, true)
	policy := NewPolicy(permissions.StaticResolver{})

	rep, err := policy.Evaluate(context.Background(), userA, item, entries, models.DefaultCurrency())
	require.NoError(t, err)
	assert.Empty(t, rep.Fields)
	assert.Empty(t, rep.Links)
}

func TestPolicy_ExplicitNulls(t *testing.T) {
	item, entries := sharedItem(t, true)
	policy := NewPolicy(permissions.StaticResolver{}, WithExplicitNulls())

	rep, err := policy.Evaluate(context.Background(), userA, item, entries, models.DefaultCurrency())
	require.NoError(t, err)
	require.Len(t, rep.Fields, 4)
	for _, fv := range rep.Fields {
		assert.True(t, fv.Null, "%s must be an explicit null", fv.Field)
		assert.False(t, fv.Amount.Valid)
		assert.Empty(t, fv.Formatted)
	}
}

func TestPolicy_CostsDisabled(t *testing.T) {
	item, entries := sharedItem(t, false)
	resolver := permissions.StaticResolver{
		permissions.ViewCostEntries: true,
		permissions.LogCosts:        true,
	}

	for name, policy := range map[string]*Policy{
		"omit":           NewPolicy(resolver),
		"explicit nulls": NewPolicy(resolver, WithExplicitNulls()),
	} {
		t.Run(name, func(t *testing.T) {
			rep, err := policy.Evaluate(context.Background(), userA, item, entries, models.DefaultCurrency())
			require.NoError(t, err)
			assert.Empty(t, rep.Fields)
			assert.Empty(t, rep.Links)
		})
	}
}

func TestPolicy_Links(t *testing.T) {
	tests := []struct {
		name     string
		granted  permissions.StaticResolver
		wantLog  bool
		wantShow bool
	}{
		{"log own costs", permissions.StaticResolver{permissions.LogOwnCosts: true}, true, false},
		{"log costs", permissions.StaticResolver{permissions.LogCosts: true}, true, false},
		{"view own", permissions.StaticResolver{permissions.ViewOwnCostEntries: true}, false, true},
		{"view all", permissions.StaticResolver{permissions.ViewCostEntries: true}, false, true},
		{"nothing", permissions.StaticResolver{permissions.ViewTimeEntries: true}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, entries := sharedItem(t, true)
			rep, err := NewPolicy(tt.granted).Evaluate(context.Background(), userA, item, entries, models.DefaultCurrency())
			require.NoError(t, err)
			assert.Equal(t, tt.wantLog, rep.HasLink(LinkLogCosts))
			assert.Equal(t, tt.wantShow, rep.HasLink(LinkShowCosts))
		})
	}
}

func TestPolicy_UnsavedWorkItemHasNoLinks(t *testing.T) {
	item, _ := sharedItem(t, true)
	item.ID = uuid.Nil
	policy := NewPolicy(permissions.StaticResolver{permissions.ViewCostEntries: true, permissions.LogCosts: true})

	rep, err := policy.Evaluate(context.Background(), userA, item, models.EntrySet{}, models.DefaultCurrency())
	require.NoError(t, err)
	assert.Len(t, rep.Fields, 4)
	assert.Empty(t, rep.Links)
}

func TestPolicy_InconsistentDataSurfaces(t *testing.T) {
	item, entries := sharedItem(t, true)
	delete(entries.CostTypes, typeX.ID)
	policy := NewPolicy(permissions.StaticResolver{permissions.ViewCostEntries: true})

	_, err := policy.Evaluate(context.Background(), userA, item, entries, models.DefaultCurrency())
	assert.ErrorIs(t, err, costsdomain.ErrInconsistentData)
}

func TestPolicy_HiddenFieldsAreNotComputed(t *testing.T) {
	item, entries := sharedItem(t, true)
	delete(entries.CostTypes, typeX.ID)
	policy := NewPolicy(permissions.StaticResolver{})

	rep, err := policy.Evaluate(context.Background(), userA, item, entries, models.DefaultCurrency())
	require.NoError(t, err, "broken data behind hidden fields must not be touched")
	assert.Empty(t, rep.Fields)
}

func TestPolicy_CustomProviders(t *testing.T) {
	item, entries := sharedItem(t, true)
	calls := 0
	custom := FieldProvider{
		Field: FieldLaborCosts,
		Full:  permissions.ViewHourlyRates,
		Render: func(agg *Aggregator, scope EntryScope, currency models.CurrencyConfig) (FieldValue, error) {
			calls++
			amount, err := agg.LaborCost(scope)
			return FieldValue{Field: FieldLaborCosts, Amount: amount}, err
		},
	}
	policy := NewPolicy(
		permissions.StaticResolver{permissions.ViewHourlyRates: true},
		WithFieldProviders(custom),
		WithLinkProviders(),
	)

	rep, err := policy.Evaluate(context.Background(), userA, item, entries, models.DefaultCurrency())
	require.NoError(t, err)
	require.Len(t, rep.Fields, 1)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "250.00", rep.Fields[0].Amount.Money.String())
	assert.Empty(t, rep.Links)
}

func TestPolicy_ScopeFor(t *testing.T) {
	policy := NewPolicy(permissions.StaticResolver{permissions.ViewOwnCostEntries: true})
	fp := DefaultFieldProviders()[0]

	scope, ok := policy.ScopeFor(context.Background(), userB, newProject(true), fp)
	require.True(t, ok)
	assert.True(t, scope.IsOwn())
	assert.True(t, scope.Includes(userB.ID))
	assert.False(t, scope.Includes(userA.ID))

	_, ok = policy.ScopeFor(context.Background(), userB, nil, fp)
	assert.False(t, ok)
}
