package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CostsProject struct {
	ID             uuid.UUID
	Identifier     string
	Name           string
	CostsEnabled   bool
	CurrencyCode   sql.NullString
	CurrencyFormat sql.NullString
}

type CostsUser struct {
	ID    uuid.UUID
	Login string
	Admin bool
}

type CostsWorkItem struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Subject   string
	CreatedAt time.Time
}

// WorkItemWithProject is a work item joined with its project.
type WorkItemWithProject struct {
	CostsWorkItem
	Project CostsProject
}

type CostsCostType struct {
	ID             uuid.UUID
	Name           string
	UnitName       string
	UnitPluralName string
}

type CostsTimeEntry struct {
	ID         uuid.UUID
	WorkItemID uuid.UUID
	UserID     uuid.UUID
	Hours      decimal.Decimal
	Rate       decimal.Decimal
	Activity   string
	SpentOn    time.Time
}

type CostsCostEntry struct {
	ID         uuid.UUID
	WorkItemID uuid.UUID
	UserID     uuid.UUID
	CostTypeID uuid.UUID
	Units      decimal.Decimal
	Amount     decimal.Decimal
	Comments   string
	SpentOn    time.Time
}

// RolePermission is one granted permission of a role; roles without grants
// appear once with a NULL permission.
type RolePermission struct {
	RoleName   string
	Builtin    bool
	Permission sql.NullString
}
