package models

import "github.com/google/uuid"

// Project owns work items and decides whether cost tracking applies to them.
type Project struct {
	ID           uuid.UUID
	Identifier   string
	Name         string
	CostsEnabled bool
	// Currency overrides the plugin-wide currency; blank fields fall back.
	Currency CurrencyConfig
}

// WorkItem is a trackable unit of project work. It is owned by the host domain
// model and read-only here.
type WorkItem struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Subject   string
	Project   *Project
}

// CostsEnabled reports whether the owning project tracks costs. A work item
// without a resolved project never does.
func (w *WorkItem) CostsEnabled() bool {
	return w != nil && w.Project != nil && w.Project.CostsEnabled
}

// IsPersisted reports whether the work item has been stored.
func (w *WorkItem) IsPersisted() bool {
	return w != nil && w.ID != uuid.Nil
}

// User is referenced only for permission checks.
type User struct {
	ID    uuid.UUID
	Login string
	Admin bool
}

// AnonymousUser is the user of unauthenticated requests.
func AnonymousUser() User {
	return User{Login: "anonymous"}
}

// IsAnonymous reports whether the user is not logged in.
func (u User) IsAnonymous() bool {
	return u.ID == uuid.Nil
}
