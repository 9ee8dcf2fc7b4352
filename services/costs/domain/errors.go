package domain

import "errors"

// Sentinel errors for the costs domain. Use errors.Is() to check these.
var (
	// ErrWorkItemNotFound indicates the requested work item does not exist.
	ErrWorkItemNotFound = errors.New("work item not found")

	// ErrProjectNotFound indicates the requested project does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrUserNotFound indicates the session user no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrCostTypeNotFound indicates the requested cost type does not exist.
	ErrCostTypeNotFound = errors.New("cost type not found")

	// ErrCostEntryNotFound indicates the requested cost entry does not exist or is not visible.
	ErrCostEntryNotFound = errors.New("cost entry not found")

	// ErrNotApplicable indicates costs are disabled for the work item's project.
	// It suppresses fields and is never shown to users as a failure.
	ErrNotApplicable = errors.New("costs not applicable")

	// ErrInconsistentData indicates a log entry references a cost type or work
	// item that cannot be resolved. It is a defect in the entry store.
	ErrInconsistentData = errors.New("inconsistent cost data")

	// ErrForbidden indicates the current user lacks the permission for the request.
	ErrForbidden = errors.New("forbidden")
)
