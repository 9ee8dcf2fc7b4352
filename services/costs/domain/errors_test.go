package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_NonNil(t *testing.T) {
	for _, err := range []error{
		ErrWorkItemNotFound,
		ErrProjectNotFound,
		ErrUserNotFound,
		ErrCostTypeNotFound,
		ErrCostEntryNotFound,
		ErrNotApplicable,
		ErrInconsistentData,
		ErrForbidden,
	} {
		if err == nil {
			t.Fatal("sentinel error must not be nil")
		}
	}
}

func TestSentinelErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: cost entry references unknown cost type", ErrInconsistentData)
	if !errors.Is(wrapped, ErrInconsistentData) {
		t.Fatal("expected errors.Is to match wrapped ErrInconsistentData")
	}
	if errors.Is(wrapped, ErrNotApplicable) {
		t.Fatal("wrapped ErrInconsistentData must not match ErrNotApplicable")
	}
}
