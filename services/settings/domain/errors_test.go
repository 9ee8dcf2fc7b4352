package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	all := []error{ErrPluginNotFound, ErrSettingNotFound, ErrInvalidSettings}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v must not match %v", a, b)
			}
		}
	}
}

func TestSentinelErrors_SurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("update plugin costs: %w", ErrInvalidSettings)
	if !errors.Is(wrapped, ErrInvalidSettings) {
		t.Fatal("wrapped error lost its sentinel")
	}
}
