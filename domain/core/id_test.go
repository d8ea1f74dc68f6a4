package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestNewRunID tests that run IDs are non-empty
func TestNewRunID(t *testing.T) {
	id := NewRunID()
	if id.String() == "" {
		t.Error("Expected non-empty run ID")
	}
}

// TestParseVariableKey tests variable key parsing
func TestParseVariableKey(t *testing.T) {
	tests := []struct {
		input    string
		expected VariableKey
		hasError bool
	}{
		{"pforr", VariableKey("pforr"), false},
		{"mgmt_practices", VariableKey("mgmt_practices"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, tt := range tests {
		key, err := ParseVariableKey(tt.input)
		if tt.hasError {
			if err == nil {
				t.Errorf("ParseVariableKey(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVariableKey(%q): unexpected error %v", tt.input, err)
		}
		if key != tt.expected {
			t.Errorf("ParseVariableKey(%q) = %q, want %q", tt.input, key, tt.expected)
		}
	}
}
