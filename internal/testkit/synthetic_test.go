package testkit

import (
	"testing"
)

func TestGenerate_Basic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows = 50 // Small for testing

	sample, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Failed to generate sample: %v", err)
	}
	if err := sample.Validate(); err != nil {
		t.Fatalf("Generated sample failed validation: %v", err)
	}
	if sample.Rows() != cfg.Rows {
		t.Errorf("Expected %d rows, got %d", cfg.Rows, sample.Rows())
	}

	tIdx, err := sample.Layout.TreatmentIndex()
	if err != nil {
		t.Fatalf("Layout has no treatment column: %v", err)
	}
	for i, row := range sample.X.Data {
		if row[0] != 1 {
			t.Errorf("Row %d missing intercept", i)
		}
		if row[tIdx] != 0 && row[tIdx] != 1 {
			t.Errorf("Row %d treatment indicator %f not binary", i, row[tIdx])
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows = 30

	first, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Failed to generate sample: %v", err)
	}
	second, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Failed to generate sample: %v", err)
	}
	for i := range first.X.Data {
		for j := range first.X.Data[i] {
			if first.X.Data[i][j] != second.X.Data[i][j] {
				t.Fatalf("Seeded generation diverged at row %d col %d", i, j)
			}
		}
		if first.Mediator[i] != second.Mediator[i] || first.Outcome[i] != second.Outcome[i] {
			t.Fatalf("Seeded responses diverged at row %d", i)
		}
	}
}

func TestGenerateUntreatedPool(t *testing.T) {
	pool := GenerateUntreatedPool(40, 7)
	if err := pool.Validate(); err != nil {
		t.Fatalf("Pool failed validation: %v", err)
	}
	tIdx, err := pool.Layout.TreatmentIndex()
	if err != nil {
		t.Fatalf("Pool layout has no treatment column: %v", err)
	}
	for i, row := range pool.X.Data {
		if row[tIdx] != 0 {
			t.Errorf("Row %d should be untreated, got %f", i, row[tIdx])
		}
	}
}

func TestGenerateDegenerate(t *testing.T) {
	sample := GenerateDegenerate(10)
	if err := sample.Validate(); err != nil {
		t.Fatalf("Degenerate sample failed validation: %v", err)
	}
	for i := 1; i < len(sample.X.Data); i++ {
		for j := range sample.X.Data[i] {
			if sample.X.Data[i][j] != sample.X.Data[0][j] {
				t.Fatalf("Degenerate rows differ at %d,%d", i, j)
			}
		}
	}
}
