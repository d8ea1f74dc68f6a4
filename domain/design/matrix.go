package design

import (
	"fmt"

	"gomediate/domain/core"
)

// ColumnRole identifies the logical meaning of a physical matrix column.
type ColumnRole string

const (
	RoleIntercept   ColumnRole = "intercept"
	RoleTreatment   ColumnRole = "treatment"
	RoleControl     ColumnRole = "control"
	RoleRegionDummy ColumnRole = "region_dummy"
)

// Column describes one physical column of a design matrix.
type Column struct {
	Key  core.VariableKey `json:"key"`
	Role ColumnRole       `json:"role"`
}

// Layout is the named-column contract for a design matrix. The estimator asks
// the layout where the treatment column lives instead of hard-coding a position,
// so matrix construction and estimation can never drift apart silently.
type Layout struct {
	Columns []Column `json:"columns"`
}

// NewLayout builds the standard layout: intercept, treatment, then the named
// controls, then the region indicator block.
func NewLayout(treatment core.VariableKey, controls []core.VariableKey, regions []core.VariableKey) Layout {
	cols := make([]Column, 0, 2+len(controls)+len(regions))
	cols = append(cols, Column{Key: "intercept", Role: RoleIntercept})
	cols = append(cols, Column{Key: treatment, Role: RoleTreatment})
	for _, c := range controls {
		cols = append(cols, Column{Key: c, Role: RoleControl})
	}
	for _, r := range regions {
		cols = append(cols, Column{Key: r, Role: RoleRegionDummy})
	}
	return Layout{Columns: cols}
}

// Width returns the number of physical columns the layout describes.
func (l Layout) Width() int {
	return len(l.Columns)
}

// TreatmentIndex returns the physical index of the treatment column.
func (l Layout) TreatmentIndex() (int, error) {
	for i, c := range l.Columns {
		if c.Role == RoleTreatment {
			return i, nil
		}
	}
	return -1, core.NewColumnError(string(RoleTreatment))
}

// IndexOf returns the physical index of the column with the given key.
func (l Layout) IndexOf(key core.VariableKey) (int, bool) {
	for i, c := range l.Columns {
		if c.Key == key {
			return i, true
		}
	}
	return -1, false
}

// Validate checks structural invariants: exactly one intercept in the first
// position and exactly one treatment column.
func (l Layout) Validate() error {
	if len(l.Columns) < 2 {
		return core.NewValidationError("layout", "need at least intercept and treatment columns")
	}
	if l.Columns[0].Role != RoleIntercept {
		return core.NewValidationError("layout", "first column must be the intercept")
	}
	treatments := 0
	for _, c := range l.Columns {
		if c.Role == RoleTreatment {
			treatments++
		}
		if c.Role == RoleIntercept && c.Key != l.Columns[0].Key {
			return core.NewValidationError("layout", "multiple intercept columns")
		}
	}
	if treatments != 1 {
		return core.NewValidationError("layout", fmt.Sprintf("expected exactly one treatment column, found %d", treatments))
	}
	return nil
}

// Matrix represents dense numerical data ready for statistical analysis.
// Rows are observations, columns follow a Layout.
type Matrix struct {
	Data [][]float64 // rows=observations, cols=variables
}

// Rows returns the number of observations.
func (m Matrix) Rows() int {
	return len(m.Data)
}

// Cols returns the number of columns (0 for an empty matrix).
func (m Matrix) Cols() int {
	if len(m.Data) == 0 {
		return 0
	}
	return len(m.Data[0])
}

// Sample bundles a design matrix with its layout and the two response vectors
// used by the mediation estimator. It is the single input to all statistical
// computation, handed over by the upstream data-preparation step with
// missingness already resolved.
type Sample struct {
	X        Matrix
	Layout   Layout
	Mediator []float64
	Outcome  []float64
}

// Rows returns the observation count.
func (s *Sample) Rows() int {
	return s.X.Rows()
}

// Validate enforces the row-count and layout invariants. Any disagreement is a
// fatal precondition violation: it must fail here, before any estimation or
// resampling begins, never by silent truncation.
func (s *Sample) Validate() error {
	n := s.X.Rows()
	if n == 0 {
		return core.ErrEmptySample
	}
	if err := s.Layout.Validate(); err != nil {
		return err
	}
	if got := s.X.Cols(); got != s.Layout.Width() {
		return core.NewValidationError("matrix", fmt.Sprintf("%d columns but layout describes %d", got, s.Layout.Width()))
	}
	for i, row := range s.X.Data {
		if len(row) != s.Layout.Width() {
			return core.NewValidationError("matrix", fmt.Sprintf("row %d has %d columns, want %d", i, len(row), s.Layout.Width()))
		}
	}
	if len(s.Mediator) != n {
		return core.NewDimensionError("mediator vector", n, len(s.Mediator))
	}
	if len(s.Outcome) != n {
		return core.NewDimensionError("outcome vector", n, len(s.Outcome))
	}
	if n < s.Layout.Width() {
		return core.NewInsufficientDataError(n, s.Layout.Width())
	}
	return nil
}

// Gather builds a resampled Sample from row indices drawn against the
// receiver. The layout is shared (it is immutable); row data is copied so the
// resample owns its memory and iterations never share mutable state.
func (s *Sample) Gather(idx []int) (*Sample, error) {
	n := s.Rows()
	out := &Sample{
		X:        Matrix{Data: make([][]float64, len(idx))},
		Layout:   s.Layout,
		Mediator: make([]float64, len(idx)),
		Outcome:  make([]float64, len(idx)),
	}
	for i, j := range idx {
		if j < 0 || j >= n {
			return nil, core.NewValidationError("gather", fmt.Sprintf("index %d out of range [0,%d)", j, n))
		}
		row := make([]float64, len(s.X.Data[j]))
		copy(row, s.X.Data[j])
		out.X.Data[i] = row
		out.Mediator[i] = s.Mediator[j]
		out.Outcome[i] = s.Outcome[j]
	}
	return out, nil
}

// Column extracts a copy of one physical column of the design matrix.
func (s *Sample) Column(i int) ([]float64, error) {
	if i < 0 || i >= s.X.Cols() {
		return nil, core.NewValidationError("column", fmt.Sprintf("index %d out of range [0,%d)", i, s.X.Cols()))
	}
	out := make([]float64, s.Rows())
	for r, row := range s.X.Data {
		out[r] = row[i]
	}
	return out, nil
}
