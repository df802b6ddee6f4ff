package forecast

import (
	"fmt"

	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

// ColumnKind is the type of a Frame column.
type ColumnKind int

const (
	Numeric ColumnKind = iota
	Categorical
)

func (k ColumnKind) String() string {
	if k == Categorical {
		return "categorical"
	}
	return "numeric"
}

// Frame is an immutable, ordered set of equally long named columns. Each
// column is numeric or categorical. The zero Frame has no columns and no
// rows.
type Frame struct {
	names       []string
	kinds       map[string]ColumnKind
	numeric     map[string][]float64
	categorical map[string][]string
	nRows       int
}

// NewFrame returns an empty Frame.
func NewFrame() *Frame {
	return &Frame{
		kinds:       map[string]ColumnKind{},
		numeric:     map[string][]float64{},
		categorical: map[string][]string{},
	}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return f.nRows
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.names...)
}

// Kind returns the kind of the named column.
func (f *Frame) Kind(name string) (ColumnKind, bool) {
	if f == nil {
		return 0, false
	}
	k, ok := f.kinds[name]
	return k, ok
}

// NumericNames returns the numeric column names in order.
func (f *Frame) NumericNames() []string { return f.namesOf(Numeric) }

// CategoricalNames returns the categorical column names in order.
func (f *Frame) CategoricalNames() []string { return f.namesOf(Categorical) }

func (f *Frame) namesOf(kind ColumnKind) []string {
	if f == nil {
		return nil
	}
	var out []string
	for _, n := range f.names {
		if f.kinds[n] == kind {
			out = append(out, n)
		}
	}
	return out
}

// Numeric returns a copy of a numeric column.
func (f *Frame) Numeric(name string) ([]float64, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f.numeric[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), v...), true
}

// Categorical returns a copy of a categorical column.
func (f *Frame) Categorical(name string) ([]string, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f.categorical[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), v...), true
}

// WithNumeric returns a copy of f with a numeric column added or replaced.
func (f *Frame) WithNumeric(name string, values []float64) (*Frame, error) {
	out, err := f.with(name, Numeric, len(values))
	if err != nil {
		return nil, err
	}
	delete(out.categorical, name)
	out.numeric[name] = append([]float64(nil), values...)
	return out, nil
}

// WithCategorical returns a copy of f with a categorical column added or
// replaced.
func (f *Frame) WithCategorical(name string, values []string) (*Frame, error) {
	out, err := f.with(name, Categorical, len(values))
	if err != nil {
		return nil, err
	}
	delete(out.numeric, name)
	out.categorical[name] = append([]string(nil), values...)
	return out, nil
}

// Without returns a copy of f without the named columns. Unknown names are
// ignored.
func (f *Frame) Without(names ...string) *Frame {
	out := f.clone()
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	kept := out.names[:0]
	for _, n := range out.names {
		if _, ok := drop[n]; ok {
			delete(out.kinds, n)
			delete(out.numeric, n)
			delete(out.categorical, n)
			continue
		}
		kept = append(kept, n)
	}
	out.names = kept
	if len(out.names) == 0 {
		out.nRows = 0
	}
	return out
}

// String summarizes the frame shape.
func (f *Frame) String() string {
	return fmt.Sprintf("Frame(rows=%d, columns=%v)", f.Len(), f.Names())
}

func (f *Frame) with(name string, kind ColumnKind, n int) (*Frame, error) {
	if name == "" {
		return nil, errors.NewValidationError("name", "column name must not be empty", name)
	}
	out := f.clone()
	_, replacing := out.kinds[name]
	if len(out.names) > 0 && !(replacing && len(out.names) == 1) && n != out.nRows {
		return nil, errors.NewDimensionError(fmt.Sprintf("Frame.With[%s]", name), out.nRows, n, 0)
	}
	if !replacing {
		out.names = append(out.names, name)
	}
	out.kinds[name] = kind
	out.nRows = n
	return out, nil
}

// clone copies the column index; column slices are shared because they are
// never written after construction.
func (f *Frame) clone() *Frame {
	out := NewFrame()
	if f == nil {
		return out
	}
	out.names = append([]string(nil), f.names...)
	out.nRows = f.nRows
	for k, v := range f.kinds {
		out.kinds[k] = v
	}
	for k, v := range f.numeric {
		out.numeric[k] = v
	}
	for k, v := range f.categorical {
		out.categorical[k] = v
	}
	return out
}
