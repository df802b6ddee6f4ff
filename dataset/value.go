package dataset

import (
	"strconv"
	"time"
)

// Kind is the type tag of a cell.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindText
	KindDate
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	default:
		return "null"
	}
}

// Value is a single dataset cell: null, a number, a text or a date.
// The zero Value is null.
type Value struct {
	kind Kind
	num  float64
	text string
	date time.Time
}

// Null returns the null cell.
func Null() Value { return Value{} }

// Number returns a numeric cell.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text returns a text cell.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Date returns a date cell. A zero time is stored as null.
func Date(t time.Time) Value {
	if t.IsZero() {
		return Value{}
	}
	return Value{kind: KindDate, date: t}
}

// Kind returns the type tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the cell is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric value; ok is false for anything but a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Text returns the string form of a text cell; ok is false otherwise.
func (v Value) Text() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// Time returns the date value; ok is false for anything but a date.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return v.date, true
}

// String formats the cell for display. Null renders as an empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	case KindDate:
		return v.date.Format(time.DateOnly)
	default:
		return ""
	}
}
