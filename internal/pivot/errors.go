package pivot

import (
	"errors"
	"fmt"
)

// Kind tags the point in the pipeline where a transform failed.
type Kind string

const (
	KindFileRead     Kind = "file-read"
	KindSheetLookup  Kind = "sheet-lookup"
	KindPreamble     Kind = "preamble"
	KindColumnLookup Kind = "column-lookup"
	KindParse        Kind = "parse"
	KindPivot        Kind = "pivot"
	KindRender       Kind = "render"
	KindInternal     Kind = "internal"
)

// Sentinels for errors.Is matching against a Failure's kind.
var (
	ErrFileRead     = errors.New("unreadable workbook")
	ErrSheetLookup  = errors.New("sheet not found")
	ErrPreamble     = errors.New("unexpected sheet layout")
	ErrColumnLookup = errors.New("column not found")
	ErrParse        = errors.New("invalid cell value")
	ErrPivot        = errors.New("nothing to pivot")
	ErrRender       = errors.New("render failed")
	ErrInternal     = errors.New("internal error")
)

var sentinels = map[Kind]error{
	KindFileRead:     ErrFileRead,
	KindSheetLookup:  ErrSheetLookup,
	KindPreamble:     ErrPreamble,
	KindColumnLookup: ErrColumnLookup,
	KindParse:        ErrParse,
	KindPivot:        ErrPivot,
	KindRender:       ErrRender,
	KindInternal:     ErrInternal,
}

// Failure is the single error type returned by the transform pipeline.
type Failure struct {
	Kind Kind
	// Op names the step that failed, e.g. "parse timestamp".
	Op  string
	Err error

	// Row is the 1-based sheet row involved, 0 when not row specific.
	Row int
	// Value is the offending cell text, if any.
	Value string
}

func (f *Failure) Error() string {
	msg := f.Op
	if f.Row > 0 {
		msg = fmt.Sprintf("%s (row %d)", msg, f.Row)
	}
	if f.Value != "" {
		msg = fmt.Sprintf("%s %q", msg, f.Value)
	}
	if f.Err != nil {
		msg = msg + ": " + f.Err.Error()
	}
	return msg
}

func (f *Failure) Unwrap() error { return f.Err }

// Is matches the kind sentinel, so errors.Is(err, ErrParse) works for any
// parse failure regardless of its cause.
func (f *Failure) Is(target error) bool {
	return sentinels[f.Kind] == target
}

// UserFixable reports whether correcting the input (re-upload, different
// sheet or column) can make the request succeed.
func (f *Failure) UserFixable() bool {
	switch f.Kind {
	case KindRender, KindInternal:
		return false
	default:
		return true
	}
}

// Fail builds a Failure.
func Fail(kind Kind, op string, err error) *Failure {
	return &Failure{Kind: kind, Op: op, Err: err}
}

// AsFailure extracts the Failure from err, wrapping unknown errors as
// KindInternal.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return Fail(KindInternal, "heatmap", err)
}
