package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/pad_texture_tool/readat"
	"github.com/mogaika/pad_texture_tool/tex"
	"github.com/mogaika/pad_texture_tool/tex/lz"
	"github.com/mogaika/pad_texture_tool/tex/pixel"
)

type Status int

const (
	Success Status = iota
	Skipped
)

func (s Status) String() string {
	if s == Success {
		return "Success"
	}
	return "Skipped"
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

type Reason int

const (
	ReasonNone Reason = iota
	ReasonOutOfBounds
	ReasonMalformedRecord
	ReasonLengthMismatch
	ReasonTruncatedStream
	ReasonInvalidBackReference
	ReasonInvalidIndex
	ReasonUnsupportedFormat
	ReasonCanceled
	ReasonOther
)

var reasonNames = [...]string{
	ReasonNone:                 "",
	ReasonOutOfBounds:          "OutOfBounds",
	ReasonMalformedRecord:      "MalformedRecord",
	ReasonLengthMismatch:       "LengthMismatch",
	ReasonTruncatedStream:      "TruncatedStream",
	ReasonInvalidBackReference: "InvalidBackReference",
	ReasonInvalidIndex:         "InvalidIndex",
	ReasonUnsupportedFormat:    "UnsupportedFormat",
	ReasonCanceled:             "Canceled",
	ReasonOther:                "Other",
}

func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

func (r Reason) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Classify maps error of a record stage to report reason.
// Malformed records are checked first since they may wrap reader errors.
func Classify(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, tex.ErrMalformedRecord):
		return ReasonMalformedRecord
	case errors.Is(err, readat.ErrOutOfBounds):
		return ReasonOutOfBounds
	case errors.Is(err, lz.ErrLengthMismatch), errors.Is(err, pixel.ErrLengthMismatch):
		return ReasonLengthMismatch
	case errors.Is(err, lz.ErrTruncatedStream):
		return ReasonTruncatedStream
	case errors.Is(err, lz.ErrInvalidBackReference):
		return ReasonInvalidBackReference
	case errors.Is(err, pixel.ErrInvalidIndex):
		return ReasonInvalidIndex
	case errors.Is(err, pixel.ErrUnsupportedFormat):
		return ReasonUnsupportedFormat
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	}
	return ReasonOther
}

// Outcome is the result of one record
type Outcome struct {
	Index   int
	Name    string
	Status  Status
	Reason  Reason `json:",omitempty"`
	Message string `json:",omitempty"`
	Err     error  `json:"-"`
}

func skipped(index int, name string, err error) Outcome {
	return Outcome{
		Index:   index,
		Name:    name,
		Status:  Skipped,
		Reason:  Classify(err),
		Message: err.Error(),
		Err:     err,
	}
}

// Report lists outcomes in on-disk record order
type Report struct {
	Source   string
	Layout   string
	Entries  []Outcome
	Warnings []string `json:",omitempty"`
}

func (r *Report) Summary() (extracted, skipped int) {
	for _, e := range r.Entries {
		if e.Status == Success {
			extracted++
		} else {
			skipped++
		}
	}
	return
}

func (r *Report) Skipped() []Outcome {
	var res []Outcome
	for _, e := range r.Entries {
		if e.Status == Skipped {
			res = append(res, e)
		}
	}
	return res
}

func (r *Report) String() string {
	extracted, skipped := r.Summary()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d extracted, %d skipped", r.Source, extracted, skipped)
	for _, e := range r.Skipped() {
		fmt.Fprintf(&sb, "\n  skipped #%d %q: %v (%s)", e.Index, e.Name, e.Reason, e.Message)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&sb, "\n  warning: %s", w)
	}
	return sb.String()
}
