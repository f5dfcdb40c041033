package models

import "errors"

// ErrEmptyContext signals that a reader ran but produced no usable text.
var ErrEmptyContext = errors.New("no usable context")

// Status is the outcome of a reader or writer boundary call.
type Status int

const (
	StatusSuccess Status = iota
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// ErrorKind classifies failures for logging and caller decisions.
type ErrorKind string

const (
	KindNone           ErrorKind = ""
	KindTransient      ErrorKind = "transient"
	KindMalformedStyle ErrorKind = "malformed_style"
	KindUnresolvable   ErrorKind = "unresolvable"
	KindUnsupported    ErrorKind = "unsupported"
	KindAcquisition    ErrorKind = "acquisition"
)

// Result is returned from every reader boundary call in place of
// exceptions and empty-string sentinels.
type Result struct {
	Status  Status
	Context ExtractedContext
	Kind    ErrorKind
	Err     error
}

// Success wraps a context that carries text. A context without text is
// reported as Empty.
func Success(ctx ExtractedContext) Result {
	if ctx.Style == nil {
		ctx.Style = StyleAttributes{}
	}
	if !ctx.HasText() {
		return Result{Status: StatusEmpty, Context: ctx, Err: ErrEmptyContext}
	}
	return Result{Status: StatusSuccess, Context: ctx}
}

// Empty reports a call that ran without producing text.
func Empty() Result {
	return Result{Status: StatusEmpty, Context: EmptyContext(), Err: ErrEmptyContext}
}

// Failed reports a call that could not complete. The context is still a
// valid empty context.
func Failed(kind ErrorKind, err error) Result {
	return Result{Status: StatusFailed, Context: EmptyContext(), Kind: kind, Err: err}
}

// OK reports whether the result carries usable text.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}
