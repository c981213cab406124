package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProbe           = errors.New("media probe failed")
	ErrEncode          = errors.New("encode failed")
	ErrInvalidSchedule = errors.New("invalid bitrate schedule")
)

// ProbeError reports an input that could not be read or is not a media container.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

func (e *ProbeError) Is(target error) bool { return target == ErrProbe }

// EncodeError reports a failed encoder run. Diagnostic carries the tail of the
// tool's stderr and is meant for logs only.
type EncodeError struct {
	Attempt    int
	Err        error
	Diagnostic string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode attempt %d: %v", e.Attempt, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

func (e *EncodeError) Is(target error) bool { return target == ErrEncode }
