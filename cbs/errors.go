/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the sentinel error kinds shared by the CBS framework
  and all codec plug-ins, as well as a named-element wrapper used to
  report range-check failures.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package cbs

import (
	"strconv"

	"github.com/pkg/errors"
)

// Sentinel error kinds. Plug-ins and callers should compare with
// errors.Is against these, since concrete errors are usually wrapped with
// additional context via github.com/pkg/errors.
var (
	// ErrInsufficientData means fewer bits remain than were requested; the
	// bitstream is truncated.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidData means a syntax element violated its range, an
	// inferred/fixed value failed its equality check, or framing
	// (start codes, OBU headers, superframe index, AV1CodecConfigurationRecord)
	// was malformed.
	ErrInvalidData = errors.New("invalid data")

	// ErrOverflow means a write buffer was too small; callers of write_unit
	// grow the buffer and retry.
	ErrOverflow = errors.New("write buffer overflow")

	// ErrOutOfMemory means an allocation failed.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrUnsupported means the codec id isn't registered, or a unit/OBU
	// type this implementation deliberately doesn't decode (e.g. AV1
	// scalability metadata). At unit granularity this is recoverable: the
	// unit keeps its raw bytes and a warning is logged.
	ErrUnsupported = errors.New("unsupported")

	// ErrTryAgain means the unit was intentionally dropped (AV1 operating
	// point filtering) and should not be treated as an error by callers.
	ErrTryAgain = errors.New("try again")
)

// RangeError reports that a named syntax element's value fell outside its
// declared [min, max] range.
type RangeError struct {
	Name     string
	Subs     []int
	Value    int64
	Min, Max int64
}

func (e *RangeError) Error() string {
	return errors.Errorf("%s%s out of range: %d, but must be in [%d,%d]",
		e.Name, formatSubscripts(e.Subs), e.Value, e.Min, e.Max).Error()
}

// Unwrap allows errors.Is(err, ErrInvalidData) to succeed for a RangeError.
func (e *RangeError) Unwrap() error { return ErrInvalidData }

func formatSubscripts(subs []int) string {
	if len(subs) == 0 {
		return ""
	}
	s := ""
	for _, sub := range subs {
		s += "[" + strconv.Itoa(sub) + "]"
	}
	return s
}
