package media

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnsatisfiableRange is returned for any Range header this server will
// not serve: malformed syntax, multiple ranges, suffix ranges, start > end
// or a window extending past the file.  Handlers answer 416 with
// `Content-Range: bytes */<size>`.
var ErrUnsatisfiableRange = errors.New("range not satisfiable")

// ByteRange is an inclusive byte window within a file of known size.
type ByteRange struct {
	Start int64
	End   int64
}

// Length returns the number of bytes in the window.
func (r ByteRange) Length() int64 { return r.End - r.Start + 1 }

// ParseRange interprets an HTTP Range header against a file of the given
// size.  An empty header yields (nil, nil): the caller serves the full
// file.  Only the single form `bytes=<start>-[<end>]` is accepted; start is
// required, end defaults to size-1 when omitted.  The window must satisfy
// start <= end < size, otherwise ErrUnsatisfiableRange.
func ParseRange(header string, size int64) (*ByteRange, error) {
	if header == "" {
		return nil, nil
	}
	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok || strings.Contains(spec, ",") {
		return nil, ErrUnsatisfiableRange
	}
	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok {
		return nil, ErrUnsatisfiableRange
	}
	start, err := strconv.ParseInt(strings.TrimSpace(startStr), 10, 64)
	if err != nil || start < 0 {
		return nil, ErrUnsatisfiableRange
	}
	end := size - 1
	if s := strings.TrimSpace(endStr); s != "" {
		end, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, ErrUnsatisfiableRange
		}
	}
	if start > end || end >= size {
		return nil, ErrUnsatisfiableRange
	}
	return &ByteRange{Start: start, End: end}, nil
}
