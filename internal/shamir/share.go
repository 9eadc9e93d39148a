package shamir

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/eljojo/byteshard/internal/field"
)

// Share is one participant's piece of a split secret: a nonzero
// x-coordinate and one field-element evaluation per secret byte, in
// original byte order.
type Share struct {
	X int      // share index, 1..MaxShares
	Y []uint16 // evaluations, values in [0, 256]
}

// Encode serializes the share as "x:base64". Each evaluation is
// written as two big-endian bytes so that the field value 256, which
// has no single-byte form, survives the wire intact.
func (s Share) Encode() string {
	buf := make([]byte, 2*len(s.Y))
	for i, y := range s.Y {
		buf[2*i] = byte(y >> 8)
		buf[2*i+1] = byte(y)
	}
	return strconv.Itoa(s.X) + ":" + base64.StdEncoding.EncodeToString(buf)
}

// ParseShare parses the "x:base64" form produced by Encode. It
// validates the format only; it cannot tell whether the share belongs
// to any particular split.
func ParseShare(line string) (Share, error) {
	xPart, payload, found := strings.Cut(strings.TrimSpace(line), ":")
	if !found {
		return Share{}, fmt.Errorf("%w: missing ':' separator", ErrMalformedShare)
	}

	x, err := strconv.Atoi(xPart)
	if err != nil {
		return Share{}, fmt.Errorf("%w: index %q is not a decimal integer", ErrMalformedShare, xPart)
	}
	if x < 1 || x > MaxShares {
		return Share{}, fmt.Errorf("%w: index %d outside [1,%d]", ErrMalformedShare, x, MaxShares)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Share{}, fmt.Errorf("%w: invalid base64 payload", ErrMalformedShare)
	}
	if len(raw)%2 != 0 {
		return Share{}, fmt.Errorf("%w: truncated payload", ErrMalformedShare)
	}

	y := make([]uint16, len(raw)/2)
	for i := range y {
		v := uint16(raw[2*i])<<8 | uint16(raw[2*i+1])
		if int(v) >= field.Prime {
			return Share{}, fmt.Errorf("%w: value outside field at position %d", ErrMalformedShare, i)
		}
		y[i] = v
	}

	return Share{X: x, Y: y}, nil
}

// ParseShares reads newline-separated encoded shares, ignoring blank
// lines. Any malformed line fails the whole read.
func ParseShares(r io.Reader) ([]Share, error) {
	scanner := bufio.NewScanner(r)
	// A share line grows with the secret; 1 MiB covers secrets far
	// beyond the interactive use case.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var shares []Share
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		share, err := ParseShare(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		shares = append(shares, share)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading shares: %w", err)
	}

	return shares, nil
}
