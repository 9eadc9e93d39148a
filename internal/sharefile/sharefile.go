// Package sharefile wraps an encoded share line in a human-readable
// PEM-like file with enough metadata to route it back to the right
// recovery: which index it is, how many shares exist, how many are
// needed, and a checksum to spot copy-paste corruption.
//
// The wrapper is a distribution convenience only; the share itself is
// the single "x:base64" line inside the block, and recovery accepts
// bare lines just as well.
package sharefile

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/eljojo/byteshard/internal/crypto"
	"github.com/eljojo/byteshard/internal/shamir"
)

const (
	Begin = "-----BEGIN BYTESHARD SHARE-----"
	End   = "-----END BYTESHARD SHARE-----"
)

// File is a share wrapped with distribution metadata.
type File struct {
	Version   int       // format version (currently 1)
	Index     int       // which share (matches the x-coordinate)
	Total     int       // total shares (n)
	Threshold int       // shares needed to recover (k)
	Holder    string    // who holds this share, optional
	Created   time.Time // when the share was created
	Line      string    // the encoded "x:base64" share
	Checksum  string    // SHA-256 of Line
}

// New wraps a share with metadata and computes its checksum.
func New(total, threshold int, holder string, share shamir.Share) *File {
	line := share.Encode()
	return &File{
		Version:   1,
		Index:     share.X,
		Total:     total,
		Threshold: threshold,
		Holder:    holder,
		Created:   time.Now().UTC(),
		Line:      line,
		Checksum:  crypto.HashBytes([]byte(line)),
	}
}

// Encode renders the share file.
func (f *File) Encode() string {
	var sb strings.Builder

	sb.WriteString(Begin + "\n")
	sb.WriteString(fmt.Sprintf("Version: %d\n", f.Version))
	sb.WriteString(fmt.Sprintf("Index: %d\n", f.Index))
	sb.WriteString(fmt.Sprintf("Total: %d\n", f.Total))
	sb.WriteString(fmt.Sprintf("Threshold: %d\n", f.Threshold))
	if f.Holder != "" {
		sb.WriteString(fmt.Sprintf("Holder: %s\n", f.Holder))
	}
	sb.WriteString(fmt.Sprintf("Created: %s\n", f.Created.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Checksum: %s\n", f.Checksum))
	sb.WriteString("\n")
	sb.WriteString(f.Line)
	sb.WriteString("\n")
	sb.WriteString(End + "\n")

	return sb.String()
}

// Parse reads a share file. The content may be a larger document (a
// README, an email); Parse finds the block between the markers.
func Parse(content []byte) (*File, error) {
	text := string(content)

	beginIdx := strings.Index(text, Begin)
	endIdx := strings.Index(text, End)
	if beginIdx == -1 || endIdx == -1 || endIdx <= beginIdx {
		return nil, fmt.Errorf("invalid share file: missing BEGIN/END markers")
	}

	inner := text[beginIdx+len(Begin) : endIdx]
	lines := strings.Split(strings.TrimSpace(inner), "\n")

	f := &File{}
	inPayload := false

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			inPayload = true
			continue
		}

		if !inPayload {
			key, value, found := strings.Cut(line, ": ")
			if !found {
				// Headers ended without a blank line (hand-copied
				// files lose it easily); treat the rest as payload.
				inPayload = true
			} else {
				if err := f.setHeader(key, value); err != nil {
					return nil, err
				}
				continue
			}
		}

		if f.Line != "" {
			return nil, fmt.Errorf("invalid share file: multiple payload lines")
		}
		f.Line = line
	}

	if f.Version == 0 {
		return nil, fmt.Errorf("invalid share file: missing version")
	}
	if f.Index == 0 {
		return nil, fmt.Errorf("invalid share file: missing index")
	}
	if f.Total == 0 {
		return nil, fmt.Errorf("invalid share file: missing total")
	}
	if f.Threshold == 0 {
		return nil, fmt.Errorf("invalid share file: missing threshold")
	}
	if f.Line == "" {
		return nil, fmt.Errorf("invalid share file: missing share payload")
	}

	share, err := shamir.ParseShare(f.Line)
	if err != nil {
		return nil, fmt.Errorf("invalid share payload: %w", err)
	}
	if share.X != f.Index {
		return nil, fmt.Errorf("invalid share file: index header %d does not match payload index %d", f.Index, share.X)
	}

	return f, nil
}

func (f *File) setHeader(key, value string) error {
	switch key {
	case "Version":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid version: %w", err)
		}
		f.Version = v
	case "Index":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid index: %w", err)
		}
		f.Index = v
	case "Total":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid total: %w", err)
		}
		f.Total = v
	case "Threshold":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid threshold: %w", err)
		}
		f.Threshold = v
	case "Holder":
		f.Holder = value
	case "Created":
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return fmt.Errorf("invalid created time: %w", err)
		}
		f.Created = t
	case "Checksum":
		f.Checksum = value
	}
	return nil
}

// Verify checks the payload line against the recorded checksum.
func (f *File) Verify() error {
	computed := crypto.HashBytes([]byte(f.Line))
	if computed != f.Checksum {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", f.Checksum, computed)
	}
	return nil
}

// Share parses the payload line.
func (f *File) Share() (shamir.Share, error) {
	return shamir.ParseShare(f.Line)
}

// Filename returns a suggested filename for this share.
func (f *File) Filename() string {
	name := SanitizeFilename(f.Holder)
	if name == "" {
		name = strconv.Itoa(f.Index)
	}
	return fmt.Sprintf("SHARE-%s.txt", name)
}

// SanitizeFilename converts a holder name to a filesystem-safe
// lowercase ASCII string, transliterating diacritics to their base
// letters via NFD decomposition (e.g. "José" -> "jose").
func SanitizeFilename(name string) string {
	var stripped []rune
	for _, r := range norm.NFD.String(name) {
		if !unicode.Is(unicode.Mn, r) {
			stripped = append(stripped, r)
		}
	}

	var b strings.Builder
	for _, r := range stripped {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' {
			b.WriteRune('-')
		}
	}

	result := strings.ToLower(b.String())
	for strings.Contains(result, "--") {
		result = strings.ReplaceAll(result, "--", "-")
	}
	return strings.Trim(result, "-")
}
