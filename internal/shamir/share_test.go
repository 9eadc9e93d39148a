package shamir

import (
	"errors"
	"strings"
	"testing"
)

func TestShareEncodeParse(t *testing.T) {
	tests := []struct {
		name  string
		share Share
	}{
		{"simple", Share{X: 1, Y: []uint16{65, 66}}},
		{"empty payload", Share{X: 3, Y: []uint16{}}},
		{"reserved value 256", Share{X: 7, Y: []uint16{0, 255, 256}}},
		{"max index", Share{X: 256, Y: []uint16{42}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := tt.share.Encode()

			decoded, err := ParseShare(encoded)
			if err != nil {
				t.Fatalf("parse %q: %v", encoded, err)
			}
			if decoded.X != tt.share.X {
				t.Errorf("index: got %d, want %d", decoded.X, tt.share.X)
			}
			if len(decoded.Y) != len(tt.share.Y) {
				t.Fatalf("payload length: got %d, want %d", len(decoded.Y), len(tt.share.Y))
			}
			for i := range tt.share.Y {
				if decoded.Y[i] != tt.share.Y[i] {
					t.Errorf("y[%d]: got %d, want %d", i, decoded.Y[i], tt.share.Y[i])
				}
			}
		})
	}
}

func TestEncodeFormat(t *testing.T) {
	s := Share{X: 2, Y: []uint16{0x0100, 0x0041}}
	// 2-byte big-endian units: 01 00 00 41.
	if got, want := s.Encode(), "2:AQAAQQ=="; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseShareInvalid(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"no separator", "3AAA="},
		{"index not decimal", "abc:===="},
		{"index zero", "0:AAA="},
		{"index negative", "-1:AAA="},
		{"index too large", "257:AAA="},
		{"bad base64", "1:not-base64!!"},
		{"odd payload", "1:AA=="},
		{"value outside field", "1:AQE="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseShare(tt.line); !errors.Is(err, ErrMalformedShare) {
				t.Errorf("ParseShare(%q) = %v, want ErrMalformedShare", tt.line, err)
			}
		})
	}
}

func TestParseShareWhitespace(t *testing.T) {
	s, err := ParseShare("  2:AAA=\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.X != 2 || len(s.Y) != 1 || s.Y[0] != 0 {
		t.Errorf("got %+v", s)
	}
}

func TestParseShares(t *testing.T) {
	shares, err := Split([]byte("AB"), 3, 2)
	if err != nil {
		t.Fatalf("split: %v", err)
	}

	// Blank lines between shares are ignored.
	input := shares[0].Encode() + "\n\n" + shares[1].Encode() + "\n   \n" + shares[2].Encode() + "\n"

	parsed, err := ParseShares(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(parsed) != 3 {
		t.Fatalf("got %d shares, want 3", len(parsed))
	}

	recovered, err := Recover(parsed)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if string(recovered) != "AB" {
		t.Errorf("got %q, want %q", recovered, "AB")
	}
}

func TestParseSharesReportsLine(t *testing.T) {
	input := "1:AAA=\n\nbogus line\n"

	_, err := ParseShares(strings.NewReader(input))
	if !errors.Is(err, ErrMalformedShare) {
		t.Fatalf("got %v, want ErrMalformedShare", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error %q does not name the offending line", err)
	}
}

func TestEncodedRoundTripThroughText(t *testing.T) {
	secret := []byte("wire format round trip")

	shares, err := Split(secret, 5, 2)
	if err != nil {
		t.Fatalf("split: %v", err)
	}

	var sb strings.Builder
	for _, s := range shares[1:3] {
		sb.WriteString(s.Encode())
		sb.WriteString("\n")
	}

	parsed, err := ParseShares(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	recovered, err := Recover(parsed)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if string(recovered) != string(secret) {
		t.Errorf("got %q, want %q", recovered, secret)
	}
}
