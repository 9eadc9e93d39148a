// Package project persists the outcome of a seal as a YAML record so
// that verify can later check the sealed payload and share files
// against their checksums.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// RecordFileName is the record written into the seal output
	// directory.
	RecordFileName = "seal.yml"

	// PayloadFileName is the encrypted payload written next to it.
	PayloadFileName = "SECRET.age"
)

// ShareInfo stores the location and checksum of one written share file.
type ShareInfo struct {
	Index    int    `yaml:"index"`
	Holder   string `yaml:"holder,omitempty"`
	File     string `yaml:"file"`
	Checksum string `yaml:"checksum"`
}

// Record describes one sealed payload and the share files protecting
// its passphrase.
type Record struct {
	Name             string      `yaml:"name"`
	Created          time.Time   `yaml:"created"`
	Source           string      `yaml:"source"`
	Archived         bool        `yaml:"archived"` // true when the source was a directory
	Total            int         `yaml:"total"`
	Threshold        int         `yaml:"threshold"`
	PayloadChecksum  string      `yaml:"payload_checksum"`
	VerificationHash string      `yaml:"verification_hash"` // SHA-256 of the passphrase, never the passphrase itself
	Shares           []ShareInfo `yaml:"shares"`

	// Path is the directory containing this record (not serialized).
	Path string `yaml:"-"`
}

// Load reads a seal record from a directory.
func Load(dir string) (*Record, error) {
	path := filepath.Join(dir, RecordFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seal record: %w", err)
	}

	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing seal record: %w", err)
	}

	r.Path = dir
	return &r, nil
}

// Save writes the record to its directory.
func (r *Record) Save() error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding seal record: %w", err)
	}

	path := filepath.Join(r.Path, RecordFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing seal record: %w", err)
	}

	return nil
}

// Validate checks that the record is internally consistent.
func (r *Record) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("record name is required")
	}
	if r.Threshold < 2 {
		return fmt.Errorf("threshold must be at least 2, got %d", r.Threshold)
	}
	if r.Threshold > r.Total {
		return fmt.Errorf("threshold (%d) cannot exceed total shares (%d)", r.Threshold, r.Total)
	}
	if len(r.Shares) != r.Total {
		return fmt.Errorf("record lists %d shares, expected %d", len(r.Shares), r.Total)
	}
	return nil
}

// PayloadPath returns the path of the encrypted payload.
func (r *Record) PayloadPath() string {
	return filepath.Join(r.Path, PayloadFileName)
}
