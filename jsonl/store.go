// Package jsonl persists run history as JSON Lines files.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/skillreview"
)

// Compile-time interface verification.
var _ skillreview.ReportStore = (*Store)(nil)

// maxLineSize is the maximum size for a single JSONL line (4MB).
// This accommodates reports with many findings while preventing memory issues.
const maxLineSize = 4 * 1024 * 1024

// Store appends and retrieves SkillReport records in a single JSONL file.
type Store struct {
	path string
}

// NewStore creates a Store backed by the JSONL file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save appends one report to the history file, creating parent directories
// if needed.
func (s *Store) Save(ctx context.Context, report *skillreview.SkillReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		return err
	}
	if _, err := f.WriteString("\n"); err != nil {
		return err
	}

	return nil
}

// List reads all reports from the history file in append order. Returns an
// empty list if the file doesn't exist.
func (s *Store) List(ctx context.Context) ([]*skillreview.SkillReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var reports []*skillreview.SkillReport
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, maxLineSize), maxLineSize)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var r skillreview.SkillReport
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		reports = append(reports, &r)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}
