// Package records loads collections of free-form records from JSON or YAML
// files for the listkit CLI.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for input files that are neither JSON nor
// YAML.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// Record is one free-form input record.
type Record map[string]any

// Value returns the named column of the record, nil when absent. It has the
// shape listdata providers expect for column extraction.
func Value(r Record, column string) any {
	return r[column]
}

// Load reads every path and returns the concatenated records in argument
// order. Files are decoded concurrently; the first failure aborts the load.
// The format is chosen by extension: .json, .yaml or .yml.
func Load(ctx context.Context, paths []string) ([]Record, error) {
	results := make([][]Record, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			recs, err := loadFile(path)
			if err != nil {
				return err
			}
			results[i] = recs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Record
	for _, recs := range results {
		all = append(all, recs...)
	}
	return all, nil
}

func loadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var recs []Record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &recs); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	return recs, nil
}

// AssignIDs fills the key field of records that lack one with a fresh ULID,
// so externally keyless data still gets stable identifiers for the lifetime
// of the load. Returns the number of assigned identifiers.
func AssignIDs(recs []Record, field string) int {
	if field == "" {
		return 0
	}

	assigned := 0
	for _, rec := range recs {
		if v, ok := rec[field]; ok && v != nil && v != "" {
			continue
		}
		rec[field] = ulid.Make().String()
		assigned++
	}
	return assigned
}
