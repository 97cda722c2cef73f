// Package catalog holds the candidate functions the game picks from and
// resolves guesses against.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joss/nixdle/internal/nixtype"
)

var (
	// ErrEmptyCatalog indicates that no record is eligible for play.
	ErrEmptyCatalog = errors.New("catalog has no eligible functions")

	// ErrNoData indicates the data directory is missing a required file.
	ErrNoData = errors.New("catalog data not found")
)

const (
	FunctionsFile    = "functions.json"
	BuiltinTypesFile = "builtin_types.json"

	builtinsNamespace = "builtins"
)

// Catalog is an immutable, ordered set of eligible records.
type Catalog struct {
	records  []FunctionRecord
	builtins BuiltinTypes
}

// Load keeps the records that have a description and a resolvable type
// pair, preserving input order.
func Load(records []FunctionRecord, builtins BuiltinTypes) *Catalog {
	c := &Catalog{builtins: builtins}
	for _, rec := range records {
		if strings.TrimSpace(rec.Description) == "" {
			continue
		}
		if _, _, ok := c.Types(&rec); !ok {
			continue
		}
		c.records = append(c.records, rec)
	}
	return c
}

// LoadStats describes what LoadDir read and kept.
type LoadStats struct {
	Decoded  int
	Invalid  int
	Eligible int
	Builtins int
}

// LoadDir reads functions.json and builtin_types.json from dir.
func LoadDir(dir string) (*Catalog, LoadStats, error) {
	var stats LoadStats

	fnData, err := readDataFile(dir, FunctionsFile)
	if err != nil {
		return nil, stats, err
	}
	btData, err := readDataFile(dir, BuiltinTypesFile)
	if err != nil {
		return nil, stats, err
	}

	builtins, err := DecodeBuiltinTypes(btData)
	if err != nil {
		return nil, stats, err
	}
	records, invalid, err := DecodeFunctions(fnData)
	if err != nil {
		return nil, stats, err
	}

	c := Load(records, builtins)
	stats = LoadStats{
		Decoded:  len(records),
		Invalid:  invalid,
		Eligible: c.Len(),
		Builtins: len(builtins),
	}
	if c.Len() == 0 {
		return nil, stats, ErrEmptyCatalog
	}
	return c, stats, nil
}

func readDataFile(dir, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s in %s", ErrNoData, name, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Len returns the number of eligible records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// At returns the i-th record in catalog order.
func (c *Catalog) At(i int) *FunctionRecord {
	return &c.records[i]
}

// Records returns the records in catalog order. Callers must not modify them.
func (c *Catalog) Records() []FunctionRecord {
	return c.records
}

// ArgCount resolves how many arguments rec takes: primop args win, then the
// signature's arrow count, then zero.
func (c *Catalog) ArgCount(rec *FunctionRecord) int {
	if rec.PrimopArgs != nil {
		return len(rec.PrimopArgs)
	}
	if rec.Signature != "" {
		return nixtype.SignatureArgCount(rec.Signature)
	}
	return 0
}

// Types resolves rec's (input, output) pair from its own signature, then
// from the builtin type table via its path, then via its aliases.
func (c *Catalog) Types(rec *FunctionRecord) (input, output nixtype.Type, ok bool) {
	if rec.Signature != "" {
		return nixtype.ParseSignature(rec.Signature)
	}

	if sig, found := c.builtinSignature(rec.Path); found {
		return nixtype.ParseSignature(sig)
	}
	for _, alias := range rec.Aliases {
		if sig, found := c.builtinSignature(alias); found {
			return nixtype.ParseSignature(sig)
		}
	}
	return nixtype.Type{}, nixtype.Type{}, false
}

func (c *Catalog) builtinSignature(path []string) (string, bool) {
	if len(path) != 2 || path[0] != builtinsNamespace {
		return "", false
	}
	sig, ok := c.builtins[path[1]]
	return sig, ok
}

// Find resolves a guess. A dotted query must equal a record's full path; a
// bare name matches the last segment of two-segment paths. Aliases are
// consulted only when no path matches.
func (c *Catalog) Find(query string) (*FunctionRecord, bool) {
	for i := range c.records {
		if matchPath(c.records[i].Path, query) {
			return &c.records[i], true
		}
	}
	for i := range c.records {
		for _, alias := range c.records[i].Aliases {
			if matchPath(alias, query) {
				return &c.records[i], true
			}
		}
	}
	return nil, false
}

func matchPath(path []string, query string) bool {
	if strings.Contains(query, ".") {
		return strings.Join(path, ".") == query
	}
	return len(path) == 2 && path[1] == query
}
