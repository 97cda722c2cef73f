// Package lockfile persists a player's progress for the day's game next to
// a detached HMAC tag, so hand edits are detected and discarded.
package lockfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gowebpki/jcs"

	"github.com/joss/nixdle/internal/logging"
)

const (
	DefaultPath            = "/tmp/nixdle.lock"
	DefaultSignatureSuffix = ".sig"
)

// Record is the progress of one player in one daily session.
type Record struct {
	Date      string   `json:"date"`
	Success   bool     `json:"success"`
	Attempts  int      `json:"attempts"`
	Attempted []string `json:"attempted"`
	Version   string   `json:"version"`
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{Attempted: []string{}}
}

// Push records one evaluated guess.
func (r *Record) Push(guess string) {
	r.Attempted = append(r.Attempted, guess)
	r.Attempts = len(r.Attempted)
}

func (r *Record) valid() bool {
	return r.Attempts >= 0 && r.Attempts == len(r.Attempted)
}

// DeriveKey binds a record to one daily session.
func DeriveKey(date, version, commit string) []byte {
	return []byte(date + version + commit)
}

// Store reads and writes a record and its tag.
type Store struct {
	path    string
	sigPath string
	log     *logging.Logger
}

// New returns a store writing the record to path and the tag to sigPath.
// An empty sigPath means path + ".sig".
func New(path, sigPath string) *Store {
	if sigPath == "" {
		sigPath = path + DefaultSignatureSuffix
	}
	return &Store{
		path:    path,
		sigPath: sigPath,
		log:     logging.New("lockfile"),
	}
}

// Path returns the record file path.
func (s *Store) Path() string {
	return s.path
}

// SignaturePath returns the tag file path.
func (s *Store) SignaturePath() string {
	return s.sigPath
}

// Open returns the saved record if its tag verifies under key. Any problem
// yields a fresh record instead of an error.
func (s *Store) Open(key []byte) *Record {
	rec, err := s.load(key)
	if err != nil {
		s.log.Debug("lockfile_reset", map[string]interface{}{
			"path":   s.path,
			"reason": err.Error(),
		})
		return NewRecord()
	}
	return rec
}

var (
	errMissing = errors.New("no saved progress")
	errTag     = errors.New("signature mismatch")
	errInvalid = errors.New("attempt count does not match attempted guesses")
)

func (s *Store) load(key []byte) (*Record, error) {
	content, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errMissing
	}
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	tag, err := os.ReadFile(s.sigPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errMissing
	}
	if err != nil {
		return nil, fmt.Errorf("read signature: %w", err)
	}

	if !Verify(key, content, tag) {
		return nil, errTag
	}

	rec := NewRecord()
	if err := json.Unmarshal(content, rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if rec.Attempted == nil {
		rec.Attempted = []string{}
	}
	if !rec.valid() {
		return nil, errInvalid
	}
	return rec, nil
}

// Save writes rec and its tag under key, replacing earlier versions.
func (s *Store) Save(rec *Record, key []byte) error {
	content, err := Canonical(rec)
	if err != nil {
		return err
	}
	tag := Sign(key, content)

	if err := writeFile(s.path, content); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := writeFile(s.sigPath, tag); err != nil {
		return fmt.Errorf("write signature: %w", err)
	}
	return nil
}

// Reset removes the record and its tag.
func (s *Store) Reset() error {
	for _, p := range []string{s.path, s.sigPath} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}

// Canonical serializes rec as RFC 8785 JSON, the exact bytes that get signed.
func Canonical(rec *Record) ([]byte, error) {
	out := *rec
	if out.Attempted == nil {
		out.Attempted = []string{}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	data, err = jcs.Transform(data)
	if err != nil {
		return nil, fmt.Errorf("canonicalize record: %w", err)
	}
	return data, nil
}

// writeFile replaces path through a temp file and rename.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
