package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FunctionRecord is one candidate function. Records are never modified after
// decoding.
type FunctionRecord struct {
	Path        []string
	Aliases     [][]string
	Signature   string
	PrimopArgs  []string // nil when the record carries no primop metadata
	Description string
}

// Name returns the dotted path, e.g. "lib.strings.removeSuffix".
func (r *FunctionRecord) Name() string {
	return strings.Join(r.Path, ".")
}

// AliasNames returns every alias as a dotted path.
func (r *FunctionRecord) AliasNames() []string {
	names := make([]string, 0, len(r.Aliases))
	for _, a := range r.Aliases {
		names = append(names, strings.Join(a, "."))
	}
	return names
}

// rawFunction mirrors one entry of the nixpkgs documentation dump.
type rawFunction struct {
	Meta    rawMeta     `json:"meta"`
	Content *rawContent `json:"content"`
}

type rawMeta struct {
	Path       []string       `json:"path" validate:"required,min=1,dive,required"`
	Aliases    [][]string     `json:"aliases" validate:"omitempty,dive,min=1,dive,required"`
	Signature  *string        `json:"signature"`
	IsPrimop   *bool          `json:"is_primop"`
	PrimopMeta *rawPrimopMeta `json:"primop_meta"`
}

type rawPrimopMeta struct {
	Args []string `json:"args"`
}

type rawContent struct {
	Content *string `json:"content"`
}

var validate = validator.New()

// DecodeError reports a catalog document that could not be decoded at all.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeFunctions decodes the function dump. Entries that fail schema
// validation are dropped and counted in skipped; only a malformed document
// is an error.
func DecodeFunctions(data []byte) (records []FunctionRecord, skipped int, err error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, 0, &DecodeError{Source: "functions", Err: err}
	}

	records = make([]FunctionRecord, 0, len(raws))
	for _, msg := range raws {
		var raw rawFunction
		if err := json.Unmarshal(msg, &raw); err != nil {
			skipped++
			continue
		}
		if err := validate.Struct(raw); err != nil {
			skipped++
			continue
		}
		records = append(records, raw.record())
	}
	return records, skipped, nil
}

func (raw rawFunction) record() FunctionRecord {
	rec := FunctionRecord{
		Path:    raw.Meta.Path,
		Aliases: raw.Meta.Aliases,
	}
	if raw.Meta.Signature != nil {
		rec.Signature = *raw.Meta.Signature
	}
	if pm := raw.Meta.PrimopMeta; pm != nil && pm.Args != nil {
		rec.PrimopArgs = pm.Args
	}
	if raw.Content != nil && raw.Content.Content != nil {
		rec.Description = *raw.Content.Content
	}
	return rec
}

// BuiltinTypes maps a builtins.* name to its signature text.
type BuiltinTypes map[string]string

// DecodeBuiltinTypes decodes the builtin type table, an object of
// name -> {"fn_type": "..."}. Entries without a string fn_type are skipped.
func DecodeBuiltinTypes(data []byte) (BuiltinTypes, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Source: "builtin types", Err: err}
	}

	types := make(BuiltinTypes, len(raw))
	for name, msg := range raw {
		var entry struct {
			FnType *string `json:"fn_type"`
		}
		if err := json.Unmarshal(msg, &entry); err != nil || entry.FnType == nil {
			continue
		}
		types[name] = *entry.FnType
	}
	return types, nil
}

// IsDecodeError reports whether err came from a malformed catalog document.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
