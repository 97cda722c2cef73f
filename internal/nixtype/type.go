// Package nixtype models the small set of Nix types the game compares and
// parses them out of free-form documentation signatures.
package nixtype

import (
	"strings"
)

// Kind identifies a Type variant.
type Kind int

const (
	Any Kind = iota
	Attrset
	Bool
	Float
	Int
	Never
	Path
	String
	List
)

var kindNames = map[Kind]string{
	Any:     "any",
	Attrset: "attrset",
	Bool:    "bool",
	Float:   "float",
	Int:     "int",
	Never:   "never",
	Path:    "path",
	String:  "string",
}

// Type is a Nix type. Only List carries an element type.
type Type struct {
	Kind Kind
	Elem *Type
}

// Of returns the primitive type of kind k.
func Of(k Kind) Type {
	return Type{Kind: k}
}

// ListOf returns a list whose elements are of type elem.
func ListOf(elem Type) Type {
	return Type{Kind: List, Elem: &elem}
}

// Equal reports structural equality.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind != List {
		return true
	}
	if t.Elem == nil || o.Elem == nil {
		return t.Elem == o.Elem
	}
	return t.Elem.Equal(*o.Elem)
}

func (t Type) String() string {
	if t.Kind == List {
		if t.Elem == nil {
			return "[]"
		}
		return "[" + t.Elem.String() + "]"
	}
	return kindNames[t.Kind]
}

// Parse classifies a single type token. Anything outside the observed
// shapes is rejected.
func Parse(token string) (Type, bool) {
	s := strings.ToLower(strings.TrimSpace(token))
	for k, name := range kindNames {
		if s == name {
			return Of(k), true
		}
	}

	switch {
	case strings.HasPrefix(s, "{") || strings.HasSuffix(s, "}"):
		return Of(Attrset), true
	case len(s) >= 2 && strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		elem, ok := Parse(s[1 : len(s)-1])
		if !ok {
			return Type{}, false
		}
		return ListOf(elem), true
	}
	return Type{}, false
}

// ParseSignature extracts the (input, output) pair from a signature such as
// "replaceStrings :: [String] -> [String] -> String -> String". A curried
// chain collapses to its first and last declared types.
func ParseSignature(sig string) (input, output Type, ok bool) {
	parts, ok := arrowParts(sig)
	if !ok || len(parts) < 2 {
		return Type{}, Type{}, false
	}

	input, ok = Parse(parts[0])
	if !ok {
		return Type{}, Type{}, false
	}
	output, ok = Parse(parts[len(parts)-1])
	if !ok {
		return Type{}, Type{}, false
	}
	return input, output, true
}

// SignatureArgCount counts the arrows of a signature's right-hand side.
// It returns 0 when the signature has no "::".
func SignatureArgCount(sig string) int {
	parts, ok := arrowParts(sig)
	if !ok {
		return 0
	}
	return len(parts) - 1
}

func arrowParts(sig string) ([]string, bool) {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(sig)), " ", "")
	_, rhs, found := strings.Cut(s, "::")
	if !found {
		return nil, false
	}

	parts := strings.Split(rhs, "->")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, true
}
