package ctype

import (
	"encoding/json"
	"errors"
	"fmt"

	"claimwire/internal/crypto"
	"claimwire/internal/domain"
)

var (
	// ErrSchema reports a malformed schema definition.
	ErrSchema = errors.New("ctype: invalid schema")
	// ErrContents reports claim contents that do not fit the schema.
	ErrContents = errors.New("ctype: contents do not match schema")
)

// Kind is the value type a schema property admits.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
)

// Valid reports whether k is one of the admitted kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindString, KindNumber, KindBoolean:
		return true
	}
	return false
}

// CType is a claim type schema. The hash is derived from the canonical JSON
// of the title and properties, so two parties defining the same schema arrive
// at the same identifier without coordination.
type CType struct {
	Title      string          `json:"title"`
	Properties map[string]Kind `json:"properties"`
	Hash       domain.Hash     `json:"hash"`
}

// New builds a schema and derives its hash.
func New(title string, properties map[string]Kind) (CType, error) {
	if title == "" {
		return CType{}, fmt.Errorf("%w: empty title", ErrSchema)
	}
	if len(properties) == 0 {
		return CType{}, fmt.Errorf("%w: no properties", ErrSchema)
	}
	for name, kind := range properties {
		if name == "" {
			return CType{}, fmt.Errorf("%w: empty property name", ErrSchema)
		}
		if !kind.Valid() {
			return CType{}, fmt.Errorf("%w: property %q has unknown kind %q", ErrSchema, name, kind)
		}
	}

	h, err := HashOf(title, properties)
	if err != nil {
		return CType{}, err
	}
	return CType{Title: title, Properties: properties, Hash: h}, nil
}

// HashOf computes the schema identifier without constructing a CType.
func HashOf(title string, properties map[string]Kind) (domain.Hash, error) {
	return crypto.HashCanonical(map[string]any{
		"title":      title,
		"properties": properties,
	})
}

// Verify checks contents against the schema: every key must be a declared
// property and its value must match the property kind. Absent properties are
// allowed, which is what lets partial claims through.
func (c CType) Verify(contents map[string]any) error {
	for name, value := range contents {
		kind, ok := c.Properties[name]
		if !ok {
			return fmt.Errorf("%w: unknown property %q", ErrContents, name)
		}
		if !kindMatches(kind, value) {
			return fmt.Errorf("%w: property %q is not a %s", ErrContents, name, kind)
		}
	}
	return nil
}

func kindMatches(kind Kind, value any) bool {
	switch kind {
	case KindString:
		_, ok := value.(string)
		return ok
	case KindNumber:
		switch value.(type) {
		case float64, float32, int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64, json.Number:
			return true
		}
		return false
	case KindBoolean:
		_, ok := value.(bool)
		return ok
	}
	return false
}
