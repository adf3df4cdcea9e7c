package compress

import (
	"encoding/json"
	"errors"
	"fmt"

	"claimwire/internal/domain"
)

var (
	// ErrMalformedRecord reports a record refusing compression because a
	// required field is absent or ill-formed.
	ErrMalformedRecord = errors.New("compress: malformed record")

	// ErrArrayShape reports a compact tuple whose arity or element types do
	// not match the record being decompressed.
	ErrArrayShape = errors.New("compress: array shape mismatch")
)

// tuple parses data as a JSON array of exactly arity elements.
func tuple(record string, data []byte, arity int) ([]json.RawMessage, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("%w: %s: not an array", ErrArrayShape, record)
	}
	if len(elems) != arity {
		return nil, fmt.Errorf("%w: %s: want %d elements, got %d", ErrArrayShape, record, arity, len(elems))
	}
	return elems, nil
}

// element decodes one tuple position, attributing failures to the record and
// field. Errors from nested compact types pass through already attributed.
func element(record, field string, raw json.RawMessage, into any) error {
	if err := json.Unmarshal(raw, into); err != nil {
		if errors.Is(err, ErrArrayShape) || errors.Is(err, ErrMalformedRecord) {
			return err
		}
		return fmt.Errorf("%w: %s: %s", ErrArrayShape, record, field)
	}
	return nil
}

func missing(record, field string) error {
	return fmt.Errorf("%w: %s: missing %s", ErrMalformedRecord, record, field)
}

func invalid(record, field string) error {
	return fmt.Errorf("%w: %s: invalid %s", ErrMalformedRecord, record, field)
}

func requireHash(record, field string, h domain.Hash) error {
	if h == "" {
		return missing(record, field)
	}
	if !h.Valid() {
		return invalid(record, field)
	}
	return nil
}

func requireAddress(record, field string, a domain.Address) error {
	if a == "" {
		return missing(record, field)
	}
	if !a.Valid() {
		return invalid(record, field)
	}
	return nil
}

func requireSignature(record, field string, s domain.Signature) error {
	if s == "" {
		return missing(record, field)
	}
	if !s.Valid() {
		return invalid(record, field)
	}
	return nil
}

// optionalHash enforces that a nullable hash field is either absent or well
// formed. Used for delegation ids, which must never be carried malformed.
func optionalHash(record, field string, h *domain.Hash, sentinel error) error {
	if h != nil && !h.Valid() {
		return fmt.Errorf("%w: %s: %s is not a hash", sentinel, record, field)
	}
	return nil
}
