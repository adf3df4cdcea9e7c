package ctype_test

import (
	"errors"
	"testing"

	"claimwire/internal/ctype"
)

func driversLicence(t *testing.T) ctype.CType {
	t.Helper()
	ct, err := ctype.New("DriversLicence", map[string]ctype.Kind{
		"name": ctype.KindString,
		"age":  ctype.KindNumber,
		"full": ctype.KindBoolean,
	})
	if err != nil {
		t.Fatalf("ctype.New: %v", err)
	}
	return ct
}

func TestNew_HashIsStableAcrossPropertyOrder(t *testing.T) {
	a, err := ctype.New("DriversLicence", map[string]ctype.Kind{
		"name": ctype.KindString,
		"age":  ctype.KindNumber,
	})
	if err != nil {
		t.Fatalf("ctype.New: %v", err)
	}
	b, err := ctype.New("DriversLicence", map[string]ctype.Kind{
		"age":  ctype.KindNumber,
		"name": ctype.KindString,
	})
	if err != nil {
		t.Fatalf("ctype.New: %v", err)
	}
	if a.Hash != b.Hash {
		t.Fatalf("hash differs across property order: %s vs %s", a.Hash, b.Hash)
	}
	if !a.Hash.Valid() {
		t.Fatalf("schema hash %q is not well formed", a.Hash)
	}
}

func TestNew_RejectsBadSchemas(t *testing.T) {
	if _, err := ctype.New("", map[string]ctype.Kind{"a": ctype.KindString}); !errors.Is(err, ctype.ErrSchema) {
		t.Fatalf("empty title: want ErrSchema, got %v", err)
	}
	if _, err := ctype.New("T", nil); !errors.Is(err, ctype.ErrSchema) {
		t.Fatalf("no properties: want ErrSchema, got %v", err)
	}
	if _, err := ctype.New("T", map[string]ctype.Kind{"a": "blob"}); !errors.Is(err, ctype.ErrSchema) {
		t.Fatalf("unknown kind: want ErrSchema, got %v", err)
	}
}

func TestVerify(t *testing.T) {
	ct := driversLicence(t)

	ok := map[string]any{"name": "Alice", "age": 29, "full": true}
	if err := ct.Verify(ok); err != nil {
		t.Fatalf("Verify(valid): %v", err)
	}

	// Absent properties are fine; that is how partial claims pass.
	if err := ct.Verify(map[string]any{"name": "Alice"}); err != nil {
		t.Fatalf("Verify(subset): %v", err)
	}

	if err := ct.Verify(map[string]any{"nickname": "Al"}); !errors.Is(err, ctype.ErrContents) {
		t.Fatalf("unknown property: want ErrContents, got %v", err)
	}
	if err := ct.Verify(map[string]any{"age": "29"}); !errors.Is(err, ctype.ErrContents) {
		t.Fatalf("kind mismatch: want ErrContents, got %v", err)
	}
	if err := ct.Verify(map[string]any{"full": "yes"}); !errors.Is(err, ctype.ErrContents) {
		t.Fatalf("bool mismatch: want ErrContents, got %v", err)
	}
}

func TestVerify_NumberShapes(t *testing.T) {
	ct := driversLicence(t)
	// Contents arrive either from Go callers (int) or from decoded JSON (float64).
	for _, v := range []any{29, int64(29), 29.0} {
		if err := ct.Verify(map[string]any{"age": v}); err != nil {
			t.Fatalf("Verify(age=%T): %v", v, err)
		}
	}
}
