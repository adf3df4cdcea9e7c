package compress

import (
	"bytes"
	"encoding/json"
	"fmt"

	"claimwire/internal/domain"
)

// CTypeRequest is the compact form of a presentation request:
// [cTypeHashes, allowPE].
type CTypeRequest domain.CTypeRequest

// CompressCTypeRequest validates the requested cTypes and returns the
// compact form.
func CompressCTypeRequest(r domain.CTypeRequest) (CTypeRequest, error) {
	if len(r.CTypeHashes) == 0 {
		return CTypeRequest{}, missing("CTypeRequest", "cTypeHashes")
	}
	for _, h := range r.CTypeHashes {
		if !h.Valid() {
			return CTypeRequest{}, invalid("CTypeRequest", "cTypeHashes")
		}
	}
	return CTypeRequest(r), nil
}

// DecompressCTypeRequest parses a compact presentation request tuple.
func DecompressCTypeRequest(data []byte) (domain.CTypeRequest, error) {
	var r CTypeRequest
	if err := json.Unmarshal(data, &r); err != nil {
		return domain.CTypeRequest{}, err
	}
	return domain.CTypeRequest(r), nil
}

func (r CTypeRequest) MarshalJSON() ([]byte, error) {
	hashes := r.CTypeHashes
	if hashes == nil {
		hashes = []domain.Hash{}
	}
	return json.Marshal([]any{hashes, r.AllowPE})
}

func (r *CTypeRequest) UnmarshalJSON(data []byte) error {
	elems, err := tuple("CTypeRequest", data, 2)
	if err != nil {
		return err
	}
	if err := element("CTypeRequest", "cTypeHashes", elems[0], &r.CTypeHashes); err != nil {
		return err
	}
	return element("CTypeRequest", "allowPE", elems[1], &r.AllowPE)
}

// CombinedPresentation is the compact form of a privacy-enhanced
// presentation: [cTypeHashes, proof].
type CombinedPresentation domain.CombinedPresentation

// CompressCombinedPresentation validates the covered cTypes and the proof
// blob and returns the compact form.
func CompressCombinedPresentation(p domain.CombinedPresentation) (CombinedPresentation, error) {
	if len(p.CTypeHashes) == 0 {
		return CombinedPresentation{}, missing("CombinedPresentation", "cTypeHashes")
	}
	for _, h := range p.CTypeHashes {
		if !h.Valid() {
			return CombinedPresentation{}, invalid("CombinedPresentation", "cTypeHashes")
		}
	}
	if len(p.Proof) == 0 {
		return CombinedPresentation{}, missing("CombinedPresentation", "proof")
	}
	return CombinedPresentation(p), nil
}

// DecompressCombinedPresentation parses a compact presentation tuple.
func DecompressCombinedPresentation(data []byte) (domain.CombinedPresentation, error) {
	var p CombinedPresentation
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.CombinedPresentation{}, err
	}
	return domain.CombinedPresentation(p), nil
}

func (p CombinedPresentation) MarshalJSON() ([]byte, error) {
	hashes := p.CTypeHashes
	if hashes == nil {
		hashes = []domain.Hash{}
	}
	proof := p.Proof
	if len(proof) == 0 {
		proof = json.RawMessage("null")
	}
	return json.Marshal([]any{hashes, proof})
}

func (p *CombinedPresentation) UnmarshalJSON(data []byte) error {
	elems, err := tuple("CombinedPresentation", data, 2)
	if err != nil {
		return err
	}
	if err := element("CombinedPresentation", "cTypeHashes", elems[0], &p.CTypeHashes); err != nil {
		return err
	}
	if bytes.Equal(bytes.TrimSpace(elems[1]), []byte("null")) {
		return fmt.Errorf("%w: CombinedPresentation: missing proof", ErrArrayShape)
	}
	p.Proof = append(json.RawMessage(nil), elems[1]...)
	return nil
}
