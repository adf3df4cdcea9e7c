package messaging

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"claimwire/internal/compress"
	"claimwire/internal/domain"
)

// CompressBody renders a body as its compact wire pair [kindTag, content].
// The content tuple is produced by the record codec matching the kind, so
// every record-level validation applies here too.
func CompressBody(b Body) ([]byte, error) {
	content, err := compactContent(b)
	if err != nil {
		return nil, err
	}
	return json.Marshal([]any{b.Type(), content})
}

func compactContent(b Body) (any, error) {
	switch v := b.(type) {
	case RequestTerms:
		return compress.CompressPartialClaim(v.Content)
	case SubmitTerms:
		return compress.CompressTerms(v.Content)
	case RejectTerms:
		return compress.CompressTerms(v.Content)
	case InitiateAttestation:
		return compress.CompressAttestationSession(v.Content)
	case RequestAttestationForClaim:
		return compress.CompressRequestForAttestation(v.Content)
	case SubmitAttestationForClaim:
		return compress.CompressAttestation(v.Content)
	case RejectAttestationForClaim:
		return compress.CompressRequestForAttestation(v.Content)
	case RequestClaimsForCTypes:
		return compress.CompressCTypeRequest(v.Content)
	case SubmitClaimsForCTypesClassic:
		out := make([]compress.AttestedClaim, len(v.Content))
		for i, ac := range v.Content {
			cc, err := compress.CompressAttestedClaim(ac)
			if err != nil {
				return nil, err
			}
			out[i] = cc
		}
		return out, nil
	case SubmitClaimsForCTypesPE:
		return compress.CompressCombinedPresentation(v.Content)
	case AcceptClaimsForCTypes:
		return hashList(v.Type(), v.Content)
	case RejectClaimsForCTypes:
		return hashList(v.Type(), v.Content)
	case RequestAcceptDelegation:
		return compress.CompressDelegationProposal(v.Content)
	case SubmitAcceptDelegation:
		return compress.CompressDelegationApproval(v.Content)
	case RejectAcceptDelegation:
		return compress.CompressDelegationData(v.Content)
	case InformCreateDelegation:
		return compress.CompressDelegationCreated(v.Content)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownKind, b)
	}
}

func hashList(kind BodyType, hashes []domain.Hash) (any, error) {
	for _, h := range hashes {
		if !h.Valid() {
			return nil, fmt.Errorf("%w: %s: invalid hash %q", compress.ErrMalformedRecord, kind, h)
		}
	}
	if hashes == nil {
		return []domain.Hash{}, nil
	}
	return hashes, nil
}

// DecompressBody parses a compact wire pair back into its typed variant.
// The kind tag alone selects the content codec; content structure is never
// sniffed, so a classic credential list under the privacy-enhanced tag (or
// the reverse) fails on shape rather than being reinterpreted.
func DecompressBody(data []byte) (Body, error) {
	kind, content, err := splitCompact(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case TypeRequestTerms:
		c, err := compress.DecompressPartialClaim(content)
		if err != nil {
			return nil, err
		}
		return RequestTerms{Content: c}, nil
	case TypeSubmitTerms:
		c, err := compress.DecompressTerms(content)
		if err != nil {
			return nil, err
		}
		return SubmitTerms{Content: c}, nil
	case TypeRejectTerms:
		c, err := compress.DecompressTerms(content)
		if err != nil {
			return nil, err
		}
		return RejectTerms{Content: c}, nil
	case TypeInitiateAttestation:
		c, err := compress.DecompressAttestationSession(content)
		if err != nil {
			return nil, err
		}
		return InitiateAttestation{Content: c}, nil
	case TypeRequestAttestationForClaim:
		c, err := compress.DecompressRequestForAttestation(content)
		if err != nil {
			return nil, err
		}
		return RequestAttestationForClaim{Content: c}, nil
	case TypeSubmitAttestationForClaim:
		c, err := compress.DecompressAttestation(content)
		if err != nil {
			return nil, err
		}
		return SubmitAttestationForClaim{Content: c}, nil
	case TypeRejectAttestationForClaim:
		c, err := compress.DecompressRequestForAttestation(content)
		if err != nil {
			return nil, err
		}
		return RejectAttestationForClaim{Content: c}, nil
	case TypeRequestClaimsForCTypes:
		c, err := compress.DecompressCTypeRequest(content)
		if err != nil {
			return nil, err
		}
		return RequestClaimsForCTypes{Content: c}, nil
	case TypeSubmitClaimsForCTypesClassic:
		var ccs []compress.AttestedClaim
		if err := json.Unmarshal(content, &ccs); err != nil {
			if errors.Is(err, compress.ErrArrayShape) || errors.Is(err, compress.ErrMalformedRecord) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %s: not a credential list", compress.ErrArrayShape, kind)
		}
		out := make([]domain.AttestedClaim, len(ccs))
		for i, cc := range ccs {
			out[i] = domain.AttestedClaim(cc)
		}
		return SubmitClaimsForCTypesClassic{Content: out}, nil
	case TypeSubmitClaimsForCTypesPE:
		c, err := compress.DecompressCombinedPresentation(content)
		if err != nil {
			return nil, err
		}
		return SubmitClaimsForCTypesPE{Content: c}, nil
	case TypeAcceptClaimsForCTypes:
		c, err := decompressHashList(kind, content)
		if err != nil {
			return nil, err
		}
		return AcceptClaimsForCTypes{Content: c}, nil
	case TypeRejectClaimsForCTypes:
		c, err := decompressHashList(kind, content)
		if err != nil {
			return nil, err
		}
		return RejectClaimsForCTypes{Content: c}, nil
	case TypeRequestAcceptDelegation:
		c, err := compress.DecompressDelegationProposal(content)
		if err != nil {
			return nil, err
		}
		return RequestAcceptDelegation{Content: c}, nil
	case TypeSubmitAcceptDelegation:
		c, err := compress.DecompressDelegationApproval(content)
		if err != nil {
			return nil, err
		}
		return SubmitAcceptDelegation{Content: c}, nil
	case TypeRejectAcceptDelegation:
		c, err := compress.DecompressDelegationData(content)
		if err != nil {
			return nil, err
		}
		return RejectAcceptDelegation{Content: c}, nil
	case TypeInformCreateDelegation:
		c, err := compress.DecompressDelegationCreated(content)
		if err != nil {
			return nil, err
		}
		return InformCreateDelegation{Content: c}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func splitCompact(data []byte) (BodyType, json.RawMessage, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return "", nil, fmt.Errorf("%w: body: not an array", compress.ErrArrayShape)
	}
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("%w: body: want [kind, content], got %d elements", compress.ErrArrayShape, len(parts))
	}
	var kind BodyType
	if err := json.Unmarshal(parts[0], &kind); err != nil {
		return "", nil, fmt.Errorf("%w: tag is not a string", ErrUnknownKind)
	}
	return kind, parts[1], nil
}

func decompressHashList(kind BodyType, raw json.RawMessage) ([]domain.Hash, error) {
	var hashes []domain.Hash
	if err := json.Unmarshal(raw, &hashes); err != nil {
		return nil, fmt.Errorf("%w: %s: not a hash list", compress.ErrArrayShape, kind)
	}
	for _, h := range hashes {
		if !h.Valid() {
			return nil, fmt.Errorf("%w: %s: invalid hash %q", compress.ErrArrayShape, kind, h)
		}
	}
	return hashes, nil
}

// IsCompact reports whether raw carries the compact pair form. Structured
// bodies are JSON objects, compact ones arrays, so the container type
// decides.
func IsCompact(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// ParseAnyBody accepts a body in either wire form.
func ParseAnyBody(raw []byte) (Body, error) {
	if IsCompact(raw) {
		return DecompressBody(raw)
	}
	return ParseBody(raw)
}
