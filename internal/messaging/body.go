package messaging

import (
	"encoding/json"
	"errors"
	"fmt"

	"claimwire/internal/domain"
)

// ErrUnknownKind reports a body tag outside the closed variant set.
var ErrUnknownKind = errors.New("messaging: unknown message kind")

// BodyType tags a message body with the protocol step it represents. The
// tag alone determines the content shape; no two kinds share a tag and the
// codec never inspects content structure to pick a kind.
type BodyType string

const (
	// Terms negotiation.
	TypeRequestTerms BodyType = "request-terms"
	TypeSubmitTerms  BodyType = "submit-terms"
	TypeRejectTerms  BodyType = "reject-terms"

	// Attestation issuance.
	TypeInitiateAttestation        BodyType = "initiate-attestation"
	TypeRequestAttestationForClaim BodyType = "request-attestation-for-claim"
	TypeSubmitAttestationForClaim  BodyType = "submit-attestation-for-claim"
	TypeRejectAttestationForClaim  BodyType = "reject-attestation-for-claim"

	// Claim presentation. Submission has two encodings distinguished only
	// by tag: the classic credential list and the privacy-enhanced combined
	// presentation.
	TypeRequestClaimsForCTypes       BodyType = "request-claims-for-ctypes"
	TypeSubmitClaimsForCTypesClassic BodyType = "submit-claims-for-ctypes-classic"
	TypeSubmitClaimsForCTypesPE      BodyType = "submit-claims-for-ctypes-pe"
	TypeAcceptClaimsForCTypes        BodyType = "accept-claims-for-ctypes"
	TypeRejectClaimsForCTypes        BodyType = "reject-claims-for-ctypes"

	// Delegation approval.
	TypeRequestAcceptDelegation BodyType = "request-accept-delegation"
	TypeSubmitAcceptDelegation  BodyType = "submit-accept-delegation"
	TypeRejectAcceptDelegation  BodyType = "reject-accept-delegation"
	TypeInformCreateDelegation  BodyType = "inform-create-delegation"
)

// Body is one protocol step's payload. The unexported method closes the
// variant set, so the codec can dispatch exhaustively and reject anything
// else as ErrUnknownKind.
type Body interface {
	Type() BodyType
	content() any
}

// RequestTerms opens a terms negotiation with a claim template.
type RequestTerms struct {
	Content domain.PartialClaim
}

// SubmitTerms answers a terms request with an offer sheet.
type SubmitTerms struct {
	Content domain.Terms
}

// RejectTerms declines an offer sheet.
type RejectTerms struct {
	Content domain.Terms
}

// InitiateAttestation opens a privacy-enhanced attestation session.
type InitiateAttestation struct {
	Content domain.AttestationSession
}

// RequestAttestationForClaim petitions an attester with a signed request.
// The request's claim owner must equal the envelope sender.
type RequestAttestationForClaim struct {
	Content domain.RequestForAttestation
}

// SubmitAttestationForClaim delivers the finished attestation. The
// attestation owner must equal the envelope sender.
type SubmitAttestationForClaim struct {
	Content domain.Attestation
}

// RejectAttestationForClaim returns a request the attester refused.
type RejectAttestationForClaim struct {
	Content domain.RequestForAttestation
}

// RequestClaimsForCTypes asks a claimer to present claims.
type RequestClaimsForCTypes struct {
	Content domain.CTypeRequest
}

// SubmitClaimsForCTypesClassic presents credentials as a plain list, order
// preserved. Every contained claim owner must equal the envelope sender.
type SubmitClaimsForCTypesClassic struct {
	Content []domain.AttestedClaim
}

// SubmitClaimsForCTypesPE presents a privacy-enhanced combined
// presentation.
type SubmitClaimsForCTypesPE struct {
	Content domain.CombinedPresentation
}

// AcceptClaimsForCTypes acknowledges presented claims by root hash.
type AcceptClaimsForCTypes struct {
	Content []domain.Hash
}

// RejectClaimsForCTypes refuses presented claims by root hash.
type RejectClaimsForCTypes struct {
	Content []domain.Hash
}

// RequestAcceptDelegation invites the receiver into a delegation.
type RequestAcceptDelegation struct {
	Content domain.DelegationProposal
}

// SubmitAcceptDelegation returns the countersigned invitation.
type SubmitAcceptDelegation struct {
	Content domain.DelegationApproval
}

// RejectAcceptDelegation declines a delegation invitation.
type RejectAcceptDelegation struct {
	Content domain.DelegationData
}

// InformCreateDelegation notifies the invitee that the node was created.
type InformCreateDelegation struct {
	Content domain.DelegationCreated
}

func (b RequestTerms) Type() BodyType { return TypeRequestTerms }
func (b RequestTerms) content() any   { return b.Content }

func (b SubmitTerms) Type() BodyType { return TypeSubmitTerms }
func (b SubmitTerms) content() any   { return b.Content }

func (b RejectTerms) Type() BodyType { return TypeRejectTerms }
func (b RejectTerms) content() any   { return b.Content }

func (b InitiateAttestation) Type() BodyType { return TypeInitiateAttestation }
func (b InitiateAttestation) content() any   { return b.Content }

func (b RequestAttestationForClaim) Type() BodyType { return TypeRequestAttestationForClaim }
func (b RequestAttestationForClaim) content() any   { return b.Content }

func (b SubmitAttestationForClaim) Type() BodyType { return TypeSubmitAttestationForClaim }
func (b SubmitAttestationForClaim) content() any   { return b.Content }

func (b RejectAttestationForClaim) Type() BodyType { return TypeRejectAttestationForClaim }
func (b RejectAttestationForClaim) content() any   { return b.Content }

func (b RequestClaimsForCTypes) Type() BodyType { return TypeRequestClaimsForCTypes }
func (b RequestClaimsForCTypes) content() any   { return b.Content }

func (b SubmitClaimsForCTypesClassic) Type() BodyType { return TypeSubmitClaimsForCTypesClassic }
func (b SubmitClaimsForCTypesClassic) content() any   { return b.Content }

func (b SubmitClaimsForCTypesPE) Type() BodyType { return TypeSubmitClaimsForCTypesPE }
func (b SubmitClaimsForCTypesPE) content() any   { return b.Content }

func (b AcceptClaimsForCTypes) Type() BodyType { return TypeAcceptClaimsForCTypes }
func (b AcceptClaimsForCTypes) content() any   { return b.Content }

func (b RejectClaimsForCTypes) Type() BodyType { return TypeRejectClaimsForCTypes }
func (b RejectClaimsForCTypes) content() any   { return b.Content }

func (b RequestAcceptDelegation) Type() BodyType { return TypeRequestAcceptDelegation }
func (b RequestAcceptDelegation) content() any   { return b.Content }

func (b SubmitAcceptDelegation) Type() BodyType { return TypeSubmitAcceptDelegation }
func (b SubmitAcceptDelegation) content() any   { return b.Content }

func (b RejectAcceptDelegation) Type() BodyType { return TypeRejectAcceptDelegation }
func (b RejectAcceptDelegation) content() any   { return b.Content }

func (b InformCreateDelegation) Type() BodyType { return TypeInformCreateDelegation }
func (b InformCreateDelegation) content() any   { return b.Content }

// MarshalBody renders the structured wire form {"type": ..., "content": ...}.
func MarshalBody(b Body) ([]byte, error) {
	return json.Marshal(struct {
		Type    BodyType `json:"type"`
		Content any      `json:"content"`
	}{b.Type(), b.content()})
}

// ParseBody decodes the structured wire form into its typed variant.
func ParseBody(data []byte) (Body, error) {
	var probe struct {
		Type    BodyType        `json:"type"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}
	if probe.Type == "" {
		return nil, fmt.Errorf("%w: missing type tag", ErrUnknownKind)
	}
	if len(probe.Content) == 0 {
		probe.Content = json.RawMessage("null")
	}
	return parseContent(probe.Type, probe.Content)
}

func parseContent(kind BodyType, raw json.RawMessage) (Body, error) {
	badContent := func(err error) error {
		return fmt.Errorf("body %s: content: %v", kind, err)
	}
	switch kind {
	case TypeRequestTerms:
		var c domain.PartialClaim
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, badContent(err)
		}
		return RequestTerms{Content: c}, nil
	case TypeSubmitTerms:
		var c domain.Terms
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, badContent(err)
		}
		return SubmitTerms{Content: c}, nil
	case TypeRejectTerms:
		var c domain.Terms
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, badContent(err)
		}
		return RejectTerms{Content: c}, nil
	case TypeInitiateAttestation:
		var c domain.AttestationSession
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, badContent(err)
		}
		return InitiateAttestation{Content: c}, nil
	case TypeRequestAttestationForClaim:
		var c domain.RequestForAttestation
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, badContent(err)
		}
		return RequestAttestationForClaim{Content: c}, nil
	case TypeSubmitAttestationForClaim:
		var c domain.Attestation
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, badContent(err)
		}
		return SubmitAttestationForClaim{Content: c}, nil
	case TypeRejectAttestationForClaim:
		var c domain.RequestForAttestation
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, badContent(err)
		}
		return RejectAttestationForClaim{Content: c}, nil
	case TypeRequestClaimsForCTypes:
		var c domain.CTypeRequest
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, badContent(err)
		}
		return RequestClaimsForCTypes{Content: c}, nil
	case TypeSubmitClaimsForCTypesClassic:
		var c []domain.AttestedClaim
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, badContent(err)
		}
		return SubmitClaimsForCTypesClassic{Content: c}, nil
	case TypeSubmitClaimsForCTypesPE:
		var c domain.CombinedPresentation
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, badContent(err)
		}
		return SubmitClaimsForCTypesPE{Content: c}, nil
	case TypeAcceptClaimsForCTypes:
		var c []domain.Hash
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, badContent(err)
		}
		return AcceptClaimsForCTypes{Content: c}, nil
	case TypeRejectClaimsForCTypes:
		var c []domain.Hash
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, badContent(err)
		}
		return RejectClaimsForCTypes{Content: c}, nil
	case TypeRequestAcceptDelegation:
		var c domain.DelegationProposal
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, badContent(err)
		}
		return RequestAcceptDelegation{Content: c}, nil
	case TypeSubmitAcceptDelegation:
		var c domain.DelegationApproval
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, badContent(err)
		}
		return SubmitAcceptDelegation{Content: c}, nil
	case TypeRejectAcceptDelegation:
		var c domain.DelegationData
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, badContent(err)
		}
		return RejectAcceptDelegation{Content: c}, nil
	case TypeInformCreateDelegation:
		var c domain.DelegationCreated
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, badContent(err)
		}
		return InformCreateDelegation{Content: c}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
