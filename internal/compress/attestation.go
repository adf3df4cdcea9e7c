package compress

import (
	"encoding/json"

	"claimwire/internal/domain"
)

// Attestation is the compact form of an attestation:
// [claimHash, cTypeHash, owner, revoked, delegationId|null].
//
// Revoked is a required position; false is a legitimate value, never
// "absent".
type Attestation domain.Attestation

// CompressAttestation validates required fields and returns the compact
// form.
func CompressAttestation(a domain.Attestation) (Attestation, error) {
	if err := requireHash("Attestation", "claimHash", a.ClaimHash); err != nil {
		return Attestation{}, err
	}
	if err := requireHash("Attestation", "cTypeHash", a.CTypeHash); err != nil {
		return Attestation{}, err
	}
	if err := requireAddress("Attestation", "owner", a.Owner); err != nil {
		return Attestation{}, err
	}
	if err := optionalHash("Attestation", "delegationId", a.DelegationID, ErrMalformedRecord); err != nil {
		return Attestation{}, err
	}
	return Attestation(a), nil
}

// DecompressAttestation parses a compact attestation tuple.
func DecompressAttestation(data []byte) (domain.Attestation, error) {
	var a Attestation
	if err := json.Unmarshal(data, &a); err != nil {
		return domain.Attestation{}, err
	}
	return domain.Attestation(a), nil
}

func (a Attestation) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{a.ClaimHash, a.CTypeHash, a.Owner, a.Revoked, a.DelegationID})
}

func (a *Attestation) UnmarshalJSON(data []byte) error {
	elems, err := tuple("Attestation", data, 5)
	if err != nil {
		return err
	}
	if err := element("Attestation", "claimHash", elems[0], &a.ClaimHash); err != nil {
		return err
	}
	if err := element("Attestation", "cTypeHash", elems[1], &a.CTypeHash); err != nil {
		return err
	}
	if err := element("Attestation", "owner", elems[2], &a.Owner); err != nil {
		return err
	}
	if err := element("Attestation", "revoked", elems[3], &a.Revoked); err != nil {
		return err
	}
	if err := element("Attestation", "delegationId", elems[4], &a.DelegationID); err != nil {
		return err
	}
	return optionalHash("Attestation", "delegationId", a.DelegationID, ErrArrayShape)
}

// RequestForAttestation is the compact form of a claimer's petition:
// [claim, legitimations, delegationId|null, rootHash, claimerSignature].
type RequestForAttestation domain.RequestForAttestation

// CompressRequestForAttestation validates the request and its nested records
// and returns the compact form.
func CompressRequestForAttestation(r domain.RequestForAttestation) (RequestForAttestation, error) {
	if _, err := CompressClaim(r.Claim); err != nil {
		return RequestForAttestation{}, err
	}
	for _, leg := range r.Legitimations {
		if _, err := CompressAttestedClaim(leg); err != nil {
			return RequestForAttestation{}, err
		}
	}
	if err := optionalHash("RequestForAttestation", "delegationId", r.DelegationID, ErrMalformedRecord); err != nil {
		return RequestForAttestation{}, err
	}
	if err := requireHash("RequestForAttestation", "rootHash", r.RootHash); err != nil {
		return RequestForAttestation{}, err
	}
	if err := requireSignature("RequestForAttestation", "claimerSignature", r.ClaimerSignature); err != nil {
		return RequestForAttestation{}, err
	}
	return RequestForAttestation(r), nil
}

// DecompressRequestForAttestation parses a compact request tuple.
func DecompressRequestForAttestation(data []byte) (domain.RequestForAttestation, error) {
	var r RequestForAttestation
	if err := json.Unmarshal(data, &r); err != nil {
		return domain.RequestForAttestation{}, err
	}
	return domain.RequestForAttestation(r), nil
}

func (r RequestForAttestation) MarshalJSON() ([]byte, error) {
	legs := make([]AttestedClaim, len(r.Legitimations))
	for i, leg := range r.Legitimations {
		legs[i] = AttestedClaim(leg)
	}
	return json.Marshal([]any{Claim(r.Claim), legs, r.DelegationID, r.RootHash, r.ClaimerSignature})
}

func (r *RequestForAttestation) UnmarshalJSON(data []byte) error {
	elems, err := tuple("RequestForAttestation", data, 5)
	if err != nil {
		return err
	}
	var c Claim
	if err := element("RequestForAttestation", "claim", elems[0], &c); err != nil {
		return err
	}
	r.Claim = domain.Claim(c)

	var legs []AttestedClaim
	if err := element("RequestForAttestation", "legitimations", elems[1], &legs); err != nil {
		return err
	}
	r.Legitimations = make([]domain.AttestedClaim, len(legs))
	for i, leg := range legs {
		r.Legitimations[i] = domain.AttestedClaim(leg)
	}

	if err := element("RequestForAttestation", "delegationId", elems[2], &r.DelegationID); err != nil {
		return err
	}
	if err := optionalHash("RequestForAttestation", "delegationId", r.DelegationID, ErrArrayShape); err != nil {
		return err
	}
	if err := element("RequestForAttestation", "rootHash", elems[3], &r.RootHash); err != nil {
		return err
	}
	return element("RequestForAttestation", "claimerSignature", elems[4], &r.ClaimerSignature)
}

// AttestedClaim is the compact form of a credential:
// [request, attestation].
type AttestedClaim domain.AttestedClaim

// CompressAttestedClaim validates both halves and returns the compact form.
func CompressAttestedClaim(ac domain.AttestedClaim) (AttestedClaim, error) {
	if _, err := CompressRequestForAttestation(ac.Request); err != nil {
		return AttestedClaim{}, err
	}
	if _, err := CompressAttestation(ac.Attestation); err != nil {
		return AttestedClaim{}, err
	}
	return AttestedClaim(ac), nil
}

// DecompressAttestedClaim parses a compact credential tuple.
func DecompressAttestedClaim(data []byte) (domain.AttestedClaim, error) {
	var ac AttestedClaim
	if err := json.Unmarshal(data, &ac); err != nil {
		return domain.AttestedClaim{}, err
	}
	return domain.AttestedClaim(ac), nil
}

func (ac AttestedClaim) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{RequestForAttestation(ac.Request), Attestation(ac.Attestation)})
}

func (ac *AttestedClaim) UnmarshalJSON(data []byte) error {
	elems, err := tuple("AttestedClaim", data, 2)
	if err != nil {
		return err
	}
	var req RequestForAttestation
	if err := element("AttestedClaim", "request", elems[0], &req); err != nil {
		return err
	}
	ac.Request = domain.RequestForAttestation(req)

	var att Attestation
	if err := element("AttestedClaim", "attestation", elems[1], &att); err != nil {
		return err
	}
	ac.Attestation = domain.Attestation(att)
	return nil
}

// AttestationSession is the compact form of a session opener:
// [sessionId, nonce].
type AttestationSession domain.AttestationSession

// CompressAttestationSession validates both tokens and returns the compact
// form.
func CompressAttestationSession(s domain.AttestationSession) (AttestationSession, error) {
	if s.SessionID == "" {
		return AttestationSession{}, missing("AttestationSession", "sessionId")
	}
	if s.Nonce == "" {
		return AttestationSession{}, missing("AttestationSession", "nonce")
	}
	return AttestationSession(s), nil
}

// DecompressAttestationSession parses a compact session tuple.
func DecompressAttestationSession(data []byte) (domain.AttestationSession, error) {
	var s AttestationSession
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.AttestationSession{}, err
	}
	return domain.AttestationSession(s), nil
}

func (s AttestationSession) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.SessionID, s.Nonce})
}

func (s *AttestationSession) UnmarshalJSON(data []byte) error {
	elems, err := tuple("AttestationSession", data, 2)
	if err != nil {
		return err
	}
	if err := element("AttestationSession", "sessionId", elems[0], &s.SessionID); err != nil {
		return err
	}
	return element("AttestationSession", "nonce", elems[1], &s.Nonce)
}
