package domain

// Attestation is an attester's endorsement of a claim, identified by the
// claim's root hash. DelegationID is set when the attester acts under a
// delegation; it must be either nil or a well-formed hash.
type Attestation struct {
	ClaimHash    Hash    `json:"claimHash"`
	CTypeHash    Hash    `json:"cTypeHash"`
	Owner        Address `json:"owner"`
	Revoked      bool    `json:"revoked"`
	DelegationID *Hash   `json:"delegationId"`
}

// RequestForAttestation is a claimer's signed petition to have a claim
// attested. RootHash commits to the claim and its legitimations;
// ClaimerSignature is the owner's signature over the root hash.
type RequestForAttestation struct {
	Claim            Claim           `json:"claim"`
	Legitimations    []AttestedClaim `json:"legitimations"`
	DelegationID     *Hash           `json:"delegationId"`
	RootHash         Hash            `json:"rootHash"`
	ClaimerSignature Signature       `json:"claimerSignature"`
}

// AttestedClaim pairs a request with the attestation that answers it,
// forming a presentable credential.
type AttestedClaim struct {
	Request     RequestForAttestation `json:"request"`
	Attestation Attestation           `json:"attestation"`
}

// AttestationSession opens a privacy-enhanced attestation exchange. Both
// values are opaque tokens minted by the attester.
type AttestationSession struct {
	SessionID string `json:"sessionId"`
	Nonce     string `json:"nonce"`
}
