package domain

// Terms is an attester's (or verifier's) offer sheet for an attestation:
// the claim template under negotiation, credentials legitimating the
// attester, and optionally the delegation the attester acts under, a signed
// quote, and claims the claimer must hold first.
type Terms struct {
	Claim              PartialClaim         `json:"claim"`
	Legitimations      []AttestedClaim      `json:"legitimations"`
	DelegationID       *Hash                `json:"delegationId"`
	Quote              *QuoteAttesterSigned `json:"quote"`
	PrerequisiteClaims []PartialClaim       `json:"prerequisiteClaims"`
}
