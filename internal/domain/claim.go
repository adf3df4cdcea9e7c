package domain

// Claim is a set of statements about its owner, typed by a cType schema.
// Contents must validate against the schema referenced by CTypeHash before a
// claim is allowed to exist (enforced by the credential layer at build time).
type Claim struct {
	CTypeHash Hash           `json:"cTypeHash"`
	Owner     Address        `json:"owner"`
	Contents  map[string]any `json:"contents"`
}

// PartialClaim is a claim template used during terms negotiation, before an
// owner or concrete contents are fixed.
type PartialClaim struct {
	CTypeHash Hash           `json:"cTypeHash"`
	Owner     Address        `json:"owner,omitempty"`
	Contents  map[string]any `json:"contents,omitempty"`
}
