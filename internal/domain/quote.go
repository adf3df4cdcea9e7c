package domain

// CostBreakdown itemizes an attestation fee.
type CostBreakdown struct {
	Gross float64 `json:"gross"`
	Net   float64 `json:"net"`
	Tax   float64 `json:"tax"`
}

// Quote is an attester's offer to attest a claim of the given cType for a
// price. Timeframe is the offer's expiry as unix milliseconds.
type Quote struct {
	AttesterAddress    Address       `json:"attesterAddress"`
	CTypeHash          Hash          `json:"cTypeHash"`
	Cost               CostBreakdown `json:"cost"`
	Currency           string        `json:"currency"`
	TermsAndConditions string        `json:"termsAndConditions"`
	Timeframe          int64         `json:"timeframe"`
}

// QuoteAttesterSigned is a quote the attester has committed to, carrying
// their signature over the quote's canonical form.
type QuoteAttesterSigned struct {
	Quote
	AttesterSignature Signature `json:"attesterSignature"`
}

// QuoteAgreement is the fully countersigned quote: the claimer accepts the
// attester-signed quote and binds it to a concrete request via its root hash.
type QuoteAgreement struct {
	QuoteAttesterSigned
	ClaimerSignature Signature `json:"claimerSignature"`
	RootHash         Hash      `json:"rootHash"`
}
