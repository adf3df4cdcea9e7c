package compress

import (
	"encoding/json"

	"claimwire/internal/domain"
)

// Terms is the compact form of an offer sheet:
// [claim, legitimations, delegationId|null, quote|null, prerequisiteClaims|null].
type Terms domain.Terms

// CompressTerms validates the offer and its nested records and returns the
// compact form.
func CompressTerms(t domain.Terms) (Terms, error) {
	if _, err := CompressPartialClaim(t.Claim); err != nil {
		return Terms{}, err
	}
	for _, leg := range t.Legitimations {
		if _, err := CompressAttestedClaim(leg); err != nil {
			return Terms{}, err
		}
	}
	if err := optionalHash("Terms", "delegationId", t.DelegationID, ErrMalformedRecord); err != nil {
		return Terms{}, err
	}
	if t.Quote != nil {
		if _, err := CompressQuoteAttesterSigned(*t.Quote); err != nil {
			return Terms{}, err
		}
	}
	for _, pc := range t.PrerequisiteClaims {
		if _, err := CompressPartialClaim(pc); err != nil {
			return Terms{}, err
		}
	}
	return Terms(t), nil
}

// DecompressTerms parses a compact offer sheet tuple.
func DecompressTerms(data []byte) (domain.Terms, error) {
	var t Terms
	if err := json.Unmarshal(data, &t); err != nil {
		return domain.Terms{}, err
	}
	return domain.Terms(t), nil
}

func (t Terms) MarshalJSON() ([]byte, error) {
	legs := make([]AttestedClaim, len(t.Legitimations))
	for i, leg := range t.Legitimations {
		legs[i] = AttestedClaim(leg)
	}
	var quote any
	if t.Quote != nil {
		quote = QuoteAttesterSigned(*t.Quote)
	}
	var prereqs any
	if t.PrerequisiteClaims != nil {
		pcs := make([]PartialClaim, len(t.PrerequisiteClaims))
		for i, pc := range t.PrerequisiteClaims {
			pcs[i] = PartialClaim(pc)
		}
		prereqs = pcs
	}
	return json.Marshal([]any{PartialClaim(t.Claim), legs, t.DelegationID, quote, prereqs})
}

func (t *Terms) UnmarshalJSON(data []byte) error {
	elems, err := tuple("Terms", data, 5)
	if err != nil {
		return err
	}
	var claim PartialClaim
	if err := element("Terms", "claim", elems[0], &claim); err != nil {
		return err
	}
	t.Claim = domain.PartialClaim(claim)

	var legs []AttestedClaim
	if err := element("Terms", "legitimations", elems[1], &legs); err != nil {
		return err
	}
	t.Legitimations = make([]domain.AttestedClaim, len(legs))
	for i, leg := range legs {
		t.Legitimations[i] = domain.AttestedClaim(leg)
	}

	if err := element("Terms", "delegationId", elems[2], &t.DelegationID); err != nil {
		return err
	}
	if err := optionalHash("Terms", "delegationId", t.DelegationID, ErrArrayShape); err != nil {
		return err
	}

	var quote *QuoteAttesterSigned
	if err := element("Terms", "quote", elems[3], &quote); err != nil {
		return err
	}
	t.Quote = (*domain.QuoteAttesterSigned)(quote)

	var prereqs []PartialClaim
	if err := element("Terms", "prerequisiteClaims", elems[4], &prereqs); err != nil {
		return err
	}
	if prereqs == nil {
		t.PrerequisiteClaims = nil
		return nil
	}
	t.PrerequisiteClaims = make([]domain.PartialClaim, len(prereqs))
	for i, pc := range prereqs {
		t.PrerequisiteClaims[i] = domain.PartialClaim(pc)
	}
	return nil
}
