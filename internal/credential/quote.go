package credential

import (
	"fmt"

	"claimwire/internal/crypto"
	"claimwire/internal/domain"
)

// SignQuote signs a quote as its attester. The signature covers the
// canonical JSON of the bare quote, so field order on the wire is
// irrelevant to verification.
func SignQuote(attester domain.Identity, quote domain.Quote) (domain.QuoteAttesterSigned, error) {
	if quote.AttesterAddress != attester.Address {
		return domain.QuoteAttesterSigned{}, fmt.Errorf("%w: quote names %s, signing as %s", ErrNotOwner, quote.AttesterAddress, attester.Address)
	}
	digest, err := crypto.HashCanonical(quote)
	if err != nil {
		return domain.QuoteAttesterSigned{}, fmt.Errorf("credential: hash quote: %w", err)
	}
	return domain.QuoteAttesterSigned{
		Quote:             quote,
		AttesterSignature: crypto.SignStr(attester.SignPriv, digest.String()),
	}, nil
}

// VerifyQuote checks the attester signature on a signed quote.
func VerifyQuote(q domain.QuoteAttesterSigned) error {
	digest, err := crypto.HashCanonical(q.Quote)
	if err != nil {
		return fmt.Errorf("credential: hash quote: %w", err)
	}
	if !crypto.VerifyStr(digest.String(), q.AttesterSignature, q.AttesterAddress) {
		return ErrAttesterSignature
	}
	return nil
}

// AgreeToQuote countersigns an attester-signed quote for the request
// identified by rootHash. The claimer signature covers the whole signed
// quote, attester signature included, plus the root hash it is agreed for.
func AgreeToQuote(claimer domain.Identity, q domain.QuoteAttesterSigned, rootHash domain.Hash) (domain.QuoteAgreement, error) {
	if err := VerifyQuote(q); err != nil {
		return domain.QuoteAgreement{}, err
	}
	if !rootHash.Valid() {
		return domain.QuoteAgreement{}, fmt.Errorf("credential: invalid root hash %q", rootHash)
	}
	digest, err := agreementDigest(q, rootHash)
	if err != nil {
		return domain.QuoteAgreement{}, err
	}
	return domain.QuoteAgreement{
		QuoteAttesterSigned: q,
		ClaimerSignature:    crypto.SignStr(claimer.SignPriv, digest.String()),
		RootHash:            rootHash,
	}, nil
}

// VerifyAgreement checks both signatures on an agreed quote: the attester's
// over the quote and the claimer's over the signed quote plus root hash. The
// claimer address comes from the caller, usually the owner of the request
// the agreement points at.
func VerifyAgreement(a domain.QuoteAgreement, claimer domain.Address) error {
	if err := VerifyQuote(a.QuoteAttesterSigned); err != nil {
		return err
	}
	digest, err := agreementDigest(a.QuoteAttesterSigned, a.RootHash)
	if err != nil {
		return err
	}
	if !crypto.VerifyStr(digest.String(), a.ClaimerSignature, claimer) {
		return ErrClaimerSignature
	}
	return nil
}

func agreementDigest(q domain.QuoteAttesterSigned, rootHash domain.Hash) (domain.Hash, error) {
	digest, err := crypto.HashCanonical(q)
	if err != nil {
		return "", fmt.Errorf("credential: hash signed quote: %w", err)
	}
	return crypto.HashStr(digest.String() + rootHash.String()), nil
}
