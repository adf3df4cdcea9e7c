package credential

import (
	"errors"
	"fmt"
	"strings"

	"claimwire/internal/crypto"
	"claimwire/internal/ctype"
	"claimwire/internal/domain"
)

var (
	// ErrNotOwner reports a record signed by an identity that does not own it.
	ErrNotOwner = errors.New("credential: signing identity does not own the record")
	// ErrRootHash reports a request whose root hash does not cover its parts.
	ErrRootHash = errors.New("credential: root hash mismatch")
	// ErrClaimerSignature reports a bad claimer signature.
	ErrClaimerSignature = errors.New("credential: claimer signature invalid")
	// ErrAttesterSignature reports a bad attester signature.
	ErrAttesterSignature = errors.New("credential: attester signature invalid")
	// ErrRevoked reports an attestation that has been revoked.
	ErrRevoked = errors.New("credential: attestation revoked")
	// ErrBinding reports an attestation that does not match its request.
	ErrBinding = errors.New("credential: attestation does not bind request")
)

// NewClaim builds a claim owned by owner after checking contents against the
// schema. The returned claim carries the schema's hash, not the schema.
func NewClaim(ct ctype.CType, owner domain.Address, contents map[string]any) (domain.Claim, error) {
	if !owner.Valid() {
		return domain.Claim{}, fmt.Errorf("credential: invalid owner address %q", owner)
	}
	if err := ct.Verify(contents); err != nil {
		return domain.Claim{}, fmt.Errorf("credential: %w", err)
	}
	return domain.Claim{
		CTypeHash: ct.Hash,
		Owner:     owner,
		Contents:  contents,
	}, nil
}

// RootHash computes the digest a claimer signs for a request: the canonical
// claim hash, each legitimation's root hash, and the delegation id when
// present, concatenated in order and hashed.
func RootHash(claim domain.Claim, legitimations []domain.AttestedClaim, delegationID *domain.Hash) (domain.Hash, error) {
	claimHash, err := crypto.HashCanonical(claim)
	if err != nil {
		return "", fmt.Errorf("credential: hash claim: %w", err)
	}
	var b strings.Builder
	b.WriteString(claimHash.String())
	for _, leg := range legitimations {
		b.WriteString(leg.Request.RootHash.String())
	}
	if delegationID != nil {
		b.WriteString(delegationID.String())
	}
	return crypto.HashStr(b.String()), nil
}

// NewRequestForAttestation assembles and signs a request for claim. The
// claimer must own the claim; the signature covers the root hash.
func NewRequestForAttestation(claimer domain.Identity, claim domain.Claim, legitimations []domain.AttestedClaim, delegationID *domain.Hash) (domain.RequestForAttestation, error) {
	if claim.Owner != claimer.Address {
		return domain.RequestForAttestation{}, fmt.Errorf("%w: claim owned by %s, signing as %s", ErrNotOwner, claim.Owner, claimer.Address)
	}
	root, err := RootHash(claim, legitimations, delegationID)
	if err != nil {
		return domain.RequestForAttestation{}, err
	}
	if legitimations == nil {
		legitimations = []domain.AttestedClaim{}
	}
	return domain.RequestForAttestation{
		Claim:            claim,
		Legitimations:    legitimations,
		DelegationID:     delegationID,
		RootHash:         root,
		ClaimerSignature: crypto.SignStr(claimer.SignPriv, root.String()),
	}, nil
}

// VerifyRequest checks a request offline: the root hash covers the claim,
// legitimations and delegation id, and the claimer signature over it
// verifies against the claim owner.
func VerifyRequest(req domain.RequestForAttestation) error {
	root, err := RootHash(req.Claim, req.Legitimations, req.DelegationID)
	if err != nil {
		return err
	}
	if root != req.RootHash {
		return ErrRootHash
	}
	if !crypto.VerifyStr(req.RootHash.String(), req.ClaimerSignature, req.Claim.Owner) {
		return ErrClaimerSignature
	}
	return nil
}

// NewAttestation records the attester's approval of a request. The
// attestation binds the request root hash and inherits its ctype and
// delegation id. The request is verified before anything is produced.
func NewAttestation(attester domain.Identity, req domain.RequestForAttestation) (domain.Attestation, error) {
	if err := VerifyRequest(req); err != nil {
		return domain.Attestation{}, err
	}
	return domain.Attestation{
		ClaimHash:    req.RootHash,
		CTypeHash:    req.Claim.CTypeHash,
		Owner:        attester.Address,
		Revoked:      false,
		DelegationID: req.DelegationID,
	}, nil
}

// Verify checks a credential offline: the request is internally consistent
// and the attestation binds its root hash, ctype and delegation id without
// having been revoked. Whether the attestation's current revocation state
// matches a ledger is the caller's problem; this checks the record in hand.
func Verify(ac domain.AttestedClaim) error {
	if err := VerifyRequest(ac.Request); err != nil {
		return err
	}
	if ac.Attestation.ClaimHash != ac.Request.RootHash {
		return fmt.Errorf("%w: attestation is for %s, request root is %s", ErrBinding, ac.Attestation.ClaimHash, ac.Request.RootHash)
	}
	if ac.Attestation.CTypeHash != ac.Request.Claim.CTypeHash {
		return fmt.Errorf("%w: ctype differs", ErrBinding)
	}
	if !hashPtrEqual(ac.Attestation.DelegationID, ac.Request.DelegationID) {
		return fmt.Errorf("%w: delegation id differs", ErrBinding)
	}
	if ac.Attestation.Revoked {
		return ErrRevoked
	}
	return nil
}

func hashPtrEqual(a, b *domain.Hash) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
