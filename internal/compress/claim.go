package compress

import (
	"encoding/json"

	"claimwire/internal/domain"
)

// Claim is the compact form of a claim:
// [cTypeHash, owner, contents].
type Claim domain.Claim

// CompressClaim validates required fields and returns the compact form.
func CompressClaim(c domain.Claim) (Claim, error) {
	if err := requireHash("Claim", "cTypeHash", c.CTypeHash); err != nil {
		return Claim{}, err
	}
	if err := requireAddress("Claim", "owner", c.Owner); err != nil {
		return Claim{}, err
	}
	if c.Contents == nil {
		return Claim{}, missing("Claim", "contents")
	}
	return Claim(c), nil
}

// DecompressClaim parses a compact claim tuple.
func DecompressClaim(data []byte) (domain.Claim, error) {
	var c Claim
	if err := json.Unmarshal(data, &c); err != nil {
		return domain.Claim{}, err
	}
	return domain.Claim(c), nil
}

func (c Claim) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.CTypeHash, c.Owner, c.Contents})
}

func (c *Claim) UnmarshalJSON(data []byte) error {
	elems, err := tuple("Claim", data, 3)
	if err != nil {
		return err
	}
	if err := element("Claim", "cTypeHash", elems[0], &c.CTypeHash); err != nil {
		return err
	}
	if err := element("Claim", "owner", elems[1], &c.Owner); err != nil {
		return err
	}
	return element("Claim", "contents", elems[2], &c.Contents)
}

// PartialClaim is the compact form of a claim template:
// [cTypeHash, owner|null, contents|null].
type PartialClaim domain.PartialClaim

// CompressPartialClaim validates the template and returns the compact form.
// Owner and contents may be unset; the cType reference may not.
func CompressPartialClaim(c domain.PartialClaim) (PartialClaim, error) {
	if err := requireHash("PartialClaim", "cTypeHash", c.CTypeHash); err != nil {
		return PartialClaim{}, err
	}
	if c.Owner != "" && !c.Owner.Valid() {
		return PartialClaim{}, invalid("PartialClaim", "owner")
	}
	return PartialClaim(c), nil
}

// DecompressPartialClaim parses a compact claim template tuple.
func DecompressPartialClaim(data []byte) (domain.PartialClaim, error) {
	var c PartialClaim
	if err := json.Unmarshal(data, &c); err != nil {
		return domain.PartialClaim{}, err
	}
	return domain.PartialClaim(c), nil
}

func (c PartialClaim) MarshalJSON() ([]byte, error) {
	elems := []any{c.CTypeHash, nil, nil}
	if c.Owner != "" {
		elems[1] = c.Owner
	}
	if c.Contents != nil {
		elems[2] = c.Contents
	}
	return json.Marshal(elems)
}

func (c *PartialClaim) UnmarshalJSON(data []byte) error {
	elems, err := tuple("PartialClaim", data, 3)
	if err != nil {
		return err
	}
	if err := element("PartialClaim", "cTypeHash", elems[0], &c.CTypeHash); err != nil {
		return err
	}
	if err := element("PartialClaim", "owner", elems[1], &c.Owner); err != nil {
		return err
	}
	return element("PartialClaim", "contents", elems[2], &c.Contents)
}
