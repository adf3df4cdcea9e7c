package compress

import (
	"encoding/json"
	"fmt"

	"claimwire/internal/domain"
)

// DelegationData is the compact form of a delegation node:
// [account, id, parentId|null, permissions, isPCR].
type DelegationData domain.DelegationData

// CompressDelegationData validates required fields and returns the compact
// form.
func CompressDelegationData(d domain.DelegationData) (DelegationData, error) {
	if err := requireAddress("DelegationData", "account", d.Account); err != nil {
		return DelegationData{}, err
	}
	if err := requireHash("DelegationData", "id", d.ID); err != nil {
		return DelegationData{}, err
	}
	if err := optionalHash("DelegationData", "parentId", d.ParentID, ErrMalformedRecord); err != nil {
		return DelegationData{}, err
	}
	for _, p := range d.Permissions {
		if !p.Valid() {
			return DelegationData{}, invalid("DelegationData", "permissions")
		}
	}
	return DelegationData(d), nil
}

// DecompressDelegationData parses a compact delegation node tuple.
func DecompressDelegationData(data []byte) (domain.DelegationData, error) {
	var d DelegationData
	if err := json.Unmarshal(data, &d); err != nil {
		return domain.DelegationData{}, err
	}
	return domain.DelegationData(d), nil
}

func (d DelegationData) MarshalJSON() ([]byte, error) {
	perms := d.Permissions
	if perms == nil {
		perms = []domain.Permission{}
	}
	return json.Marshal([]any{d.Account, d.ID, d.ParentID, perms, d.IsPCR})
}

func (d *DelegationData) UnmarshalJSON(data []byte) error {
	elems, err := tuple("DelegationData", data, 5)
	if err != nil {
		return err
	}
	if err := element("DelegationData", "account", elems[0], &d.Account); err != nil {
		return err
	}
	if err := element("DelegationData", "id", elems[1], &d.ID); err != nil {
		return err
	}
	if err := element("DelegationData", "parentId", elems[2], &d.ParentID); err != nil {
		return err
	}
	if err := optionalHash("DelegationData", "parentId", d.ParentID, ErrArrayShape); err != nil {
		return err
	}
	if err := element("DelegationData", "permissions", elems[3], &d.Permissions); err != nil {
		return err
	}
	for _, p := range d.Permissions {
		if !p.Valid() {
			return fmt.Errorf("%w: DelegationData: unknown permission %q", ErrArrayShape, p)
		}
	}
	return element("DelegationData", "isPCR", elems[4], &d.IsPCR)
}

// DelegationProposal is the compact form of a delegation invitation:
// [delegationData, inviterSignature, metadata|null].
type DelegationProposal domain.DelegationProposal

// CompressDelegationProposal validates the proposal and returns the compact
// form.
func CompressDelegationProposal(p domain.DelegationProposal) (DelegationProposal, error) {
	if _, err := CompressDelegationData(p.DelegationData); err != nil {
		return DelegationProposal{}, err
	}
	if err := requireSignature("DelegationProposal", "inviterSignature", p.InviterSignature); err != nil {
		return DelegationProposal{}, err
	}
	return DelegationProposal(p), nil
}

// DecompressDelegationProposal parses a compact proposal tuple.
func DecompressDelegationProposal(data []byte) (domain.DelegationProposal, error) {
	var p DelegationProposal
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.DelegationProposal{}, err
	}
	return domain.DelegationProposal(p), nil
}

func (p DelegationProposal) MarshalJSON() ([]byte, error) {
	elems := []any{DelegationData(p.DelegationData), p.InviterSignature, nil}
	if p.Metadata != nil {
		elems[2] = p.Metadata
	}
	return json.Marshal(elems)
}

func (p *DelegationProposal) UnmarshalJSON(data []byte) error {
	elems, err := tuple("DelegationProposal", data, 3)
	if err != nil {
		return err
	}
	var d DelegationData
	if err := element("DelegationProposal", "delegationData", elems[0], &d); err != nil {
		return err
	}
	p.DelegationData = domain.DelegationData(d)
	if err := element("DelegationProposal", "inviterSignature", elems[1], &p.InviterSignature); err != nil {
		return err
	}
	return element("DelegationProposal", "metadata", elems[2], &p.Metadata)
}

// DelegationApproval is the compact form of an accepted invitation:
// [delegationData, inviterSignature, inviteeSignature].
type DelegationApproval domain.DelegationApproval

// CompressDelegationApproval validates both signatures and returns the
// compact form.
func CompressDelegationApproval(a domain.DelegationApproval) (DelegationApproval, error) {
	if _, err := CompressDelegationData(a.DelegationData); err != nil {
		return DelegationApproval{}, err
	}
	if err := requireSignature("DelegationApproval", "inviterSignature", a.InviterSignature); err != nil {
		return DelegationApproval{}, err
	}
	if err := requireSignature("DelegationApproval", "inviteeSignature", a.InviteeSignature); err != nil {
		return DelegationApproval{}, err
	}
	return DelegationApproval(a), nil
}

// DecompressDelegationApproval parses a compact approval tuple.
func DecompressDelegationApproval(data []byte) (domain.DelegationApproval, error) {
	var a DelegationApproval
	if err := json.Unmarshal(data, &a); err != nil {
		return domain.DelegationApproval{}, err
	}
	return domain.DelegationApproval(a), nil
}

func (a DelegationApproval) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{DelegationData(a.DelegationData), a.InviterSignature, a.InviteeSignature})
}

func (a *DelegationApproval) UnmarshalJSON(data []byte) error {
	elems, err := tuple("DelegationApproval", data, 3)
	if err != nil {
		return err
	}
	var d DelegationData
	if err := element("DelegationApproval", "delegationData", elems[0], &d); err != nil {
		return err
	}
	a.DelegationData = domain.DelegationData(d)
	if err := element("DelegationApproval", "inviterSignature", elems[1], &a.InviterSignature); err != nil {
		return err
	}
	return element("DelegationApproval", "inviteeSignature", elems[2], &a.InviteeSignature)
}

// DelegationCreated is the compact form of a creation notice:
// [delegationId, isPCR].
type DelegationCreated domain.DelegationCreated

// CompressDelegationCreated validates the node id and returns the compact
// form.
func CompressDelegationCreated(c domain.DelegationCreated) (DelegationCreated, error) {
	if err := requireHash("DelegationCreated", "delegationId", c.DelegationID); err != nil {
		return DelegationCreated{}, err
	}
	return DelegationCreated(c), nil
}

// DecompressDelegationCreated parses a compact creation notice tuple.
func DecompressDelegationCreated(data []byte) (domain.DelegationCreated, error) {
	var c DelegationCreated
	if err := json.Unmarshal(data, &c); err != nil {
		return domain.DelegationCreated{}, err
	}
	return domain.DelegationCreated(c), nil
}

func (c DelegationCreated) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.DelegationID, c.IsPCR})
}

func (c *DelegationCreated) UnmarshalJSON(data []byte) error {
	elems, err := tuple("DelegationCreated", data, 2)
	if err != nil {
		return err
	}
	if err := element("DelegationCreated", "delegationId", elems[0], &c.DelegationID); err != nil {
		return err
	}
	return element("DelegationCreated", "isPCR", elems[1], &c.IsPCR)
}
