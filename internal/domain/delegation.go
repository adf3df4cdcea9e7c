package domain

// Permission names an action a delegate may perform on the delegator's
// behalf.
type Permission string

const (
	PermissionAttest   Permission = "attest"
	PermissionDelegate Permission = "delegate"
)

// Valid reports whether p is one of the known permissions.
func (p Permission) Valid() bool {
	return p == PermissionAttest || p == PermissionDelegate
}

// DelegationData describes a node in a delegation hierarchy: the account
// being invited, the node id, its parent (nil for a root invitation), the
// granted permissions, and whether the node anchors a PCR (permissioned
// claim root).
type DelegationData struct {
	Account     Address      `json:"account"`
	ID          Hash         `json:"id"`
	ParentID    *Hash        `json:"parentId"`
	Permissions []Permission `json:"permissions"`
	IsPCR       bool         `json:"isPCR"`
}

// DelegationProposal invites an account into a delegation hierarchy. The
// inviter signs the delegation data; metadata is free-form context for the
// invitee.
type DelegationProposal struct {
	DelegationData   DelegationData `json:"delegationData"`
	InviterSignature Signature      `json:"inviterSignature"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// DelegationApproval is the invitee's countersigned acceptance of a
// proposal.
type DelegationApproval struct {
	DelegationData   DelegationData `json:"delegationData"`
	InviterSignature Signature      `json:"inviterSignature"`
	InviteeSignature Signature      `json:"inviteeSignature"`
}

// DelegationCreated informs the invitee that the delegation node now
// exists.
type DelegationCreated struct {
	DelegationID Hash `json:"delegationId"`
	IsPCR        bool `json:"isPCR"`
}
