package domain

import "encoding/json"

// CTypeRequest asks a claimer to present claims for the listed cTypes.
// AllowPE signals that the verifier accepts a privacy-enhanced combined
// presentation in place of the classic credential list.
type CTypeRequest struct {
	CTypeHashes []Hash `json:"cTypeHashes"`
	AllowPE     bool   `json:"allowPE"`
}

// CombinedPresentation is the privacy-enhanced presentation form: the cTypes
// the presented claims cover plus an opaque combined proof produced by the
// privacy-enhancement layer. The proof is carried, never interpreted here.
type CombinedPresentation struct {
	CTypeHashes []Hash          `json:"cTypeHashes"`
	Proof       json.RawMessage `json:"proof"`
}
