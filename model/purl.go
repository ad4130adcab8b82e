package model

// PURL is the hub document for a base package URL (no version). SBOM artifacts
// point at it through artifact2purl edges carrying the concrete version, so
// every artifact containing a given package is reachable from one node.
type PURL struct {
	Key     string `json:"_key,omitempty"`
	ObjType string `json:"objtype"`
	Purl    string `json:"purl"` // e.g. pkg:npm/lodash
}

// NewPURL creates a new PURL hub for a base package URL
func NewPURL(basePurl string) *PURL {
	return &PURL{
		ObjType: "PURL",
		Purl:    basePurl,
	}
}
