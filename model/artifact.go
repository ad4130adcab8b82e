package model

import (
	"encoding/json"
	"time"
)

// ArtifactType distinguishes SBOM artifacts from plain documents
type ArtifactType string

const (
	// ArtifactTypeSBOM is a CycloneDX SBOM in JSON form.
	ArtifactTypeSBOM ArtifactType = "sbom"
	// ArtifactTypeDocument is any other document attached to a release.
	ArtifactTypeDocument ArtifactType = "document"
)

// Artifact represents an SBOM or document attached to one or more releases.
// Artifacts are content-addressed: ContentSha is the hex SHA-256 of Content
// and duplicate uploads resolve to the existing document.
type Artifact struct {
	Key          string          `json:"_key,omitempty"`
	ObjType      string          `json:"objtype,omitempty"`
	Name         string          `json:"name"`
	ArtifactType ArtifactType    `json:"artifact_type"`
	ContentSha   string          `json:"contentsha,omitempty"`
	Content      json.RawMessage `json:"content,omitempty"`
	CreatedAt    time.Time       `json:"created_at,omitempty"`
}

// NewArtifact creates a new Artifact instance with default values
func NewArtifact() *Artifact {
	return &Artifact{
		ObjType:      "Artifact",
		ArtifactType: ArtifactTypeSBOM,
		CreatedAt:    time.Now().UTC(),
	}
}
