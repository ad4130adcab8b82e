// Package model - Release defines a versioned cut of a component that artifacts attach to.
package model

import "time"

// Release defines a version of a component
type Release struct {
	Key          string    `json:"_key,omitempty"`
	ObjType      string    `json:"objtype,omitempty"`
	ComponentKey string    `json:"component_key"`
	Version      string    `json:"version"`
	Description  string    `json:"description,omitempty"`
	IsPublic     bool      `json:"is_public"`
	IsPrerelease bool      `json:"is_prerelease"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// ReleaseView is a Release decorated with the computed list-view fields
type ReleaseView struct {
	Release
	IsLatest       bool `json:"is_latest"`
	ArtifactsCount int  `json:"artifacts_count"`
}

// NewRelease creates a new Release instance with default values
func NewRelease() *Release {
	return &Release{
		ObjType:   "Release",
		CreatedAt: time.Now().UTC(),
	}
}
