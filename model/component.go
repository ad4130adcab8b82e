package model

import "time"

// ComponentType represents the CycloneDX classification of a component
type ComponentType string

const (
	// ComponentTypeApplication represents a standalone application.
	ComponentTypeApplication ComponentType = "application"
	// ComponentTypeLibrary represents a software library.
	ComponentTypeLibrary ComponentType = "library"
	// ComponentTypeFramework represents a software framework.
	ComponentTypeFramework ComponentType = "framework"
	// ComponentTypeContainer represents a container image.
	ComponentTypeContainer ComponentType = "container"
	// ComponentTypePlatform represents a runtime platform or OS.
	ComponentTypePlatform ComponentType = "platform"
	// ComponentTypeDevice represents a hardware device.
	ComponentTypeDevice ComponentType = "device"
	// ComponentTypeFirmware represents device firmware.
	ComponentTypeFirmware ComponentType = "firmware"
	// ComponentTypeFile represents a single file deliverable.
	ComponentTypeFile ComponentType = "file"
)

// LifecyclePhase represents the CycloneDX lifecycle phase of a component
type LifecyclePhase string

const (
	// LifecycleDesign covers requirements and design work.
	LifecycleDesign LifecyclePhase = "design"
	// LifecyclePreBuild covers source before compilation.
	LifecyclePreBuild LifecyclePhase = "pre-build"
	// LifecycleBuild covers the compile/package stage.
	LifecycleBuild LifecyclePhase = "build"
	// LifecyclePostBuild covers packaged but undeployed software.
	LifecyclePostBuild LifecyclePhase = "post-build"
	// LifecycleOperations covers deployed, running software.
	LifecycleOperations LifecyclePhase = "operations"
	// LifecycleDiscovery covers components found by scanning.
	LifecycleDiscovery LifecyclePhase = "discovery"
	// LifecycleDecommission covers retired software.
	LifecycleDecommission LifecyclePhase = "decommission"
)

// Supplier identifies the organization supplying a component
type Supplier struct {
	Name     string   `json:"name,omitempty"`
	URL      string   `json:"url,omitempty"`
	Contacts []string `json:"contacts,omitempty"`
}

// Author identifies an individual author of a component
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ComponentMetaInfo holds the CycloneDX-style metadata for a component
type ComponentMetaInfo struct {
	Supplier       Supplier       `json:"supplier,omitempty"`
	Authors        []Author       `json:"authors,omitempty"`
	Licenses       []string       `json:"licenses,omitempty"`
	LifecyclePhase LifecyclePhase `json:"lifecycle_phase,omitempty"`
}

// Component represents a trackable piece of software in the catalog
type Component struct {
	Key           string            `json:"_key,omitempty"`
	ObjType       string            `json:"objtype,omitempty"`
	Name          string            `json:"name"`
	ComponentType ComponentType     `json:"component_type,omitempty"`
	IsPublic      bool              `json:"is_public"`
	Metadata      ComponentMetaInfo `json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"created_at,omitempty"`
	UpdatedAt     time.Time         `json:"updated_at,omitempty"`
}

// NewComponent creates a new Component instance with default values
func NewComponent() *Component {
	return &Component{
		ObjType:       "Component",
		ComponentType: ComponentTypeApplication,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
}
