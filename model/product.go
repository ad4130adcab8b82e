// Package model defines the data structures stored in the catalog database,
// including products, projects, components, releases, and artifacts.
package model

import "time"

// IdentifierType classifies a product identifier
type IdentifierType string

const (
	// IdentifierTypePURL is a package URL identifier (e.g., pkg:npm/lodash).
	IdentifierTypePURL IdentifierType = "purl"
	// IdentifierTypeCPE is a Common Platform Enumeration identifier.
	IdentifierTypeCPE IdentifierType = "cpe"
	// IdentifierTypeGTIN is a Global Trade Item Number.
	IdentifierTypeGTIN IdentifierType = "gtin"
	// IdentifierTypeSKU is a vendor stock keeping unit.
	IdentifierTypeSKU IdentifierType = "sku"
	// IdentifierTypeMPN is a manufacturer part number.
	IdentifierTypeMPN IdentifierType = "mpn"
)

// LinkType classifies a product link
type LinkType string

const (
	// LinkTypeWebsite points at the product home page.
	LinkTypeWebsite LinkType = "website"
	// LinkTypeSupport points at a support portal or contact page.
	LinkTypeSupport LinkType = "support"
	// LinkTypeDocumentation points at product documentation.
	LinkTypeDocumentation LinkType = "documentation"
	// LinkTypeChangelog points at release notes or a changelog.
	LinkTypeChangelog LinkType = "changelog"
	// LinkTypeOther covers anything not in the list above.
	LinkTypeOther LinkType = "other"
)

// ProductIdentifier is an external identifier attached to a product
type ProductIdentifier struct {
	ID             string         `json:"id"`
	IdentifierType IdentifierType `json:"identifier_type"`
	Value          string         `json:"value"`
}

// ProductLink is an external URL attached to a product
type ProductLink struct {
	ID          string   `json:"id"`
	LinkType    LinkType `json:"link_type"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
}

// Product represents a sellable/deliverable grouping of projects
type Product struct {
	Key         string              `json:"_key,omitempty"`
	ObjType     string              `json:"objtype,omitempty"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	IsPublic    bool                `json:"is_public"`
	Identifiers []ProductIdentifier `json:"identifiers"`
	Links       []ProductLink       `json:"links"`
	CreatedAt   time.Time           `json:"created_at,omitempty"`
	UpdatedAt   time.Time           `json:"updated_at,omitempty"`
}

// NewProduct creates a new Product instance with default values
func NewProduct() *Product {
	return &Product{
		ObjType:     "Product",
		Identifiers: []ProductIdentifier{},
		Links:       []ProductLink{},
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}
