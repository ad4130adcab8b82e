package model

import "time"

// Project represents a development effort grouped under a product
type Project struct {
	Key         string    `json:"_key,omitempty"`
	ObjType     string    `json:"objtype,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ProjectType string    `json:"project_type,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// NewProject creates a new Project instance with default values
func NewProject() *Project {
	return &Project{
		ObjType:   "Project",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}
