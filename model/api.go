// Package model - API types for request/response envelopes shared across handlers
package model

// StatusResponse returns the result of mutating operations
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Key     string `json:"key,omitempty"`
}

// ListResponse wraps paginated list results
type ListResponse struct {
	Success  bool        `json:"success"`
	Count    int         `json:"count"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Items    interface{} `json:"items"`
}

// TokenCreateResponse returns a freshly minted token. Token is the plaintext
// secret and is only ever present in this response.
type TokenCreateResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	Record  AccessToken `json:"record"`
}

// AssignmentRequest sets the full membership of a parent (product projects,
// project components). Keys not listed are detached.
type AssignmentRequest struct {
	Keys []string `json:"keys"`
}

// AssignmentResponse reports the edge changes an assignment produced
type AssignmentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Added   int    `json:"added"`
	Removed int    `json:"removed"`
}
