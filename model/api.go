// Package model - API types for purl canonicalization requests/responses
package model

// PurlBatchRequest is the request body for canonicalize/store operations.
type PurlBatchRequest struct {
	Purls []string `json:"purls"`
}

// PurlResult reports the outcome for one input purl. Exactly one of
// Canonical or Error is set.
type PurlResult struct {
	Input     string `json:"input"`
	Canonical string `json:"canonical,omitempty"`
	BasePurl  string `json:"basepurl,omitempty"`
	Error     string `json:"error,omitempty"`
}

// PurlBatchResponse returns the result of canonicalize/store operations.
type PurlBatchResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Count   int          `json:"count"`
	Failed  int          `json:"failed"`
	Results []PurlResult `json:"results"`
}
