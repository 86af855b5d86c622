package model

// ProjectSummary is one entry of the REST project listing.
type ProjectSummary struct {
	ID         string            `json:"id"`
	Type       string            `json:"type,omitempty"`
	Attributes ProjectAttributes `json:"attributes"`
}

// ProjectAttributes holds the listing attributes used by the collector.
type ProjectAttributes struct {
	Name   string `json:"name"`
	Origin string `json:"origin,omitempty"`
}

// Name returns the project name reported by the listing.
func (p ProjectSummary) Name() string {
	return p.Attributes.Name
}

// ProjectList is the REST list envelope.
type ProjectList struct {
	Data  []ProjectSummary `json:"data"`
	Links ListLinks        `json:"links,omitempty"`
}

// ListLinks carries pagination links of a REST list response.
type ListLinks struct {
	Next string `json:"next,omitempty"`
	Self string `json:"self,omitempty"`
}

// ProjectDetail is the v1 project document.
type ProjectDetail struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Origin         string  `json:"origin,omitempty"`
	Type           string  `json:"type,omitempty"`
	LastTestedDate *string `json:"lastTestedDate"`
}

// ErrorResponse contains error information returned by the Snyk API.
// v1 endpoints answer with code/message, REST endpoints with a JSON:API
// errors array.
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Errors  []ErrorObject `json:"errors,omitempty"`
}

// ErrorObject is one JSON:API error entry
type ErrorObject struct {
	Status string `json:"status,omitempty"`
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Detail returns the most specific human-readable message available
func (e ErrorResponse) Detail() string {
	if e.Message != "" {
		return e.Message
	}

	for _, obj := range e.Errors {
		if obj.Detail != "" {
			return obj.Detail
		}
	}

	return ""
}
