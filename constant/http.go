package constant

// HeaderConstants defines HTTP header names used in requests
const (
	// AuthorizationHeader carries "token <api_token>"
	AuthorizationHeader = "Authorization"
	// AuthorizationScheme prefixes the API token in AuthorizationHeader
	AuthorizationScheme = "token"
)

// URLConstants defines Snyk endpoint layout
const (
	// DefaultAPIURL is the Snyk API host used when none is configured
	DefaultAPIURL = "https://api.snyk.io"
	// RESTPathPrefix is the versioned REST family, keyed by org ID
	RESTPathPrefix = "/rest/orgs/"
	// V1PathPrefix is the legacy v1 family, keyed by org ID
	V1PathPrefix = "/v1/org/"
)

// QueryConstants defines query parameters sent with every request
const (
	// VersionParam is the mandatory API version parameter
	VersionParam = "version"
	// VersionLayout formats the current UTC date for VersionParam
	VersionLayout = "2006-01-02"
	// LimitParam sets the page size of the project list
	LimitParam = "limit"
	// StartingAfterParam is the pagination cursor of the project list
	StartingAfterParam = "starting_after"
	// DefaultPageLimit is the largest page the REST API accepts
	DefaultPageLimit = 100
)

// MaxErrorBodyBytes caps how much of an error response is kept.
const MaxErrorBodyBytes = 64 << 10
