package constant

// Environment variable names
const (
	// Organization ID fallback for --org_id
	EnvOrgID = "SNYK_ORG_ID"

	// API token fallback for --api_token
	EnvAPIToken = "SNYK_API_TOKEN"

	// API host fallback for --api_url
	EnvAPIURL = "SNYK_API_URL"

	// Path of the optional dotenv file loaded at startup
	EnvDotenvFile = "SNYK_GC_ENV_FILE"
)

// DefaultDotenvFile is loaded when EnvDotenvFile is not set.
const DefaultDotenvFile = ".env"
