package model

// Config is the resolved runtime configuration. It is built once at startup
// and passed by value to every collaborator.
type Config struct {
	OrgID    string `json:"orgId" validate:"required"`
	APIToken string `json:"-" validate:"required"`
	AgeDays  int    `json:"ageDays" validate:"gte=1"`
	APIURL   string `json:"apiUrl" validate:"required,url"`
	Delete   bool   `json:"delete"`
	Verbose  bool   `json:"verbose"`
}

// DryRun reports whether stale projects are only reported.
func (c Config) DryRun() bool {
	return !c.Delete
}
