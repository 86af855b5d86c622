// Package helper provides shared test utilities
package helper

import (
	"testing"
	"time"

	"github.com/LerianStudio/snyk-gc-projects/internal/fakeapi"
	"github.com/LerianStudio/snyk-gc-projects/model"
	"github.com/stretchr/testify/require"
)

// Test credentials accepted by servers from NewFakeAPI
const (
	TestOrgID = "4a18d42f-0706-4ad0-b127-24078731fbed"
	TestToken = "0f6a9d3e-test-token-1234"
)

// NewFakeAPI starts a fake Snyk API that is closed when the test ends
func NewFakeAPI(t *testing.T) *fakeapi.Server {
	t.Helper()

	srv := fakeapi.New(TestOrgID, TestToken)
	require.NoError(t, srv.Start())

	t.Cleanup(func() {
		_ = srv.Close()
	})

	return srv
}

// TestConfig returns a valid dry-run configuration pointing at apiURL
func TestConfig(apiURL string) model.Config {
	return model.Config{
		OrgID:    TestOrgID,
		APIToken: TestToken,
		AgeDays:  7,
		APIURL:   apiURL,
	}
}

// Project builds a project detail last tested at lastTested.
// A zero lastTested leaves lastTestedDate null.
func Project(id, name string, lastTested time.Time) model.ProjectDetail {
	p := model.ProjectDetail{ID: id, Name: name, Origin: "github", Type: "npm"}

	if !lastTested.IsZero() {
		ts := lastTested.UTC().Format("2006-01-02T15:04:05.000Z")
		p.LastTestedDate = &ts
	}

	return p
}
