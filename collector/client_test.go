package collector_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/LerianStudio/snyk-gc-projects/collector"
	cn "github.com/LerianStudio/snyk-gc-projects/constant"
	libErr "github.com/LerianStudio/snyk-gc-projects/error"
	"github.com/LerianStudio/snyk-gc-projects/internal/api"
	"github.com/LerianStudio/snyk-gc-projects/model"
	"github.com/LerianStudio/snyk-gc-projects/test/helper"
	"github.com/LerianStudio/snyk-gc-projects/test/helper/testlogger"
	"github.com/LerianStudio/snyk-gc-projects/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func summary(id string) model.ProjectSummary {
	return model.ProjectSummary{ID: id, Type: "project"}
}

func newCollector(t *testing.T, cfg model.Config, svc collector.ProjectService) (*collector.Client, *bytes.Buffer, *testlogger.TestLogger) {
	t.Helper()

	out := &bytes.Buffer{}
	l := testlogger.New()

	c, err := collector.New(cfg, svc, l, out)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	c.SetClock(func() time.Time { return fixedNow })

	return c, out, l
}

func testConfig(deleteMode bool) model.Config {
	cfg := helper.TestConfig(cn.DefaultAPIURL)
	cfg.Delete = deleteMode

	return cfg
}

func TestRunDryRunNeverDeletes(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockProjectService(ctrl)

	stale := helper.Project("p-stale", "legacy-api", fixedNow.Add(-10*24*time.Hour))
	active := helper.Project("p-active", "web", fixedNow.Add(-3*24*time.Hour))

	gomock.InOrder(
		svc.EXPECT().ListProjects(gomock.Any()).Return([]model.ProjectSummary{summary("p-stale"), summary("p-active")}, nil),
		svc.EXPECT().GetProject(gomock.Any(), "p-stale").Return(stale, nil),
		svc.EXPECT().GetProject(gomock.Any(), "p-active").Return(active, nil),
	)
	svc.EXPECT().DeleteProject(gomock.Any(), gomock.Any()).Times(0)

	c, out, _ := newCollector(t, testConfig(false), svc)

	require.NoError(t, c.Run(context.Background()))
	helper.AssertStatusLines(t, out.String(),
		helper.StatusLine("legacy-api", "p-stale", cn.StatusWouldDelete),
		helper.StatusLine("web", "p-active", cn.StatusActive),
	)
}

func TestRunDeleteModeDeletesOnlyStale(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockProjectService(ctrl)

	projects := []model.ProjectDetail{
		helper.Project("p-1", "old-worker", fixedNow.Add(-10*24*time.Hour)),
		helper.Project("p-2", "fresh", fixedNow.Add(-3*24*time.Hour)),
		helper.Project("p-3", "never-tested", time.Time{}),
		helper.Project("p-4", "ancient", fixedNow.Add(-400*24*time.Hour)),
	}

	svc.EXPECT().ListProjects(gomock.Any()).Return([]model.ProjectSummary{
		summary("p-1"), summary("p-2"), summary("p-3"), summary("p-4"),
	}, nil)

	for _, p := range projects {
		svc.EXPECT().GetProject(gomock.Any(), p.ID).Return(p, nil)
	}

	svc.EXPECT().DeleteProject(gomock.Any(), "p-1").Return(nil).Times(1)
	svc.EXPECT().DeleteProject(gomock.Any(), "p-4").Return(nil).Times(1)

	c, out, l := newCollector(t, testConfig(true), svc)

	require.NoError(t, c.Run(context.Background()))
	helper.AssertStatusLines(t, out.String(),
		helper.StatusLine("old-worker", "p-1", cn.StatusDeleting),
		helper.StatusLine("fresh", "p-2", cn.StatusActive),
		helper.StatusLine("never-tested", "p-3", cn.StatusActive),
		helper.StatusLine("ancient", "p-4", cn.StatusDeleting),
	)
	assert.True(t, l.Contains("INFO", "Deleted project old-worker"))
}

func TestRunEmptyListing(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockProjectService(ctrl)

	svc.EXPECT().ListProjects(gomock.Any()).Return([]model.ProjectSummary{}, nil)

	c, out, _ := newCollector(t, testConfig(true), svc)

	require.NoError(t, c.Run(context.Background()))
	assert.Empty(t, out.String())
}

func TestRunListFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockProjectService(ctrl)

	svc.EXPECT().ListProjects(gomock.Any()).Return(nil, &libErr.HTTPError{StatusCode: http.StatusUnauthorized})

	c, out, _ := newCollector(t, testConfig(false), svc)

	err := c.Run(context.Background())
	require.Error(t, err)
	assert.True(t, libErr.IsUnauthorized(err))
	assert.Empty(t, out.String())
}

func TestRunDetailFailureAbortsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockProjectService(ctrl)

	svc.EXPECT().ListProjects(gomock.Any()).Return([]model.ProjectSummary{
		summary("p-1"), summary("p-2"), summary("p-3"),
	}, nil)
	svc.EXPECT().GetProject(gomock.Any(), "p-1").Return(helper.Project("p-1", "one", fixedNow.Add(-10*24*time.Hour)), nil)
	svc.EXPECT().DeleteProject(gomock.Any(), "p-1").Return(nil)
	svc.EXPECT().GetProject(gomock.Any(), "p-2").Return(model.ProjectDetail{}, &libErr.HTTPError{StatusCode: http.StatusInternalServerError})

	c, out, _ := newCollector(t, testConfig(true), svc)

	err := c.Run(context.Background())
	require.Error(t, err)
	assert.True(t, libErr.IsServerError(err))
	assert.ErrorContains(t, err, "failed to fetch project p-2")
	helper.AssertStatusLines(t, out.String(), helper.StatusLine("one", "p-1", cn.StatusDeleting))
}

func TestRunDeleteFailureAbortsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockProjectService(ctrl)

	svc.EXPECT().ListProjects(gomock.Any()).Return([]model.ProjectSummary{summary("p-1"), summary("p-2")}, nil)
	svc.EXPECT().GetProject(gomock.Any(), "p-1").Return(helper.Project("p-1", "one", fixedNow.Add(-10*24*time.Hour)), nil)
	svc.EXPECT().DeleteProject(gomock.Any(), "p-1").Return(&libErr.HTTPError{StatusCode: http.StatusForbidden})

	c, _, _ := newCollector(t, testConfig(true), svc)

	err := c.Run(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to delete project p-1")
}

func TestRunMalformedTimestampAbortsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockProjectService(ctrl)

	bad := "last tuesday"

	svc.EXPECT().ListProjects(gomock.Any()).Return([]model.ProjectSummary{summary("p-1"), summary("p-2")}, nil)
	svc.EXPECT().GetProject(gomock.Any(), "p-1").Return(model.ProjectDetail{ID: "p-1", Name: "one", LastTestedDate: &bad}, nil)

	c, out, _ := newCollector(t, testConfig(true), svc)

	err := c.Run(context.Background())

	var parseErr *libErr.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Empty(t, out.String())
}

func TestRunSkipsRepeatedListing(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockProjectService(ctrl)

	svc.EXPECT().ListProjects(gomock.Any()).Return([]model.ProjectSummary{
		summary("p-1"), summary("p-2"), summary("p-1"),
	}, nil)
	svc.EXPECT().GetProject(gomock.Any(), "p-1").Return(helper.Project("p-1", "one", fixedNow.Add(-10*24*time.Hour)), nil).Times(1)
	svc.EXPECT().GetProject(gomock.Any(), "p-2").Return(helper.Project("p-2", "two", fixedNow), nil).Times(1)
	svc.EXPECT().DeleteProject(gomock.Any(), "p-1").Return(nil).Times(1)

	c, out, l := newCollector(t, testConfig(true), svc)

	require.NoError(t, c.Run(context.Background()))
	helper.AssertStatusLines(t, out.String(),
		helper.StatusLine("one", "p-1", cn.StatusDeleting),
		helper.StatusLine("two", "p-2", cn.StatusActive),
	)
	assert.True(t, l.Contains("DEBUG", "Skipping repeated listing of project p-1"))
}

func TestRunSkipsRepeatedListingInLargeOrg(t *testing.T) {
	const total = 1500

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockProjectService(ctrl)

	listing := make([]model.ProjectSummary, 0, total+total/50)
	for i := 0; i < total; i++ {
		listing = append(listing, summary(fmt.Sprintf("p-%04d", i)))
	}

	for i := 0; i < total; i += 50 {
		listing = append(listing, summary(fmt.Sprintf("p-%04d", i)))
	}

	fetched := make(map[string]int, total)
	deleted := make(map[string]int, total)

	svc.EXPECT().ListProjects(gomock.Any()).Return(listing, nil)
	svc.EXPECT().GetProject(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, id string) (model.ProjectDetail, error) {
			fetched[id]++
			return helper.Project(id, "repo-"+id, fixedNow.Add(-30*24*time.Hour)), nil
		}).Times(total)
	svc.EXPECT().DeleteProject(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, id string) error {
			deleted[id]++
			return nil
		}).Times(total)

	c, _, l := newCollector(t, testConfig(true), svc)

	require.NoError(t, c.Run(context.Background()))
	assert.Len(t, fetched, total)
	assert.Len(t, deleted, total)

	for id, n := range deleted {
		assert.Equal(t, 1, n, "project %s deleted more than once", id)
	}

	assert.True(t, l.Contains("DEBUG", "Skipping repeated listing of project p-0000"))
	assert.True(t, l.Contains("DEBUG", "Skipping repeated listing of project p-1450"))
	assert.Zero(t, l.Count("WARN"))
}

func TestRunLogging(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockProjectService(ctrl)

	svc.EXPECT().ListProjects(gomock.Any()).Return([]model.ProjectSummary{summary("p-1")}, nil)
	svc.EXPECT().GetProject(gomock.Any(), "p-1").Return(helper.Project("p-1", "one", fixedNow.Add(-time.Hour)), nil)

	cfg := testConfig(false)
	cfg.Verbose = true

	c, _, l := newCollector(t, cfg, svc)

	require.NoError(t, c.Run(context.Background()))
	assert.True(t, l.Contains("INFO", "Project p-1 last tested 2024-03-15T11:00:00Z"))

	entries := l.GetEntries()
	require.NotEmpty(t, entries)
	assert.Contains(t, entries[0].Fields, "run_id")
	assert.Contains(t, entries[0].Fields, helper.TestOrgID)
}

func TestRunAgainstFakeAPI(t *testing.T) {
	tests := []struct {
		name        string
		deleteMode  bool
		wantLines   []string
		wantDeleted []string
	}{
		{
			name: "dry run",
			wantLines: []string{
				helper.StatusLine("payments", "p-old", cn.StatusWouldDelete),
				helper.StatusLine("frontend", "p-new", cn.StatusActive),
				helper.StatusLine("docs", "p-untested", cn.StatusActive),
			},
		},
		{
			name:       "delete",
			deleteMode: true,
			wantLines: []string{
				helper.StatusLine("payments", "p-old", cn.StatusDeleting),
				helper.StatusLine("frontend", "p-new", cn.StatusActive),
				helper.StatusLine("docs", "p-untested", cn.StatusActive),
			},
			wantDeleted: []string{"p-old"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := helper.NewFakeAPI(t)
			srv.SetPageSize(2)
			srv.AddProject(helper.Project("p-old", "payments", fixedNow.Add(-10*24*time.Hour)))
			srv.AddProject(helper.Project("p-new", "frontend", fixedNow.Add(-3*24*time.Hour)))
			srv.AddProject(helper.Project("p-untested", "docs", time.Time{}))

			cfg := helper.TestConfig(srv.URL)
			cfg.Delete = tt.deleteMode

			apiClient := api.New(cfg, nil, testlogger.New())
			c, out, _ := newCollector(t, cfg, apiClient)

			require.NoError(t, c.Run(context.Background()))
			helper.AssertStatusLines(t, out.String(), tt.wantLines...)
			assert.Equal(t, tt.wantDeleted, srv.Deleted())
			assert.Equal(t, len(tt.wantDeleted), srv.CountRequests(http.MethodDelete))
		})
	}
}

func TestRunAgainstFakeAPIDetailFailure(t *testing.T) {
	srv := helper.NewFakeAPI(t)
	srv.AddProject(helper.Project("p-1", "one", fixedNow.Add(-10*24*time.Hour)))
	srv.AddProject(helper.Project("p-2", "two", fixedNow.Add(-10*24*time.Hour)))
	srv.AddProject(helper.Project("p-3", "three", fixedNow.Add(-10*24*time.Hour)))
	srv.FailDetail("p-2", http.StatusInternalServerError)

	cfg := helper.TestConfig(srv.URL)
	cfg.Delete = true

	c, out, _ := newCollector(t, cfg, api.New(cfg, nil, testlogger.New()))

	err := c.Run(context.Background())
	require.Error(t, err)
	assert.True(t, libErr.IsServerError(err))

	helper.AssertStatusLines(t, out.String(), helper.StatusLine("one", "p-1", cn.StatusDeleting))
	assert.Equal(t, []string{"p-1"}, srv.Deleted())

	for _, r := range srv.Requests() {
		assert.NotContains(t, r.Path, "p-3", "no request may touch projects after the failure")
	}
}
