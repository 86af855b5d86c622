package collector

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/LerianStudio/lib-commons/commons/log"
	"github.com/LerianStudio/lib-commons/commons/zap"
	cn "github.com/LerianStudio/snyk-gc-projects/constant"
	"github.com/LerianStudio/snyk-gc-projects/internal/cache"
	"github.com/LerianStudio/snyk-gc-projects/model"
	"github.com/google/uuid"
)

// Client garbage-collects the stale projects of one organization
type Client struct {
	config       model.Config
	service      ProjectService
	cacheManager *cache.Manager
	logger       log.Logger
	out          io.Writer
	now          func() time.Time
}

// New creates a collector. Status lines are written to out (stdout when
// nil). A nil logger is replaced by the default zap logger.
func New(cfg model.Config, service ProjectService, logger log.Logger, out io.Writer) (*Client, error) {
	if logger == nil {
		logger = zap.InitializeLogger()
	}

	if out == nil {
		out = os.Stdout
	}

	cacheManager, err := cache.New(logger)
	if err != nil {
		logger.Errorf("Failed to initialize cache: %s", err.Error())
		return nil, err
	}

	return &Client{
		config:       cfg,
		service:      service,
		cacheManager: cacheManager,
		logger:       logger,
		out:          out,
		now:          time.Now,
	}, nil
}

// SetClock overrides the clock used for staleness decisions
func (c *Client) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// Close releases the resources held by the collector
func (c *Client) Close() {
	c.cacheManager.Close()
}

// Run checks every project of the organization in listing order. Stale
// projects are deleted in delete mode and reported otherwise. The first
// error aborts the run.
func (c *Client) Run(ctx context.Context) error {
	l := c.logger.WithFields("run_id", uuid.NewString(), "org_id", c.config.OrgID)

	projects, err := c.service.ListProjects(ctx)
	if err != nil {
		l.Errorf("Failed to list projects: %v", err)
		return fmt.Errorf("failed to list projects: %w", err)
	}

	l.Infof("Checking %d projects, age threshold %d days, dry run %t",
		len(projects), c.config.AgeDays, c.config.DryRun())

	for _, summary := range projects {
		if err := c.collect(ctx, l, summary); err != nil {
			return err
		}
	}

	return nil
}

// collect handles a single listed project
func (c *Client) collect(ctx context.Context, l log.Logger, summary model.ProjectSummary) error {
	if _, seen := c.cacheManager.Get(summary.ID); seen {
		l.Debugf("Skipping repeated listing of project %s", summary.ID)
		return nil
	}

	project, err := c.service.GetProject(ctx, summary.ID)
	if err != nil {
		l.Errorf("Failed to fetch project %s: %v", summary.ID, err)
		return fmt.Errorf("failed to fetch project %s: %w", summary.ID, err)
	}

	if project.ID != summary.ID {
		l.Warnf("Project detail id %s does not match listed id %s", project.ID, summary.ID)
	}

	stale, err := c.classify(l, project)
	if err != nil {
		l.Errorf("Failed to classify project %s: %v", project.ID, err)
		return fmt.Errorf("failed to classify project %s: %w", project.ID, err)
	}

	status := cn.StatusActive

	switch {
	case stale && c.config.Delete:
		status = cn.StatusDeleting
	case stale:
		status = cn.StatusWouldDelete
	}

	fmt.Fprintf(c.out, "Checking project %s / %s : %s\n", project.Name, project.ID, status)

	if status == cn.StatusDeleting {
		if err := c.service.DeleteProject(ctx, project.ID); err != nil {
			l.Errorf("Failed to delete project %s: %v", project.ID, err)
			return fmt.Errorf("failed to delete project %s: %w", project.ID, err)
		}

		l.Infof("Deleted project %s (%s)", project.Name, project.ID)
	}

	c.cacheManager.Store(summary.ID, project)

	return nil
}

func (c *Client) classify(l log.Logger, project model.ProjectDetail) (bool, error) {
	if c.config.Verbose && project.LastTestedDate != nil && *project.LastTestedDate != "" {
		if lastTested, err := ParseLastTested(*project.LastTestedDate); err == nil {
			l.Infof("Project %s last tested %s", project.ID, lastTested.Format(time.RFC3339))
		}
	}

	return IsStale(project, c.config.AgeDays, c.now().UTC())
}
