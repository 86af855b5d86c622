package collector

import (
	"context"

	"github.com/LerianStudio/snyk-gc-projects/model"
)

//go:generate mockgen -source=service.go -destination=../test/mocks/project_service.go -package=mocks

// ProjectService is the subset of the Snyk API the collector drives
type ProjectService interface {
	ListProjects(ctx context.Context) ([]model.ProjectSummary, error)
	GetProject(ctx context.Context, id string) (model.ProjectDetail, error)
	DeleteProject(ctx context.Context, id string) error
}
