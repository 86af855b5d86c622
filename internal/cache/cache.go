package cache

import (
	"github.com/LerianStudio/lib-commons/commons/log"
	"github.com/LerianStudio/snyk-gc-projects/constant"
	"github.com/LerianStudio/snyk-gc-projects/model"
	"github.com/dgraph-io/ristretto/v2"
)

// Manager remembers the projects already processed during a run
type Manager struct {
	cache  *ristretto.Cache[string, model.ProjectDetail]
	logger log.Logger
}

// New creates a new cache manager
func New(logger log.Logger) (*Manager, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, model.ProjectDetail]{
		NumCounters:        constant.CacheNumCounters,
		MaxCost:            constant.CacheMaxCost,
		BufferItems:        constant.CacheBufferItems,
		IgnoreInternalCost: true,
		OnEvict: func(item *ristretto.Item[model.ProjectDetail]) {
			logger.Warnf("Cache evicted processed project %s", item.Value.ID)
		},
		OnReject: func(item *ristretto.Item[model.ProjectDetail]) {
			logger.Warnf("Cache rejected project %s", item.Value.ID)
		},
	})
	if err != nil {
		return nil, err
	}

	return &Manager{
		cache:  cache,
		logger: logger,
	}, nil
}

// Get returns the processed detail of a project, if any
func (m *Manager) Get(projectID string) (model.ProjectDetail, bool) {
	detail, found := m.cache.Get(projectID)
	if found {
		m.logger.Debugf("Project %s already processed in this run", projectID)
	}

	return detail, found
}

// Store records a processed project. The write is visible to Get on return.
func (m *Manager) Store(projectID string, detail model.ProjectDetail) {
	if !m.cache.SetWithTTL(projectID, detail, 1, constant.CacheTTL) {
		m.logger.Warnf("Cache rejected project %s", projectID)
		return
	}

	m.cache.Wait()
	m.logger.Debugf("Stored processed project %s", projectID)
}

// Close releases the cache goroutines
func (m *Manager) Close() {
	m.cache.Close()
}
