package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nhle/zephyr-reporter/internal/model"
)

// CycleResolver picks, and if needed creates, the cycle a run is reported
// under.
type CycleResolver struct {
	store CycleStore

	// Name is the configured cycle name; model.AdhocCycleName means
	// "pick one".
	Name string

	// RunName names the cycle created for release builds.
	RunName string

	// ReleaseBuild reports whether the build under test is a release.
	ReleaseBuild bool

	logger *zap.Logger
}

// NewCycleResolver creates a CycleResolver backed by store.
func NewCycleResolver(
	store CycleStore,
	name string,
	runName string,
	releaseBuild bool,
	logger *zap.Logger,
) *CycleResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if name == "" {
		name = model.AdhocCycleName
	}
	return &CycleResolver{
		store:        store,
		Name:         name,
		RunName:      runName,
		ReleaseBuild: releaseBuild,
		logger:       logger,
	}
}

// Resolve returns the cycle to report under for project and version.
//
// A configured cycle name is looked up among the version's cycles and
// created when missing. With the default "Ad hoc" name, release builds use
// a cycle named after the run and all other builds use the ad hoc
// pseudo-cycle.
func (r *CycleResolver) Resolve(
	ctx context.Context,
	project model.Project,
	version model.Version,
) (model.Cycle, error) {
	name := r.Name
	if name == model.AdhocCycleName {
		if !r.ReleaseBuild || r.RunName == "" {
			r.logger.Debug("using ad hoc cycle")
			return model.AdhocCycle(version), nil
		}
		name = r.RunName
	}

	cycles, err := r.store.FindCycles(ctx, project, version)
	if err != nil {
		r.logger.Warn("could not list cycles, a new one will be created",
			zap.Int64("version_id", version.ID),
			zap.Error(err),
		)
		cycles = nil
	}

	for _, c := range cycles {
		if c.Name == name {
			r.logger.Debug("cycle found", zap.Int64("cycle_id", c.ID), zap.String("name", name))
			return c, nil
		}
	}

	r.logger.Info("creating cycle",
		zap.String("name", name),
		zap.Int64("version_id", version.ID),
	)
	created, err := r.store.CreateCycle(ctx, name, project, version)
	if err == nil && created == nil {
		err = fmt.Errorf("empty response")
	}
	if err != nil {
		return model.Cycle{}, fmt.Errorf("unable to create cycle %q: %w", name, err)
	}
	return *created, nil
}
