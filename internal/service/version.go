package service

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/zephyr-reporter/internal/model"
)

// ErrVersionNotFound is returned when the configured version name does not
// exist in the project.
var ErrVersionNotFound = errors.New("version not found")

// VersionResolver picks the project version a run is reported under.
type VersionResolver struct {
	// Name is the configured version name; model.UnscheduledVersionName
	// means "pick one".
	Name string

	// ReleaseBuild reports whether the build under test is a release.
	ReleaseBuild bool

	// Now returns the reference time for date based selection.
	Now func() time.Time

	Logger *zap.Logger
}

// Resolve returns the version to report under.
//
// A configured name other than Unscheduled must match a version exactly.
// Otherwise release builds use the version with the latest start date
// before now, and everything else falls back to the unscheduled version.
func (r VersionResolver) Resolve(project model.Project) (model.Version, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	name := r.Name
	if name == "" {
		name = model.UnscheduledVersionName
	}

	if name != model.UnscheduledVersionName {
		logger.Debug("finding version by name", zap.String("version", name))
		for _, v := range project.Versions {
			if v.Name == name {
				return v, nil
			}
		}
		return model.Version{}, fmt.Errorf("%w: unable to find version for name: %s", ErrVersionNotFound, name)
	}

	if !r.ReleaseBuild {
		logger.Debug("development build, using unscheduled version")
		return model.UnscheduledVersion(), nil
	}

	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}

	logger.Debug("finding version by start date", zap.Time("now", now))
	chosen := model.UnscheduledVersion()
	var chosenStart time.Time
	for _, v := range project.Versions {
		if v.StartDate.IsZero() || !v.StartDate.Before(now) {
			continue
		}
		if chosenStart.IsZero() || v.StartDate.After(chosenStart) {
			chosen = v
			chosenStart = v.StartDate
		}
	}
	return chosen, nil
}
