// Package jira looks up projects and issues through the JIRA REST API v2.
package jira

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/nhle/zephyr-reporter/internal/model"
	"github.com/nhle/zephyr-reporter/internal/source"
)

// apiPath is the JIRA REST API root relative to the server URL.
const apiPath = "/rest/api/2"

// Service wraps the JIRA endpoints the reporter needs.
type Service struct {
	client *source.Client
	logger *zap.Logger
}

// NewService creates a JIRA service for the server at baseURL.
func NewService(
	baseURL string,
	username string,
	password string,
	logger *zap.Logger,
	opts ...source.Option,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = append([]source.Option{source.WithLogger(logger)}, opts...)
	return &Service{
		client: source.NewClient(source.KindJira, baseURL+apiPath, username, password, opts...),
		logger: logger,
	}
}

// Myself verifies credentials and returns the user's display name.
func (s *Service) Myself(ctx context.Context) (string, error) {
	var me Myself
	if err := s.client.Get(ctx, "/myself", &me); err != nil {
		return "", fmt.Errorf("validating JIRA connection: %w", err)
	}
	return me.DisplayName, nil
}

// FindProject returns the project with the given id or key, including its
// versions. A response without a project yields nil.
func (s *Service) FindProject(ctx context.Context, idOrKey string) (*model.Project, error) {
	s.logger.Debug("finding project", zap.String("project", idOrKey))

	var p Project
	if err := s.client.Get(ctx, "/project/"+url.PathEscape(idOrKey), &p); err != nil {
		return nil, fmt.Errorf("fetching JIRA project %s: %w", idOrKey, err)
	}
	if p.ID == "" {
		return nil, nil
	}

	project, err := MapProject(p)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("found project",
		zap.Int64("id", project.ID),
		zap.Int("versions", len(project.Versions)),
	)
	return &project, nil
}

// FindIssue returns the issue with the given key. A response without an
// issue yields nil.
func (s *Service) FindIssue(ctx context.Context, key string) (*model.Issue, error) {
	s.logger.Debug("finding issue", zap.String("issue", key))

	var i Issue
	path := "/issue/" + url.PathEscape(key) + "?fields=summary,project"
	if err := s.client.Get(ctx, path, &i); err != nil {
		return nil, fmt.Errorf("fetching JIRA issue %s: %w", key, err)
	}
	if i.ID == "" {
		return nil, nil
	}

	issue, err := MapIssue(i)
	if err != nil {
		return nil, err
	}
	return &issue, nil
}
