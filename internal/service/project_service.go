package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ProjectService manages projects and per-project memberships.
type ProjectService struct {
	projects repository.ProjectRepository
	clients  repository.ClientRepository
	users    repository.UserRepository
}

// NewProjectService constructs the service.
func NewProjectService(projects repository.ProjectRepository, clients repository.ClientRepository, users repository.UserRepository) *ProjectService {
	return &ProjectService{projects: projects, clients: clients, users: users}
}

// Create registers a project under a client.
func (s *ProjectService) Create(ctx context.Context, clientID, name string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("client", map[string]any{"client_id": clientID})
		}
		return nil, apperrors.MapError(err)
	}

	project := &domain.Project{ClientID: clientID, Name: name}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperrors.MapError(err)
	}
	return project, nil
}

// Get returns a project by id.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project", map[string]any{"project_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return project, nil
}

// ListByClient returns a client's projects.
func (s *ProjectService) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]domain.Project, error) {
	projects, err := s.projects.ListByClient(ctx, clientID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return projects, nil
}

// SetMember grants or updates a user's permissions on a project.
func (s *ProjectService) SetMember(ctx context.Context, projectID, userID string, canRaise, canBeAssigned bool) (*domain.ProjectMember, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project", map[string]any{"project_id": projectID})
		}
		return nil, apperrors.MapError(err)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}

	member := &domain.ProjectMember{
		ProjectID:     projectID,
		UserID:        userID,
		CanRaise:      canRaise,
		CanBeAssigned: canBeAssigned,
	}
	if err := s.projects.UpsertMember(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	return member, nil
}
