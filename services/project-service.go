package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Abhishekabysm/task-manager-app/apperrors"
	"github.com/Abhishekabysm/task-manager-app/logging"
	"github.com/Abhishekabysm/task-manager-app/models"
	"github.com/Abhishekabysm/task-manager-app/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectService struct {
	projects repositories.ProjectRepository
	tasks    repositories.TaskRepository
	users    repositories.UserRepository
}

func NewProjectService(projects repositories.ProjectRepository, tasks repositories.TaskRepository, users repositories.UserRepository) *ProjectService {
	return &ProjectService{projects: projects, tasks: tasks, users: users}
}

func validateProjectInput(name, description string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if len(name) > models.MaxTitleLength {
		return fmt.Errorf("%w: name must be at most %d characters", apperrors.ErrValidation, models.MaxTitleLength)
	}
	if len(description) > models.MaxDescriptionLength {
		return fmt.Errorf("%w: description must be at most %d characters", apperrors.ErrValidation, models.MaxDescriptionLength)
	}
	return nil
}

// CreateProject creates a project owned by the actor, enforcing the
// per-user cap. The count-then-insert sequence is not transactional:
// concurrent creations by the same user can race past the cap, so the
// check is advisory.
func (s *ProjectService) CreateProject(ctx context.Context, actor primitive.ObjectID, name, description string) (*models.Project, error) {
	if err := validateProjectInput(name, description); err != nil {
		return nil, err
	}

	count, err := s.projects.CountByCreator(ctx, actor)
	if err != nil {
		return nil, err
	}
	if count >= models.MaxProjectsPerUser {
		return nil, fmt.Errorf("%w: maximum %d projects", apperrors.ErrLimitExceeded, models.MaxProjectsPerUser)
	}

	now := time.Now()
	project := &models.Project{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		CreatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := s.projects.Insert(ctx, project)
	if err != nil {
		return nil, err
	}
	project.ID = id
	return project, nil
}

// ListProjects returns the actor's own projects, newest first.
func (s *ProjectService) ListProjects(ctx context.Context, actor primitive.ObjectID) ([]models.Project, error) {
	return s.projects.FindByCreator(ctx, actor)
}

// GetProject returns a project together with its tasks. Owner only.
func (s *ProjectService) GetProject(ctx context.Context, actor, projectID primitive.ObjectID) (*models.ProjectDetail, error) {
	project, err := s.getOwned(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	details := make([]models.TaskDetail, 0, len(tasks))
	cache := make(map[primitive.ObjectID]*models.UserSummary)
	for i := range tasks {
		detail := models.TaskDetail{Task: tasks[i]}
		if tasks[i].AssignedTo != nil {
			detail.Assignee = s.cachedSummary(ctx, cache, *tasks[i].AssignedTo)
		}
		details = append(details, detail)
	}

	return &models.ProjectDetail{Project: *project, Tasks: details}, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, actor, projectID primitive.ObjectID, name, description string) (*models.Project, error) {
	if err := validateProjectInput(name, description); err != nil {
		return nil, err
	}

	project, err := s.getOwned(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}

	project.Name = name
	project.Description = description
	project.UpdatedAt = time.Now()

	if err := s.projects.Replace(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes a project and every task referencing it. Tasks
// go first; if the project delete then fails the tasks are already gone,
// which is surfaced distinctly as ErrCascadeIncomplete so operators can
// reconcile. The task deletion is idempotent, so a retry is safe.
func (s *ProjectService) DeleteProject(ctx context.Context, actor, projectID primitive.ObjectID) error {
	if _, err := s.getOwned(ctx, actor, projectID); err != nil {
		return err
	}

	deleted, err := s.tasks.DeleteByProject(ctx, projectID)
	if err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, projectID); err != nil {
		logging.Logger.Errorf("Event ID: PROJECT_CASCADE_INCOMPLETE, Description: Deleted %d tasks for project %s but project delete failed: %v", deleted, projectID.Hex(), err)
		return fmt.Errorf("%w: project %s", apperrors.ErrCascadeIncomplete, projectID.Hex())
	}

	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s and %d associated tasks removed", projectID.Hex(), deleted)
	return nil
}

func (s *ProjectService) getOwned(ctx context.Context, actor, projectID primitive.ObjectID) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID.Hex())
	}
	if project.CreatedBy != actor {
		return nil, fmt.Errorf("%w: only the creator can access this project", apperrors.ErrForbidden)
	}
	return project, nil
}

func (s *ProjectService) cachedSummary(ctx context.Context, cache map[primitive.ObjectID]*models.UserSummary, id primitive.ObjectID) *models.UserSummary {
	if summary, ok := cache[id]; ok {
		return summary
	}
	var summary *models.UserSummary
	if user, err := s.users.GetByID(ctx, id); err == nil && user != nil {
		summary = user.Summary()
	}
	cache[id] = summary
	return summary
}
