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

// notificationLimit caps the derived notification feed.
const notificationLimit = 10

type TaskService struct {
	tasks repositories.TaskRepository
	users repositories.UserRepository
}

func NewTaskService(tasks repositories.TaskRepository, users repositories.UserRepository) *TaskService {
	return &TaskService{tasks: tasks, users: users}
}

// CreateTaskInput carries the validated-at-the-edge fields for a new
// task. AssignedTo and Project are optional references.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
	Project     *primitive.ObjectID
	AssignedTo  *primitive.ObjectID
}

// UpdateTaskInput is a partial update. Optional fields distinguish
// "leave alone" from "set to null".
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     models.Optional[time.Time]
	AssignedTo  models.Optional[primitive.ObjectID]
}

// Empty reports whether the update carries no fields at all.
func (in UpdateTaskInput) Empty() bool {
	return in.Title == nil && in.Description == nil && in.Status == nil &&
		in.Priority == nil && !in.DueDate.Set && !in.AssignedTo.Set
}

func validateCreateTask(in CreateTaskInput) error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if len(in.Title) > models.MaxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", apperrors.ErrValidation, models.MaxTitleLength)
	}
	if len(in.Description) > models.MaxDescriptionLength {
		return fmt.Errorf("%w: description must be at most %d characters", apperrors.ErrValidation, models.MaxDescriptionLength)
	}
	if !in.Status.Valid() {
		return fmt.Errorf("%w: invalid status %q", apperrors.ErrValidation, in.Status)
	}
	if !in.Priority.Valid() {
		return fmt.Errorf("%w: invalid priority %q", apperrors.ErrValidation, in.Priority)
	}
	return nil
}

// checkAssignee confirms a referenced assignee exists. A nil assignee is
// always valid and means "unassigned".
func (s *TaskService) checkAssignee(ctx context.Context, assignee *primitive.ObjectID) error {
	if assignee == nil {
		return nil
	}
	exists, err := s.users.Exists(ctx, *assignee)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrAssigneeNotFound
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, actor primitive.ObjectID, in CreateTaskInput) (*models.TaskDetail, error) {
	if err := validateCreateTask(in); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, in.AssignedTo); err != nil {
		return nil, err
	}

	now := time.Now()
	task := &models.Task{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Project:     in.Project,
		CreatedBy:   actor,
		AssignedTo:  in.AssignedTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := s.tasks.Insert(ctx, task)
	if err != nil {
		return nil, err
	}
	task.ID = id

	if task.AssignedTo != nil {
		logging.Logger.Infof("Event ID: TASK_ASSIGNED, Description: Task %s created and assigned to user %s", task.ID.Hex(), task.AssignedTo.Hex())
	}

	return s.resolveDetail(ctx, task), nil
}

// GetTask fetches a single task. The creator and the assignee may read
// it; everyone else gets Forbidden.
func (s *TaskService) GetTask(ctx context.Context, actor, taskID primitive.ObjectID) (*models.TaskDetail, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: task %s", apperrors.ErrNotFound, taskID.Hex())
	}
	if task.CreatedBy != actor && (task.AssignedTo == nil || *task.AssignedTo != actor) {
		return nil, fmt.Errorf("%w: only the creator or assignee can view this task", apperrors.ErrForbidden)
	}
	return s.resolveDetail(ctx, task), nil
}

// ListTasks builds the filter for the requested view and returns the
// matching tasks, newest first, with user references resolved.
func (s *TaskService) ListTasks(ctx context.Context, actor primitive.ObjectID, q TaskListQuery) ([]models.TaskDetail, error) {
	filter := buildTaskFilter(actor, q, time.Now())

	tasks, err := s.tasks.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.resolveDetails(ctx, tasks), nil
}

func (s *TaskService) UpdateTask(ctx context.Context, actor, taskID primitive.ObjectID, in UpdateTaskInput) (*models.TaskDetail, error) {
	if in.Empty() {
		return nil, fmt.Errorf("%w: at least one field must be provided", apperrors.ErrValidation)
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: task %s", apperrors.ErrNotFound, taskID.Hex())
	}
	if task.CreatedBy != actor {
		return nil, fmt.Errorf("%w: only the creator can modify this task", apperrors.ErrForbidden)
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidation)
		}
		if len(*in.Title) > models.MaxTitleLength {
			return nil, fmt.Errorf("%w: title must be at most %d characters", apperrors.ErrValidation, models.MaxTitleLength)
		}
		task.Title = *in.Title
	}
	if in.Description != nil {
		if len(*in.Description) > models.MaxDescriptionLength {
			return nil, fmt.Errorf("%w: description must be at most %d characters", apperrors.ErrValidation, models.MaxDescriptionLength)
		}
		task.Description = *in.Description
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("%w: invalid status %q", apperrors.ErrValidation, *in.Status)
		}
		task.Status = *in.Status
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, fmt.Errorf("%w: invalid priority %q", apperrors.ErrValidation, *in.Priority)
		}
		task.Priority = *in.Priority
	}
	if in.DueDate.Set {
		task.DueDate = in.DueDate.Value
	}
	if in.AssignedTo.Set {
		if err := s.checkAssignee(ctx, in.AssignedTo.Value); err != nil {
			return nil, err
		}
		changed := !assigneesEqual(task.AssignedTo, in.AssignedTo.Value)
		task.AssignedTo = in.AssignedTo.Value
		if in.AssignedTo.Value != nil {
			// Opportunistic stamp: only assignment-setting updates record
			// who made them.
			task.LastModifiedBy = &actor
		}
		if changed {
			task.NotificationRead = false
		}
	}

	task.UpdatedAt = time.Now()

	if err := s.tasks.Replace(ctx, task); err != nil {
		return nil, err
	}

	if in.AssignedTo.Set && task.AssignedTo != nil {
		logging.Logger.Infof("Event ID: TASK_ASSIGNED, Description: Task %s updated and assigned to user %s", task.ID.Hex(), task.AssignedTo.Hex())
	}

	return s.resolveDetail(ctx, task), nil
}

func (s *TaskService) DeleteTask(ctx context.Context, actor, taskID primitive.ObjectID) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("%w: task %s", apperrors.ErrNotFound, taskID.Hex())
	}
	if task.CreatedBy != actor {
		return fmt.Errorf("%w: only the creator can delete this task", apperrors.ErrForbidden)
	}
	return s.tasks.Delete(ctx, taskID)
}

// GetNotifications returns the tasks assigned to the caller, newest
// first, capped. Notifications are a derived view over tasks, not a
// stored entity.
func (s *TaskService) GetNotifications(ctx context.Context, actor primitive.ObjectID) ([]models.TaskDetail, error) {
	tasks, err := s.tasks.FindAssigned(ctx, actor, notificationLimit)
	if err != nil {
		return nil, err
	}
	return s.resolveDetails(ctx, tasks), nil
}

// MarkNotificationRead sets the read flag on an assignment
// notification. Only the task's assignee may mark it.
func (s *TaskService) MarkNotificationRead(ctx context.Context, actor, taskID primitive.ObjectID) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("%w: task %s", apperrors.ErrNotFound, taskID.Hex())
	}
	if task.AssignedTo == nil || *task.AssignedTo != actor {
		return fmt.Errorf("%w: notification does not belong to this user", apperrors.ErrForbidden)
	}
	if task.NotificationRead {
		return nil
	}
	task.NotificationRead = true
	return s.tasks.Replace(ctx, task)
}

func assigneesEqual(a, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// resolveDetail attaches display-safe creator/assignee projections to a
// task. Unresolvable references are left nil rather than failing the
// request.
func (s *TaskService) resolveDetail(ctx context.Context, task *models.Task) *models.TaskDetail {
	detail := &models.TaskDetail{Task: *task}
	detail.Creator = s.lookupSummary(ctx, &task.CreatedBy)
	detail.Assignee = s.lookupSummary(ctx, task.AssignedTo)
	return detail
}

func (s *TaskService) resolveDetails(ctx context.Context, tasks []models.Task) []models.TaskDetail {
	cache := make(map[primitive.ObjectID]*models.UserSummary)
	details := make([]models.TaskDetail, 0, len(tasks))
	for i := range tasks {
		task := tasks[i]
		detail := models.TaskDetail{Task: task}
		detail.Creator = s.lookupSummaryCached(ctx, cache, &task.CreatedBy)
		detail.Assignee = s.lookupSummaryCached(ctx, cache, task.AssignedTo)
		details = append(details, detail)
	}
	return details
}

func (s *TaskService) lookupSummary(ctx context.Context, id *primitive.ObjectID) *models.UserSummary {
	if id == nil {
		return nil
	}
	user, err := s.users.GetByID(ctx, *id)
	if err != nil || user == nil {
		return nil
	}
	return user.Summary()
}

func (s *TaskService) lookupSummaryCached(ctx context.Context, cache map[primitive.ObjectID]*models.UserSummary, id *primitive.ObjectID) *models.UserSummary {
	if id == nil {
		return nil
	}
	if summary, ok := cache[*id]; ok {
		return summary
	}
	summary := s.lookupSummary(ctx, id)
	cache[*id] = summary
	return summary
}
