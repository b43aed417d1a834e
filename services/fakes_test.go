package services

// In-memory repository fakes for the service tests.

import (
	"context"
	"sort"

	"github.com/Abhishekabysm/task-manager-app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserRepo) add(name, email string) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.users[id] = &models.User{ID: id, Name: name, Email: email, Password: "hashed", Country: "US"}
	return id
}

func (f *fakeUserRepo) Insert(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	f.users[user.ID] = &copied
	return user.ID, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserRepo) ListSummaries(_ context.Context) ([]models.UserSummary, error) {
	summaries := make([]models.UserSummary, 0, len(f.users))
	for _, user := range f.users {
		summaries = append(summaries, *user.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

type fakeTaskRepo struct {
	tasks map[primitive.ObjectID]*models.Task

	lastFilter bson.M
	findResult []models.Task

	replaceErr error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[primitive.ObjectID]*models.Task)}
}

func (f *fakeTaskRepo) Insert(_ context.Context, task *models.Task) (primitive.ObjectID, error) {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	copied := *task
	f.tasks[task.ID] = &copied
	return task.ID, nil
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, nil
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepo) Replace(_ context.Context, task *models.Task) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) Find(_ context.Context, filter bson.M) ([]models.Task, error) {
	f.lastFilter = filter
	return f.findResult, nil
}

func (f *fakeTaskRepo) FindByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	var tasks []models.Task
	for _, task := range f.tasks {
		if task.Project != nil && *task.Project == projectID {
			tasks = append(tasks, *task)
		}
	}
	sortNewestFirst(tasks)
	return tasks, nil
}

func (f *fakeTaskRepo) DeleteByProject(_ context.Context, projectID primitive.ObjectID) (int64, error) {
	var deleted int64
	for id, task := range f.tasks {
		if task.Project != nil && *task.Project == projectID {
			delete(f.tasks, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeTaskRepo) FindAssigned(_ context.Context, userID primitive.ObjectID, limit int64) ([]models.Task, error) {
	var tasks []models.Task
	for _, task := range f.tasks {
		if task.AssignedTo != nil && *task.AssignedTo == userID {
			tasks = append(tasks, *task)
		}
	}
	sortNewestFirst(tasks)
	if int64(len(tasks)) > limit {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

func sortNewestFirst(tasks []models.Task) {
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
}

type fakeProjectRepo struct {
	projects map[primitive.ObjectID]*models.Project

	deleteErr error
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[primitive.ObjectID]*models.Project)}
}

func (f *fakeProjectRepo) Insert(_ context.Context, project *models.Project) (primitive.ObjectID, error) {
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	copied := *project
	f.projects[project.ID] = &copied
	return project.ID, nil
}

func (f *fakeProjectRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	project, ok := f.projects[id]
	if !ok {
		return nil, nil
	}
	copied := *project
	return &copied, nil
}

func (f *fakeProjectRepo) Replace(_ context.Context, project *models.Project) error {
	copied := *project
	f.projects[project.ID] = &copied
	return nil
}

func (f *fakeProjectRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectRepo) FindByCreator(_ context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	var projects []models.Project
	for _, project := range f.projects {
		if project.CreatedBy == userID {
			projects = append(projects, *project)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].CreatedAt.After(projects[j].CreatedAt) })
	return projects, nil
}

func (f *fakeProjectRepo) CountByCreator(_ context.Context, userID primitive.ObjectID) (int64, error) {
	var count int64
	for _, project := range f.projects {
		if project.CreatedBy == userID {
			count++
		}
	}
	return count, nil
}
