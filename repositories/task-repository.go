package repositories

import (
	"context"
	"fmt"

	"github.com/Abhishekabysm/task-manager-app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskRepository is the persistence surface for task records. GetByID
// returns (nil, nil) when no document matches. All listing methods sort
// newest-created-first.
type TaskRepository interface {
	Insert(ctx context.Context, task *models.Task) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	Replace(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Find(ctx context.Context, filter bson.M) ([]models.Task, error)
	FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error)
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error)
	FindAssigned(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Task, error)
}

type MongoTaskRepository struct {
	collection *mongo.Collection
}

func NewMongoTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{collection: db.Collection("tasks")}
}

func (r *MongoTaskRepository) Insert(ctx context.Context, task *models.Task) (primitive.ObjectID, error) {
	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert task: %v", err)
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *MongoTaskRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task: %v", err)
	}
	return &task, nil
}

func (r *MongoTaskRepository) Replace(ctx context.Context, task *models.Task) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return fmt.Errorf("failed to update task: %v", err)
	}
	return nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}
	return nil
}

func (r *MongoTaskRepository) Find(ctx context.Context, filter bson.M) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %v", err)
	}
	return tasks, nil
}

func (r *MongoTaskRepository) FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	return r.Find(ctx, bson.M{"project": projectID})
}

// DeleteByProject removes every task referencing the project and
// reports how many were removed. Deleting by filter is idempotent, so
// a failed cascade can be retried safely.
func (r *MongoTaskRepository) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"project": projectID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete project tasks: %v", err)
	}
	return result.DeletedCount, nil
}

func (r *MongoTaskRepository) FindAssigned(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Task, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"assignedTo": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode assigned tasks: %v", err)
	}
	return tasks, nil
}
