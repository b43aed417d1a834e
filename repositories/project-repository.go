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

// ProjectRepository is the persistence surface for project records.
// GetByID returns (nil, nil) when no document matches.
type ProjectRepository interface {
	Insert(ctx context.Context, project *models.Project) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	Replace(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByCreator(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error)
	CountByCreator(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type MongoProjectRepository struct {
	collection *mongo.Collection
}

func NewMongoProjectRepository(db *mongo.Database) *MongoProjectRepository {
	return &MongoProjectRepository{collection: db.Collection("projects")}
}

func (r *MongoProjectRepository) Insert(ctx context.Context, project *models.Project) (primitive.ObjectID, error) {
	result, err := r.collection.InsertOne(ctx, project)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert project: %v", err)
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *MongoProjectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project: %v", err)
	}
	return &project, nil
}

func (r *MongoProjectRepository) Replace(ctx context.Context, project *models.Project) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": project.ID}, project)
	if err != nil {
		return fmt.Errorf("failed to update project: %v", err)
	}
	return nil
}

func (r *MongoProjectRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete project: %v", err)
	}
	return nil
}

func (r *MongoProjectRepository) FindByCreator(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"createdBy": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %v", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %v", err)
	}
	return projects, nil
}

func (r *MongoProjectRepository) CountByCreator(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"createdBy": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %v", err)
	}
	return count, nil
}
