package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxProjectsPerUser caps how many projects one user may own at a time.
// Checked at creation only, never enforced retroactively.
const MaxProjectsPerUser = 4

type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProjectDetail is a project together with its tasks, as returned by the
// single-project endpoint. The task list is derived by query; the project
// document itself never stores task references.
type ProjectDetail struct {
	Project Project      `json:"project"`
	Tasks   []TaskDetail `json:"tasks"`
}
