package services

import (
	"time"

	"github.com/Abhishekabysm/task-manager-app/logging"
	"github.com/Abhishekabysm/task-manager-app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskListQuery carries the raw list-endpoint filters. View selects the
// base predicate; the rest are refinements composed onto it.
type TaskListQuery struct {
	View     string
	Status   string
	Priority string
	Search   string
	DueDate  string
}

// Named dashboard views.
const (
	ViewAssignedToMe = "assignedToMe"
	ViewCreatedByMe  = "createdByMe"
	ViewOverdue      = "overdue"
	ViewAll          = "all"
)

// buildTaskFilter translates a requested view plus refinements into the
// Mongo predicate for the task list. Unrecognized status and priority
// values are ignored, not errors.
func buildTaskFilter(userID primitive.ObjectID, q TaskListQuery, now time.Time) bson.M {
	filter := bson.M{}

	switch q.View {
	case ViewAssignedToMe:
		filter["assignedTo"] = userID
	case ViewCreatedByMe:
		filter["createdBy"] = userID
	case ViewOverdue:
		// Overdue tasks the user created or is assigned to, not yet done.
		filter["$or"] = []bson.M{
			{"createdBy": userID},
			{"assignedTo": userID},
		}
		filter["dueDate"] = bson.M{"$lt": now}
		filter["status"] = bson.M{"$ne": models.StatusDone}
	case ViewAll:
		// No ownership restriction.
	default:
		// Tasks the user created or is assigned to, plus unassigned ones.
		filter["$or"] = []bson.M{
			{"createdBy": userID},
			{"assignedTo": userID},
			{"assignedTo": nil},
		}
	}

	if q.Status != "" {
		if models.TaskStatus(q.Status).Valid() {
			filter["status"] = models.TaskStatus(q.Status)
		} else {
			logging.Logger.Warnf("Event ID: INVALID_STATUS_FILTER, Description: Ignoring invalid status filter: %s", q.Status)
		}
	}
	if q.Priority != "" {
		if models.TaskPriority(q.Priority).Valid() {
			filter["priority"] = models.TaskPriority(q.Priority)
		} else {
			logging.Logger.Warnf("Event ID: INVALID_PRIORITY_FILTER, Description: Ignoring invalid priority filter: %s", q.Priority)
		}
	}

	if q.DueDate == "today" {
		// Due within [local midnight, local midnight + 1 day). Replaces
		// any due-date window already set by view=overdue.
		todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		filter["dueDate"] = bson.M{"$gte": todayStart, "$lt": todayStart.AddDate(0, 0, 1)}
	} else if q.DueDate == "overdue" && q.View != ViewOverdue {
		filter["dueDate"] = bson.M{"$lt": now}
		// Narrow status to exclude Done, merging with an equality filter
		// already set above rather than overwriting it.
		if existing, ok := filter["status"]; ok {
			if status, isEquality := existing.(models.TaskStatus); isEquality {
				filter["status"] = bson.M{"$eq": status, "$ne": models.StatusDone}
			}
		} else {
			filter["status"] = bson.M{"$ne": models.StatusDone}
		}
	}

	if q.Search != "" {
		filter["$text"] = bson.M{"$search": q.Search}
	}

	return filter
}
