package services

import (
	"testing"
	"time"

	"github.com/Abhishekabysm/task-manager-app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var filterNow = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func TestBuildTaskFilter_AssignedToMe(t *testing.T) {
	t.Parallel()

	userID := primitive.NewObjectID()
	filter := buildTaskFilter(userID, TaskListQuery{View: ViewAssignedToMe}, filterNow)

	assert.Equal(t, bson.M{"assignedTo": userID}, filter)
}

func TestBuildTaskFilter_CreatedByMe(t *testing.T) {
	t.Parallel()

	userID := primitive.NewObjectID()
	filter := buildTaskFilter(userID, TaskListQuery{View: ViewCreatedByMe}, filterNow)

	assert.Equal(t, bson.M{"createdBy": userID}, filter)
}

func TestBuildTaskFilter_Overdue(t *testing.T) {
	t.Parallel()

	userID := primitive.NewObjectID()
	filter := buildTaskFilter(userID, TaskListQuery{View: ViewOverdue}, filterNow)

	assert.Equal(t, []bson.M{{"createdBy": userID}, {"assignedTo": userID}}, filter["$or"])
	assert.Equal(t, bson.M{"$lt": filterNow}, filter["dueDate"])
	assert.Equal(t, bson.M{"$ne": models.StatusDone}, filter["status"])
}

func TestBuildTaskFilter_All(t *testing.T) {
	t.Parallel()

	filter := buildTaskFilter(primitive.NewObjectID(), TaskListQuery{View: ViewAll}, filterNow)

	assert.Empty(t, filter)
}

func TestBuildTaskFilter_DefaultView(t *testing.T) {
	t.Parallel()

	userID := primitive.NewObjectID()
	filter := buildTaskFilter(userID, TaskListQuery{}, filterNow)

	require.Len(t, filter, 1)
	assert.Equal(t, []bson.M{
		{"createdBy": userID},
		{"assignedTo": userID},
		{"assignedTo": nil},
	}, filter["$or"])
}

func TestBuildTaskFilter_StatusAndPriorityRefinements(t *testing.T) {
	t.Parallel()

	userID := primitive.NewObjectID()
	filter := buildTaskFilter(userID, TaskListQuery{
		View:     ViewCreatedByMe,
		Status:   "In Progress",
		Priority: "High",
	}, filterNow)

	assert.Equal(t, userID, filter["createdBy"])
	assert.Equal(t, models.StatusInProgress, filter["status"])
	assert.Equal(t, models.PriorityHigh, filter["priority"])
}

func TestBuildTaskFilter_InvalidEnumsIgnored(t *testing.T) {
	t.Parallel()

	filter := buildTaskFilter(primitive.NewObjectID(), TaskListQuery{
		View:     ViewAll,
		Status:   "Blocked",
		Priority: "Urgent",
	}, filterNow)

	_, hasStatus := filter["status"]
	_, hasPriority := filter["priority"]
	assert.False(t, hasStatus, "unknown status must be ignored, not applied")
	assert.False(t, hasPriority, "unknown priority must be ignored, not applied")
}

func TestBuildTaskFilter_DueToday(t *testing.T) {
	t.Parallel()

	filter := buildTaskFilter(primitive.NewObjectID(), TaskListQuery{DueDate: "today"}, filterNow)

	window, ok := filter["dueDate"].(bson.M)
	require.True(t, ok)

	start := window["$gte"].(time.Time)
	end := window["$lt"].(time.Time)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, start.AddDate(0, 0, 1), end)
}

func TestBuildTaskFilter_TodayReplacesOverdueWindow(t *testing.T) {
	t.Parallel()

	filter := buildTaskFilter(primitive.NewObjectID(), TaskListQuery{
		View:    ViewOverdue,
		DueDate: "today",
	}, filterNow)

	window, ok := filter["dueDate"].(bson.M)
	require.True(t, ok)
	_, hasLt := window["$lt"].(time.Time)
	_, hasGte := window["$gte"].(time.Time)
	assert.True(t, hasLt)
	assert.True(t, hasGte, "today window must replace the overdue dueDate predicate")

	// The not-done constraint from the view is untouched.
	assert.Equal(t, bson.M{"$ne": models.StatusDone}, filter["status"])
}

func TestBuildTaskFilter_DueOverdueOutsideOverdueView(t *testing.T) {
	t.Parallel()

	filter := buildTaskFilter(primitive.NewObjectID(), TaskListQuery{
		View:    ViewCreatedByMe,
		DueDate: "overdue",
	}, filterNow)

	assert.Equal(t, bson.M{"$lt": filterNow}, filter["dueDate"])
	assert.Equal(t, bson.M{"$ne": models.StatusDone}, filter["status"])
}

func TestBuildTaskFilter_DueOverdueMergesWithStatusFilter(t *testing.T) {
	t.Parallel()

	filter := buildTaskFilter(primitive.NewObjectID(), TaskListQuery{
		View:    ViewCreatedByMe,
		Status:  "To Do",
		DueDate: "overdue",
	}, filterNow)

	// The equality filter narrows, it is not overwritten.
	assert.Equal(t, bson.M{"$eq": models.StatusToDo, "$ne": models.StatusDone}, filter["status"])
}

func TestBuildTaskFilter_DueOverdueIgnoredInOverdueView(t *testing.T) {
	t.Parallel()

	userID := primitive.NewObjectID()
	filter := buildTaskFilter(userID, TaskListQuery{View: ViewOverdue, DueDate: "overdue"}, filterNow)

	// view=overdue already set the window; dueDate=overdue must not
	// touch it again.
	assert.Equal(t, bson.M{"$lt": filterNow}, filter["dueDate"])
	assert.Equal(t, bson.M{"$ne": models.StatusDone}, filter["status"])
}

func TestBuildTaskFilter_Search(t *testing.T) {
	t.Parallel()

	filter := buildTaskFilter(primitive.NewObjectID(), TaskListQuery{
		View:   ViewAll,
		Search: "launch plan",
	}, filterNow)

	assert.Equal(t, bson.M{"$search": "launch plan"}, filter["$text"])
}
