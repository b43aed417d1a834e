package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Abhishekabysm/task-manager-app/models"
	"github.com/Abhishekabysm/task-manager-app/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	AssignedTo  *string    `json:"assignedTo"`
	Project     *string    `json:"project"`
}

type updateTaskRequest struct {
	Title       *string                    `json:"title"`
	Description *string                    `json:"description"`
	DueDate     models.Optional[time.Time] `json:"dueDate"`
	Priority    *string                    `json:"priority"`
	Status      *string                    `json:"status"`
	AssignedTo  models.Optional[string]    `json:"assignedTo"`
}

// bodyID converts an id string from a request body. Unlike path ids,
// a malformed body id is a validation problem, not NotFound.
func bodyID(w http.ResponseWriter, raw string, field string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid " + field + " id format"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := userID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "No token, authorization denied"})
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid request format"})
		return
	}

	in := services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
	}
	if req.AssignedTo != nil {
		id, ok := bodyID(w, *req.AssignedTo, "assignedTo")
		if !ok {
			return
		}
		in.AssignedTo = &id
	}
	if req.Project != nil {
		id, ok := bodyID(w, *req.Project, "project")
		if !ok {
			return
		}
		in.Project = &id
	}

	task, err := h.service.CreateTask(r.Context(), actor, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	actor, ok := userID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "No token, authorization denied"})
		return
	}

	query := services.TaskListQuery{
		View:     r.URL.Query().Get("view"),
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
		Search:   r.URL.Query().Get("search"),
		DueDate:  r.URL.Query().Get("dueDate"),
	}

	tasks, err := h.service.ListTasks(r.Context(), actor, query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := userID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "No token, authorization denied"})
		return
	}
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.service.GetTask(r.Context(), actor, taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := userID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "No token, authorization denied"})
		return
	}
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid request format"})
		return
	}

	in := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		in.Status = &status
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		in.Priority = &priority
	}
	if req.AssignedTo.Set {
		in.AssignedTo.Set = true
		if req.AssignedTo.Value != nil {
			id, ok := bodyID(w, *req.AssignedTo.Value, "assignedTo")
			if !ok {
				return
			}
			in.AssignedTo.Value = &id
		}
	}

	task, err := h.service.UpdateTask(r.Context(), actor, taskID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := userID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "No token, authorization denied"})
		return
	}
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTask(r.Context(), actor, taskID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Task removed"})
}

// GetNotifications returns the caller's assignment notifications
// (tasks assigned to them, newest first, capped).
func (h *TaskHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := userID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "No token, authorization denied"})
		return
	}

	notifications, err := h.service.GetNotifications(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, notifications)
}

func (h *TaskHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := userID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "No token, authorization denied"})
		return
	}
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.MarkNotificationRead(r.Context(), actor, taskID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Notification marked as read"})
}
