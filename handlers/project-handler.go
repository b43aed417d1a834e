package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Abhishekabysm/task-manager-app/services"
)

type ProjectHandler struct {
	service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := userID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "No token, authorization denied"})
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid request format"})
		return
	}

	project, err := h.service.CreateProject(r.Context(), actor, req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	actor, ok := userID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "No token, authorization denied"})
		return
	}

	projects, err := h.service.ListProjects(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

// GetProject returns a project with its tasks.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := userID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "No token, authorization denied"})
		return
	}
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.service.GetProject(r.Context(), actor, projectID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := userID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "No token, authorization denied"})
		return
	}
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid request format"})
		return
	}

	project, err := h.service.UpdateProject(r.Context(), actor, projectID, req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// DeleteProject removes a project and cascades to its tasks.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := userID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "No token, authorization denied"})
		return
	}
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteProject(r.Context(), actor, projectID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Project and associated tasks removed"})
}
