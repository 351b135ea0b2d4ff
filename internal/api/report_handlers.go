package api

// Handlers for creating and inspecting Feed API inventory report tasks.

import (
	"log"
	"net/http"
	"strconv"
)

// handleGenerateReport asks eBay to start generating an active
// inventory report and returns the new task id.
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r)

	task, err := s.app.EbayClient().CreateInventoryTask(r.Context(), session.AccessToken)
	if err != nil {
		log.Printf("Failed to create inventory task: %v", err)
		RespondWithError(w, http.StatusBadGateway, "Failed to create inventory task")
		return
	}
	RespondWithJSON(w, http.StatusAccepted, task)
}

// handleReportStatus returns the Feed API state of one report task.
func (s *Server) handleReportStatus(w http.ResponseWriter, r *http.Request) {
	taskID := r.URL.Query().Get("task_id")
	if taskID == "" {
		RespondWithError(w, http.StatusBadRequest, "Missing task_id parameter")
		return
	}

	session := getSessionFromContext(r)
	task, err := s.app.EbayClient().GetTaskStatus(r.Context(), session.AccessToken, taskID)
	if err != nil {
		log.Printf("Failed to fetch task status for %s: %v", taskID, err)
		RespondWithError(w, http.StatusBadGateway, "Failed to fetch task status")
		return
	}
	RespondWithJSON(w, http.StatusOK, task)
}

// handleRecentReports lists report tasks created in the last N days
// (default 7).
func (s *Server) handleRecentReports(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			RespondWithError(w, http.StatusBadRequest, "Invalid days parameter")
			return
		}
		days = parsed
	}

	session := getSessionFromContext(r)
	tasks, err := s.app.EbayClient().GetRecentTasks(r.Context(), session.AccessToken, days)
	if err != nil {
		log.Printf("Failed to fetch recent tasks: %v", err)
		RespondWithError(w, http.StatusBadGateway, "Failed to fetch recent tasks")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})
}
