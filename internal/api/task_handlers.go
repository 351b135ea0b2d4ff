package api

// Handlers for report downloads, enrichment runs and progress tracking.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Staninbui/wood/internal/artifact"
	"github.com/Staninbui/wood/internal/enrich"
)

// handleQueryTasks looks up a single task by id, or lists recent tasks
// when no id is given.
func (s *Server) handleQueryTasks(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TaskID string `json:"task_id"`
		Days   int    `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	session := getSessionFromContext(r)

	if body.TaskID != "" {
		task, err := s.app.EbayClient().GetTaskStatus(r.Context(), session.AccessToken, body.TaskID)
		if err != nil {
			log.Printf("Failed to query task %s: %v", body.TaskID, err)
			RespondWithError(w, http.StatusBadGateway, "Failed to query task")
			return
		}
		RespondWithJSON(w, http.StatusOK, task)
		return
	}

	if body.Days < 1 {
		body.Days = 7
	}
	tasks, err := s.app.EbayClient().GetRecentTasks(r.Context(), session.AccessToken, body.Days)
	if err != nil {
		log.Printf("Failed to query tasks: %v", err)
		RespondWithError(w, http.StatusBadGateway, "Failed to query tasks")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})
}

// handleDownloadReport proxies the raw report archive to the caller.
func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	session := getSessionFromContext(r)

	data, err := s.app.EbayClient().DownloadResult(r.Context(), session.AccessToken, taskID)
	if err != nil {
		log.Printf("Failed to download report for task %s: %v", taskID, err)
		RespondWithError(w, http.StatusBadGateway, "Failed to download report file")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report_%s.zip"`, taskID))
	w.Write(data)
}

// handleEnrichTask kicks off the enrichment pipeline for a finished
// report task. Only one run per task can be in flight.
func (s *Server) handleEnrichTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	session := getSessionFromContext(r)

	err := s.app.Enricher().Enrich(taskID, session.AccessToken)
	if errors.Is(err, enrich.ErrAlreadyRunning) {
		RespondWithError(w, http.StatusConflict, "Enrichment already running for this task")
		return
	}
	if err != nil {
		log.Printf("Failed to start enrichment for task %s: %v", taskID, err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to start enrichment")
		return
	}
	RespondWithJSON(w, http.StatusAccepted, map[string]string{
		"task_id": taskID,
		"status":  "started",
	})
}

// handleGetProgress returns a one-shot progress snapshot.
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	info, ok := s.app.Tracker().Get(taskID)
	if !ok {
		RespondWithError(w, http.StatusNotFound, "No progress for this task")
		return
	}
	RespondWithJSON(w, http.StatusOK, info)
}

// handleStreamProgress streams progress snapshots as server-sent events
// at a one second cadence until the run reaches a terminal state or the
// client goes away.
func (s *Server) handleStreamProgress(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	if _, ok := s.app.Tracker().Get(taskID); !ok {
		RespondWithError(w, http.StatusNotFound, "No progress for this task")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		RespondWithError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sendSnapshot := func() (terminal bool) {
		info, ok := s.app.Tracker().Get(taskID)
		if !ok {
			// Swept mid-stream; nothing more to say.
			return true
		}
		payload, err := json.Marshal(info)
		if err != nil {
			return true
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
		return info.Status.Terminal()
	}

	if sendSnapshot() {
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if sendSnapshot() {
				return
			}
		}
	}
}

// handleDeleteProgress removes the progress record of a finished run.
func (s *Server) handleDeleteProgress(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	info, ok := s.app.Tracker().Get(taskID)
	if !ok {
		RespondWithError(w, http.StatusNotFound, "No progress for this task")
		return
	}
	if !info.Status.Terminal() {
		RespondWithError(w, http.StatusConflict, "Enrichment still running")
		return
	}

	s.app.Tracker().Cleanup(taskID)
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// handleDownloadArtifact serves a generated template file.
func (s *Server) handleDownloadArtifact(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		RespondWithError(w, http.StatusBadRequest, "Unsupported format")
		return
	}

	if info, ok := s.app.Tracker().Get(taskID); ok && !info.Status.Terminal() {
		RespondWithError(w, http.StatusConflict, "Template not ready yet")
		return
	}

	file, err := s.app.Artifacts().Open(taskID, format)
	if errors.Is(err, artifact.ErrNotFound) {
		RespondWithError(w, http.StatusNotFound, "No template for this task")
		return
	}
	if err != nil {
		log.Printf("Failed to open artifact for task %s: %v", taskID, err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to open template file")
		return
	}
	defer file.Close()

	contentType := "text/csv; charset=utf-8"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, artifact.DownloadName(taskID, format)))
	io.Copy(w, file)
}
