package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cryptadb/crypta/internal/auth"
	"github.com/cryptadb/crypta/internal/domain"
	"github.com/cryptadb/crypta/internal/query"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the export endpoints on a chi subrouter.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.handleQueue)
	r.Get("/", h.handleListJobs)
	r.Get("/{jobID}", h.handleGetJob)
	r.Delete("/{jobID}", h.handleCancel)
	r.Get("/files/{jobID}", h.handleDownload)
	return r
}

// queuePayload accepts filters in either wire form: a "field:value" token
// list or an object of field to value(s).
type queuePayload struct {
	Base       string            `json:"base"`
	Format     string            `json:"format"`
	Filters    json.RawMessage   `json:"filters"`
	StatBounds map[string]string `json:"statBounds"`
}

func (h *Handler) handleQueue(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var payload queuePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}

	// Same normalization as the interactive endpoints, so an export never
	// sees a different row set than /results for the same filters.
	filters, err := query.NormalizeJSON(payload.Filters)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid filters: %v", err), http.StatusBadRequest)
		return
	}

	req := Request{
		Grants:     auth.GrantsFromContext(r.Context()),
		Base:       domain.ParseEntityKind(payload.Base),
		Filters:    filters,
		StatBounds: payload.StatBounds,
		Format:     Format(strings.ToLower(strings.TrimSpace(payload.Format))),
	}
	job, err := h.service.Queue(r.Context(), req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errExportNotPermitted) {
			status = http.StatusForbidden
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusAccepted, h.withDownloadURL(job))
}

func (h *Handler) handleListJobs(w http.ResponseWriter, r *http.Request) {
	statuses := parseStatuses(r.URL.Query()["status"])
	jobs := h.service.ListJobs(statuses)
	out := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, h.withDownloadURL(job))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid job identifier: %v", err), http.StatusBadRequest)
		return
	}
	job, err := h.service.GetJob(jobID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.withDownloadURL(job))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid job identifier: %v", err), http.StatusBadRequest)
		return
	}
	job, err := h.service.CancelJob(jobID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid export identifier: %v", err), http.StatusBadRequest)
		return
	}
	job, err := h.service.GetJob(jobID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if err := h.service.ValidateDownloadToken(jobID, token); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	file, err := h.service.OpenJobFile(job)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	defer file.Close()

	filename := filepath.Base(job.FilePath)
	contentType := job.FileMimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if job.FileByteSize > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(job.FileByteSize, 10))
	}
	http.ServeContent(w, r, filename, job.UpdatedAt, file)
}

// withDownloadURL decorates completed jobs with their signed link.
func (h *Handler) withDownloadURL(job Job) Job {
	job.DownloadURL = h.service.BuildDownloadURL(job)
	return job
}

func parseStatuses(values []string) []JobStatus {
	result := make([]JobStatus, 0, len(values))
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			switch status := JobStatus(strings.ToUpper(strings.TrimSpace(part))); status {
			case JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
				result = append(result, status)
			}
		}
	}
	return result
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
