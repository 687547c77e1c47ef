package importer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verdant-shop/verdant/internal/platform/httpx"
)

// maxPayloadBytes caps uploaded CSV size.
const maxPayloadBytes = 8 << 20

// Enqueuer submits queued import runs; implemented by the jobs client.
type Enqueuer interface {
	EnqueueProductImport(ctx context.Context, payload TaskPayload) error
}

// Handler serves the admin bulk-import API.
type Handler struct {
	logger   *slog.Logger
	pipeline *Pipeline
	runs     RunStore
	enqueuer Enqueuer
}

// NewHandler builds Handler. The enqueuer may be nil, disabling the async path.
func NewHandler(logger *slog.Logger, pipeline *Pipeline, runs RunStore, enqueuer Enqueuer) *Handler {
	return &Handler{logger: logger, pipeline: pipeline, runs: runs, enqueuer: enqueuer}
}

// MountRoutes registers import routes; callers mount them behind admin auth.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.importProducts)
	r.Post("/async", h.importProductsAsync)
	r.Get("/runs", h.listRuns)
}

// importProducts runs a synchronous import. mode=preview applies only the
// admission filter; the default mode executes all admitted writes.
func (h *Handler) importProducts(w http.ResponseWriter, r *http.Request) {
	payload, _, err := readPayload(w, r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	rows, err := h.pipeline.Parse(strings.NewReader(payload))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Unreadable Payload", err.Error())
		return
	}

	if r.URL.Query().Get("mode") == "preview" {
		httpx.JSON(w, http.StatusOK, h.pipeline.PreviewRows(rows))
		return
	}

	report := h.pipeline.Execute(r.Context(), rows)
	status := http.StatusOK
	if report.Failed > 0 {
		// Partial effects are kept (no rollback); the report carries both
		// the inserted count and the failure cause.
		status = http.StatusInternalServerError
	}
	httpx.JSON(w, status, report)
}

func (h *Handler) importProductsAsync(w http.ResponseWriter, r *http.Request) {
	if h.enqueuer == nil || h.runs == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "async imports are not configured")
		return
	}
	payload, source, err := readPayload(w, r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	run := Run{
		ID:         uuid.NewString(),
		Source:     source,
		Status:     RunStatusQueued,
		EnqueuedAt: time.Now().UTC(),
	}
	if err := h.runs.Insert(r.Context(), run); err != nil {
		h.logger.Error("insert import run", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	task := TaskPayload{RunID: run.ID, Source: run.Source, CSV: payload}
	if err := h.enqueuer.EnqueueProductImport(r.Context(), task); err != nil {
		h.logger.Error("enqueue import run", slog.Any("error", err))
		if ferr := h.runs.Finish(r.Context(), run.ID, RunStatusFailed, Report{}, "enqueue failed"); ferr != nil {
			h.logger.Error("mark run failed", slog.Any("error", ferr))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"run_id": run.ID})
}

func (h *Handler) listRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.runs.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("list import runs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if runs == nil {
		runs = []Run{}
	}
	httpx.JSON(w, http.StatusOK, runs)
}

// readPayload extracts the CSV text and a source label from either a
// multipart "file" field or the raw request body.
func readPayload(w http.ResponseWriter, r *http.Request) (string, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPayloadBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", "", errors.New("multipart upload requires a \"file\" field")
		}
		defer file.Close()
		raw, err := io.ReadAll(file)
		if err != nil {
			return "", "", err
		}
		return string(raw), header.Filename, nil
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return "", "", err
	}
	if len(raw) == 0 {
		return "", "", errors.New("empty payload")
	}
	return string(raw), "inline", nil
}
