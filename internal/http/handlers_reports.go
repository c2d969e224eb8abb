package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/storewatch/uptime-api/internal/domain/model"
	"github.com/storewatch/uptime-api/internal/export"
	"github.com/storewatch/uptime-api/internal/service"
)

// ReportHandlers exposes the trigger/poll endpoints of the report pipeline.
type ReportHandlers struct {
	Svc    *service.ReportService
	Logger *slog.Logger
}

// Trigger starts a new report job and returns its id immediately.
func (h *ReportHandlers) Trigger(w http.ResponseWriter, r *http.Request) {
	id, err := h.Svc.Trigger(r.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.ErrorContext(r.Context(), "trigger report failed", "error", err)
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "trigger_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusAccepted, map[string]string{"report_id": id})
}

// Get polls a report job. While the job runs (or after it failed) the
// response is a status document; once Complete it is the rendered artifact,
// stable across repeated polls.
func (h *ReportHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	format := export.FormatCSV
	if raw := r.URL.Query().Get("format"); raw != "" {
		parsed, err := export.ParseFormat(raw)
		if err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_format", Err: err})
			return
		}
		format = parsed
	}

	result, err := h.Svc.Get(r.Context(), id)
	switch {
	case errors.Is(err, model.ErrReportNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "report_not_found", Err: err})
		return
	case err != nil:
		if h.Logger != nil {
			h.Logger.ErrorContext(r.Context(), "poll report failed", "id", id, "error", err)
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "poll_failed", Err: err})
		return
	}

	switch result.Status {
	case model.ReportStatusRunning:
		WriteJSON(w, http.StatusOK, map[string]string{"status": string(result.Status)})
	case model.ReportStatusError:
		body := map[string]string{"status": string(result.Status)}
		if result.LastError != nil {
			body["message"] = *result.LastError
		}
		WriteJSON(w, http.StatusOK, body)
	case model.ReportStatusComplete:
		h.writeArtifact(w, r, result.Artifact, format)
	default:
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "unknown_status",
			Err:     errors.New("report in unknown state"),
		})
	}
}

func (h *ReportHandlers) writeArtifact(w http.ResponseWriter, r *http.Request, artifact []byte, format export.Format) {
	rendered, err := export.Render(artifact, format)
	if err != nil {
		if h.Logger != nil {
			h.Logger.ErrorContext(r.Context(), "render artifact failed", "format", format, "error", err)
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "render_failed", Err: err})
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(rendered)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(rendered); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}
