package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"singularshift/internal/audit"
	"singularshift/internal/model"
	"singularshift/internal/service"
)

// maxReportBody bounds a report-generate payload
const maxReportBody = 1 << 20

// ReportHandler accepts finished sessions for report generation
type ReportHandler struct {
	reportSvc *service.ReportService
	logger    *zap.Logger
}

func NewReportHandler(reportSvc *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, logger: logger}
}

// Generate handles POST /api/report-generate
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req model.ReportGenerateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxReportBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, model.ReportGenerateResponse{Error: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, model.ReportGenerateResponse{Error: "invalid request body"})
		return
	}

	doc, err := h.reportSvc.Generate(r.Context(), &req)
	var perr *audit.PersistenceError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, model.ReportGenerateResponse{Success: true, ID: doc.ID})
	case errors.Is(err, service.ErrMissingUserID), errors.Is(err, audit.ErrNoMessages):
		writeJSON(w, http.StatusBadRequest, model.ReportGenerateResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInterviewExists):
		writeJSON(w, http.StatusConflict, model.ReportGenerateResponse{Error: "interview already stored"})
	case errors.As(err, &perr):
		writeJSON(w, http.StatusInternalServerError, model.ReportGenerateResponse{Error: "failed to store interview"})
	default:
		h.logger.Error("report generation failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, model.ReportGenerateResponse{Error: "failed to generate report"})
	}
}
