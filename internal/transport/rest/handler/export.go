package handler

import (
	"net/http"

	"go.uber.org/zap"

	"singularshift/internal/service"
)

// ExportHandler serves the fine-tuning dataset
type ExportHandler struct {
	exportSvc *service.ExportService
	logger    *zap.Logger
}

func NewExportHandler(exportSvc *service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, logger: logger}
}

// lazyWriter sends the attachment headers with the first byte of the body
type lazyWriter struct {
	w       http.ResponseWriter
	started bool
}

func (l *lazyWriter) Write(p []byte) (int, error) {
	if !l.started {
		l.started = true
		l.w.Header().Set("Content-Type", "application/octet-stream")
		l.w.Header().Set("Content-Disposition", "attachment; filename="+service.TrainingFilename)
		l.w.WriteHeader(http.StatusOK)
	}
	return l.w.Write(p)
}

// TrainingData handles GET /api/export/training-data
func (h *ExportHandler) TrainingData(w http.ResponseWriter, r *http.Request) {
	lw := &lazyWriter{w: w}
	_, _, err := h.exportSvc.WriteJSONL(r.Context(), lw)
	switch {
	case err != nil && !lw.started:
		h.logger.Error("error exporting training data", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to export training data")
	case err != nil:
		h.logger.Error("training data export interrupted", zap.Error(err))
	case !lw.started:
		// nothing finalized yet: an empty file
		lw.Write(nil)
	}
}
