package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"singularshift/internal/model"
	"singularshift/internal/service"
	"singularshift/internal/transport/rest/middleware"
)

// InterviewHandler serves stored interviews and their feedback
type InterviewHandler struct {
	interviews *service.InterviewService
	authSvc    *service.AuthService
	logger     *zap.Logger
}

func NewInterviewHandler(interviews *service.InterviewService, authSvc *service.AuthService, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{interviews: interviews, authSvc: authSvc, logger: logger}
}

// List handles GET /api/interviews
func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.interviews.ListForUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.fail(w, "failed to list interviews", err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// Latest handles GET /api/interviews/latest?limit=
func (h *InterviewHandler) Latest(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	docs, err := h.interviews.Latest(r.Context(), middleware.GetUserID(r.Context()), limit)
	if err != nil {
		h.fail(w, "failed to list latest interviews", err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// Get handles GET /api/interviews/{id}
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Feedback handles GET /api/interviews/{id}/feedback
func (h *InterviewHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.interviews.FeedbackFor(r.Context(), mux.Vars(r)["id"], doc))
}

// Stats handles GET /api/admin/stats
func (h *InterviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.interviews.Stats(r.Context())
	if err != nil {
		h.fail(w, "failed to count interviews", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Leaderboard handles GET /api/admin/leaderboard?category=&limit=
func (h *InterviewHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := model.RoleCategory(q.Get("category"))
	if !category.Valid() {
		writeError(w, http.StatusBadRequest, "unknown role category")
		return
	}
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.interviews.Leaderboard(r.Context(), category, limit)
	if err != nil {
		h.fail(w, "failed to load leaderboard", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// load fetches the interview in the path; only its owner or an admin may read it
func (h *InterviewHandler) load(w http.ResponseWriter, r *http.Request) (*model.InterviewDocument, bool) {
	doc, err := h.interviews.Get(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, service.ErrInterviewNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	if err != nil {
		h.fail(w, "failed to load interview", err)
		return nil, false
	}

	ctx := r.Context()
	if doc.UserID != middleware.GetUserID(ctx) && !h.authSvc.IsAdmin(middleware.GetEmail(ctx)) {
		writeError(w, http.StatusForbidden, "interview belongs to another user")
		return nil, false
	}
	return doc, true
}

func (h *InterviewHandler) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, msg)
}
