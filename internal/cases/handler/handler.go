// Package handler is the thin HTTP layer over the case service. It decodes
// requests, delegates, and maps domain error codes to status codes; business
// logic stays in the service.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"caseflow/internal/cases/models"
	"caseflow/internal/cases/service"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/requestcontext"
)

type Handler struct {
	svc *service.Service
	log *zap.Logger
}

func New(svc *service.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register mounts the case routes. The router is expected to already carry
// the request-meta and authentication middleware.
func (h *Handler) Register(r chi.Router) {
	r.Route("/cases", func(r chi.Router) {
		r.Post("/", h.createCase)
		r.Get("/", h.listCases)
		r.Route("/{caseID}", func(r chi.Router) {
			r.Get("/", h.getCase)
			r.Delete("/", h.deleteCase)
			r.Patch("/status", h.updateStatus)
			r.Post("/assignments", h.createAssignment)
			r.Delete("/assignments/{assignmentID}", h.removeAssignment)
			r.Get("/audit", h.getAuditLog)
		})
	})
}

func (h *Handler) createCase(w http.ResponseWriter, r *http.Request) {
	var req createCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeValidation, "invalid JSON body"))
		return
	}
	c, err := h.svc.CreateCase(r.Context(), req.CaseType, req.AssignedCourt, requestcontext.Actor(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) listCases(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.ListCases(r.Context(), requestcontext.Actor(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listCasesResponse{Cases: views})
}

func (h *Handler) getCase(w http.ResponseWriter, r *http.Request) {
	caseID, err := id.ParseCaseID(chi.URLParam(r, "caseID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	view, err := h.svc.GetCase(r.Context(), caseID, requestcontext.Actor(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	caseID, err := id.ParseCaseID(chi.URLParam(r, "caseID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeValidation, "invalid JSON body"))
		return
	}
	change, err := h.svc.UpdateStatus(r.Context(), caseID, models.CaseStatus(req.Status),
		requestcontext.Actor(r.Context()), req.Reason, req.ExpectedVersion)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updateStatusResponse{
		Case:           change.Case,
		PreviousStatus: string(change.PreviousStatus),
	})
}

func (h *Handler) deleteCase(w http.ResponseWriter, r *http.Request) {
	caseID, err := id.ParseCaseID(chi.URLParam(r, "caseID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := h.svc.DeleteCase(r.Context(), caseID, requestcontext.Actor(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createAssignment(w http.ResponseWriter, r *http.Request) {
	caseID, err := id.ParseCaseID(chi.URLParam(r, "caseID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req createAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeValidation, "invalid JSON body"))
		return
	}
	userID, err := id.ParseUserID(req.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	a, err := h.svc.CreateAssignment(r.Context(), caseID, userID,
		models.AssignmentType(req.AssignmentType), requestcontext.Actor(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, a)
}

func (h *Handler) removeAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := id.ParseAssignmentID(chi.URLParam(r, "assignmentID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.RemoveAssignment(r.Context(), assignmentID, requestcontext.Actor(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getAuditLog(w http.ResponseWriter, r *http.Request) {
	caseID, err := id.ParseCaseID(chi.URLParam(r, "caseID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	entries, err := h.svc.GetAuditLog(r.Context(), caseID, requestcontext.Actor(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, auditLogResponse{Entries: entries})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("failed to write response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := dErrors.CodeOf(err)
	body := errorResponse{Error: string(code)}

	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		body.Description = domainErr.Message
		body.Details = domainErr.Details
	}
	if code == dErrors.CodeInternal {
		h.log.Error("internal error",
			zap.String("request_id", requestcontext.RequestID(r.Context())),
			zap.Error(err))
		body.Description = "internal error"
		body.Details = nil
	}
	h.writeJSON(w, httpStatus(code), body)
}

func httpStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeTerminalStatus, dErrors.CodeInvalidTransition, dErrors.CodeReasonRequired:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
