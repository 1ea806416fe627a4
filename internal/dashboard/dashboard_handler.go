package dashboard

import (
	"context"
	"errors"
	"io"
	"net/http"

	"hris-admin/internal/shared/apperror"
	"hris-admin/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionProvider returns the dashboard session of a user.
type SessionProvider interface {
	Get(userID string) *Session
}

type Handler struct {
	sessions SessionProvider
	logger   *zap.Logger
}

func NewHandler(sessions SessionProvider, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("dashboard.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.handler")
	}
	return &Handler{sessions: sessions, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("dashboard request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) session(c *gin.Context) (*Session, context.Context) {
	ctx := c.Request.Context()
	s := h.sessions.Get(c.GetString("user_id"))
	s.Touch(ctx)
	return s, ctx
}

func (h *Handler) GetEmployees(c *gin.Context) {
	status, err := ParseStatusFilter(c.Query("status"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}
	lock, err := ParseLockFilter(c.Query("lock"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	s, ctx := h.session(c)
	h.logger.Debug("http list dashboard employees",
		zap.String("session_id", s.ID),
		zap.String("status", string(status)),
		zap.String("lock", string(lock)),
	)

	view, err := s.List(ctx, FilterCriteria{Search: c.Query("q"), Status: status, Lock: lock})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, meta := response.Paginate(c, mapToListResponse(view))
	response.Success(c, http.StatusOK, page, &meta)
}

func (h *Handler) Refresh(c *gin.Context) {
	s, ctx := h.session(c)
	h.logger.Debug("http refresh dashboard employees", zap.String("session_id", s.ID))

	if err := s.Refresh(ctx); err != nil {
		h.writeServiceError(c, err)
		return
	}

	view := s.Store().View()
	page, meta := response.Paginate(c, mapToListResponse(view))
	response.Success(c, http.StatusOK, page, &meta)
}

func (h *Handler) OpenMenu(c *gin.Context) {
	s, _ := h.session(c)
	snap, err := s.OpenMenu(c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, mapSelection(snap), nil)
}

func (h *Handler) CloseSelection(c *gin.Context) {
	s, _ := h.session(c)
	response.Success(c, http.StatusOK, mapSelection(s.CloseSelection()), nil)
}

func (h *Handler) GetSelection(c *gin.Context) {
	s, _ := h.session(c)
	response.Success(c, http.StatusOK, mapSelection(s.Selection().Snapshot()), nil)
}

func (h *Handler) ToggleLock(c *gin.Context) {
	id := c.Param("id")
	var req ToggleLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http toggle lock validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	s, ctx := h.session(c)
	h.logger.Debug("http toggle lock",
		zap.String("session_id", s.ID),
		zap.String("employee_id", id),
		zap.Bool("confirm", *req.Confirm),
	)

	out, err := s.ToggleLock(ctx, id, Answer(*req.Confirm))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, LockResponse{ID: out.ID, Locked: out.Locked, Applied: out.Applied}, nil)
}

func (h *Handler) OpenDeleteConfirmation(c *gin.Context) {
	id := c.Param("id")
	var req OpenDeleteConfirmationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
			return
		}
	}

	s, _ := h.session(c)
	pending, err := s.OpenDeleteConfirmation(id, req.Permanent)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, mapPending(pending), nil)
}

func (h *Handler) EnterConfirmation(c *gin.Context) {
	var req EnterConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	s, _ := h.session(c)
	pending, err := s.EnterConfirmation(req.Text)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, mapPending(pending), nil)
}

func (h *Handler) SubmitDeletion(c *gin.Context) {
	var req SubmitDeletionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
			return
		}
	}

	s, ctx := h.session(c)
	pending, err := s.SubmitDeletion(ctx, req.Text)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.logger.Info("employee deleted from dashboard",
		zap.String("session_id", s.ID),
		zap.String("employee_id", pending.RecordID),
		zap.Bool("permanent", pending.Permanent),
	)
	response.Success(c, http.StatusOK, gin.H{"deleted": true, "id": pending.RecordID, "permanent": pending.Permanent}, nil)
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	var form UpdateEmployeeForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	photo, err := readPhoto(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Foto tidak bisa dibaca", err.Error())
		return
	}

	s, ctx := h.session(c)
	rec, err := s.Update(ctx, id, UpdateFields{
		Name:         form.Name,
		Email:        form.Email,
		Phone:        form.Phone,
		EmployeeCode: form.EmployeeCode,
		Designation:  form.Designation,
		Password:     form.Password,
	}, photo)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, mapToResponse(rec), nil)
}

func (h *Handler) GetNotifications(c *gin.Context) {
	s, _ := h.session(c)
	response.Success(c, http.StatusOK, s.Toasts().Drain(), nil)
}

func readPhoto(c *gin.Context) (*Photo, error) {
	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Baca satu byte lebih supaya Gateway bisa menolak file yang terlalu besar.
	content, err := io.ReadAll(io.LimitReader(f, MaxPhotoSize+1))
	if err != nil {
		return nil, err
	}
	return &Photo{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}
