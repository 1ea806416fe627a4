package directory

import (
	"errors"
	"io"
	"net/http"

	directoryerrors "hris-admin/internal/directory/errors"
	"hris-admin/internal/shared/apperror"
	"hris-admin/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("directory.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("directory.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("directory request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetAll(c *gin.Context) {
	h.logger.Debug("http get all users")

	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ToggleLock(c *gin.Context) {
	id := c.Query("id")
	h.logger.Debug("http toggle lock", zap.String("employee_id", id))
	if id == "" {
		h.writeServiceError(c, apperror.RequiredField("id"))
		return
	}

	resp, err := h.service.ToggleLock(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SoftDelete(c *gin.Context) {
	h.delete(c, false)
}

func (h *Handler) HardDelete(c *gin.Context) {
	h.delete(c, true)
}

func (h *Handler) delete(c *gin.Context, permanent bool) {
	id := c.Query("id")
	h.logger.Debug("http delete user", zap.String("employee_id", id), zap.Bool("permanent", permanent))
	if id == "" {
		h.writeServiceError(c, apperror.RequiredField("id"))
		return
	}

	var err error
	if permanent {
		err = h.service.HardDelete(c.Request.Context(), id)
	} else {
		err = h.service.SoftDelete(c.Request.Context(), id)
	}
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "permanent": permanent}, nil)
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	h.logger.Debug("http update user", zap.String("employee_id", id))

	var req UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("http update user validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", apperror.MapValidationError(err).Error())
		return
	}

	photo, err := readPhoto(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req, photo)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func readPhoto(c *gin.Context) (*PhotoUpload, error) {
	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	if header.Size > MaxPhotoSize {
		return nil, directoryerrors.ErrInvalidPhoto
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, MaxPhotoSize+1))
	if err != nil {
		return nil, err
	}
	return &PhotoUpload{Filename: header.Filename, Content: content}, nil
}
