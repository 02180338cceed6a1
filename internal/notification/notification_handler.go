package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kaleaditya28897-linux/gatepass/internal/shared/apperror"
	"github.com/kaleaditya28897-linux/gatepass/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("notification.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) GetAll(c *gin.Context) {
	filter := ListNotificationFilter{
		Channel: c.Query("channel"),
		Status:  c.Query("status"),
	}

	resp, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("list notifications failed", zap.Error(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
