package audit

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
	l := zap.L().Named("audit.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) GetAll(c *gin.Context) {
	filter := ListAuditFilter{
		Action:       c.Query("action"),
		ResourceType: c.Query("resource_type"),
		ActorID:      c.Query("actor_id"),
	}

	resp, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("list audit logs failed", zap.Error(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
