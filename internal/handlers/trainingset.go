package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/annomania/annomania-api/internal/handlers/response"
	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/middleware"
	"github.com/annomania/annomania-api/internal/services"
)

type TrainingSetHandler struct {
	log                *logger.Logger
	trainingSetService services.TrainingSetService
}

func NewTrainingSetHandler(log *logger.Logger, trainingSetService services.TrainingSetService) *TrainingSetHandler {
	return &TrainingSetHandler{
		log:                log.With("handler", "TrainingSetHandler"),
		trainingSetService: trainingSetService,
	}
}

// Export streams the page as a JSON array straight onto the response body.
// Errors after the first byte cannot change the status anymore; they close
// the connection mid-array, which a JSON consumer detects as truncation.
func (h *TrainingSetHandler) Export(c *gin.Context) {
	set := middleware.CurrentSet(c)

	page, ok := positiveIntQuery(c, "page", services.DefaultExportPage)
	if !ok {
		return
	}
	amount, ok := positiveIntQuery(c, "amount", services.DefaultExportAmount)
	if !ok {
		return
	}

	annotationTypeID := uuid.Nil
	if raw := c.Query("annotationType"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_annotation_type", err)
			return
		}
		annotationTypeID = parsed
	}

	c.Header("Content-Type", "application/json; charset=utf-8")
	err := h.trainingSetService.Export(c.Request.Context(), set, annotationTypeID, page, amount, c.Writer)
	if err != nil {
		if c.Writer.Written() {
			h.log.Error("training set stream aborted", "set_id", set.ID, "error", err)
			c.Abort()
			return
		}
		respondServiceError(c, h.log, "export_trainingset_failed", err)
	}
}

func positiveIntQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_"+name, err)
		return 0, false
	}
	return parsed, true
}
