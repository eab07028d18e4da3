package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annomania/annomania-api/internal/handlers/response"
	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/middleware"
	"github.com/annomania/annomania-api/internal/services"
	"github.com/annomania/annomania-api/internal/types"
)

type SetHandler struct {
	log        *logger.Logger
	setService services.SetService
}

func NewSetHandler(log *logger.Logger, setService services.SetService) *SetHandler {
	return &SetHandler{
		log:        log.With("handler", "SetHandler"),
		setService: setService,
	}
}

// List answers the public catalogue: every non-private set in its reduced
// projection.
func (h *SetHandler) List(c *gin.Context) {
	sets, err := h.setService.ListPublic(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, "list_sets_failed", err)
		return
	}
	out := make([]types.PublicSet, 0, len(sets))
	for _, set := range sets {
		out = append(out, set.ToPublic())
	}
	response.RespondOK(c, out)
}

func (h *SetHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var input services.SetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_set_payload", err)
		return
	}

	set, err := h.setService.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		respondServiceError(c, h.log, "create_set_failed", err)
		return
	}
	response.RespondCreated(c, set)
}

// Get returns the full set to its owner and the public projection to
// everyone else. Private sets never reach this point for non-owners.
func (h *SetHandler) Get(c *gin.Context) {
	set := middleware.CurrentSet(c)
	user := middleware.CurrentUser(c)
	if set == nil || user == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if set.IsOwner(user.ID) {
		response.RespondOK(c, set)
		return
	}
	response.RespondOK(c, set.ToPublic())
}

func (h *SetHandler) Update(c *gin.Context) {
	set := middleware.CurrentSet(c)

	var input services.SetUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_set_payload", err)
		return
	}

	updated, err := h.setService.Update(c.Request.Context(), set.ID, input)
	if err != nil {
		respondServiceError(c, h.log, "update_set_failed", err)
		return
	}
	response.RespondOK(c, updated)
}

func (h *SetHandler) Delete(c *gin.Context) {
	set := middleware.CurrentSet(c)
	if err := h.setService.Delete(c.Request.Context(), set.ID); err != nil {
		respondServiceError(c, h.log, "delete_set_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": set.ID})
}
