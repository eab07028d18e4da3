package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/annomania/annomania-api/internal/handlers/response"
	"github.com/annomania/annomania-api/internal/logger"
	"github.com/annomania/annomania-api/internal/middleware"
	"github.com/annomania/annomania-api/internal/services"
	"github.com/annomania/annomania-api/internal/strategy"
	"github.com/annomania/annomania-api/internal/types"
)

type TextHandler struct {
	log         *logger.Logger
	textService services.TextService
}

func NewTextHandler(log *logger.Logger, textService services.TextService) *TextHandler {
	return &TextHandler{
		log:         log.With("handler", "TextHandler"),
		textService: textService,
	}
}

// Add accepts one text object or an array of them.
func (h *TextHandler) Add(c *gin.Context) {
	set := middleware.CurrentSet(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_text_payload", err)
		return
	}

	var inputs []services.TextInput
	batch := true
	if err := json.Unmarshal(body, &inputs); err != nil {
		var single services.TextInput
		if err := json.Unmarshal(body, &single); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_text_payload", err)
			return
		}
		inputs = []services.TextInput{single}
		batch = false
	}

	created, err := h.textService.Add(c.Request.Context(), set, inputs)
	if err != nil {
		respondServiceError(c, h.log, "add_texts_failed", err)
		return
	}

	if !batch {
		response.RespondCreated(c, created[0].ToPublic())
		return
	}
	out := make([]types.PublicText, 0, len(created))
	for _, t := range created {
		out = append(out, t.ToPublic())
	}
	response.RespondCreated(c, out)
}

// Fetch returns annotation candidates. The amount parameter is validated
// here, before any strategy work: a malformed amount is a 400 regardless of
// what the strategy would have done with it.
func (h *TextHandler) Fetch(c *gin.Context) {
	set := middleware.CurrentSet(c)

	amount := strategy.DefaultAmount
	if raw := c.Query("amount"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_amount", err)
			return
		}
		amount = parsed
	}

	texts, err := h.textService.Fetch(c.Request.Context(), set, c.Query("fetchStrategy"), c.Query("topic"), amount)
	if err != nil {
		respondServiceError(c, h.log, "fetch_texts_failed", err)
		return
	}

	out := make([]types.PublicText, 0, len(texts))
	for _, t := range texts {
		out = append(out, t.ToPublic())
	}
	response.RespondOK(c, out)
}

func (h *TextHandler) Update(c *gin.Context) {
	set := middleware.CurrentSet(c)
	textID, err := uuid.Parse(c.Param("textid"))
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "text_not_found", err)
		return
	}

	var input services.TextUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_text_payload", err)
		return
	}

	updated, err := h.textService.Update(c.Request.Context(), set, textID, input)
	if err != nil {
		respondServiceError(c, h.log, "update_text_failed", err)
		return
	}
	response.RespondOK(c, updated.ToPublic())
}

func (h *TextHandler) Delete(c *gin.Context) {
	set := middleware.CurrentSet(c)
	textID, err := uuid.Parse(c.Param("textid"))
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "text_not_found", err)
		return
	}

	if err := h.textService.Delete(c.Request.Context(), set, textID); err != nil {
		respondServiceError(c, h.log, "delete_text_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": textID})
}
