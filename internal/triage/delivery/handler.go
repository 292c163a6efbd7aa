package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mail-triage-backend/internal/triage/domain"
	triagedto "mail-triage-backend/internal/triage/dto"
	"mail-triage-backend/internal/triage/usecase"
)

type TriageHandler struct {
	triageUsecase usecase.TriageUsecase
	windowDays    int
}

func NewTriageHandler(triageUsecase usecase.TriageUsecase, windowDays int) *TriageHandler {
	if windowDays <= 0 {
		windowDays = 14
	}
	return &TriageHandler{
		triageUsecase: triageUsecase,
		windowDays:    windowDays,
	}
}

// GetMessages fetches, normalizes and scores the recent window, sorted by
// descending score.
func (h *TriageHandler) GetMessages(c *gin.Context) {
	days := h.windowDays
	if daysStr := c.Query("days"); daysStr != "" {
		if parsed, err := strconv.Atoi(daysStr); err == nil && parsed > 0 {
			days = parsed
		}
	}

	messages, err := h.triageUsecase.FetchAndScore(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, triagedto.MessagesResponse{
		Messages:       messages,
		Count:          len(messages),
		Days:           days,
		ComposeEnabled: h.triageUsecase.ComposeEnabled(),
	})
}

func (h *TriageHandler) GetMessage(c *gin.Context) {
	id := c.Param("id")
	message, ok := h.triageUsecase.GetMessage(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found in current session"})
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *TriageHandler) GetState(c *gin.Context) {
	id := c.Param("id")
	c.JSON(http.StatusOK, triagedto.StateResponse{State: h.triageUsecase.GetState(id)})
}

func (h *TriageHandler) SetMustReply(c *gin.Context) {
	id := c.Param("id")

	var req triagedto.MustReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state := h.triageUsecase.SetMustReply(id, *req.Value)
	c.JSON(http.StatusOK, triagedto.StateResponse{State: state})
}

// SetDraft stores a manually edited draft text for the message.
func (h *TriageHandler) SetDraft(c *gin.Context) {
	id := c.Param("id")

	var req triagedto.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state := h.triageUsecase.SetDraft(id, req.Text)
	c.JSON(http.StatusOK, triagedto.StateResponse{State: state})
}

func (h *TriageHandler) ClearState(c *gin.Context) {
	h.triageUsecase.ClearState(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *TriageHandler) GenerateDraft(c *gin.Context) {
	id := c.Param("id")

	// Instruction is optional; an empty or absent body is fine
	var req triagedto.GenerateRequest
	_ = c.ShouldBindJSON(&req)

	state, err := h.triageUsecase.GenerateDraft(c.Request.Context(), id, req.Instruction)
	if err != nil {
		var genErr *domain.GenerationError
		if errors.As(err, &genErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, triagedto.StateResponse{State: state})
}

func (h *TriageHandler) PersistDraft(c *gin.Context) {
	id := c.Param("id")

	state, err := h.triageUsecase.PersistDraft(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, triagedto.StateResponse{State: state})
}

func (h *TriageHandler) RunBulk(c *gin.Context) {
	var req triagedto.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := h.triageUsecase.RunBulk(c.Request.Context(), req.Count, req.Force)
	c.JSON(http.StatusOK, report)
}
