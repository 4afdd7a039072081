package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gitomatikus/signail/internal/ws"
)

type QuestionHandler struct {
	coordinator *ws.Coordinator
}

func NewQuestionHandler(coordinator *ws.Coordinator) *QuestionHandler {
	return &QuestionHandler{coordinator: coordinator}
}

// GetQuestionTimes godoc
// @Summary      Answer times for a question
// @Description  Mapping of participant id to recorded answer latency in seconds
// @Tags         questions
// @Produce      json
// @Param        id path string true "Question ID"
// @Success      200 {object} StatusResponse
// @Router       /api/questions/{id}/times [get]
func (h *QuestionHandler) GetQuestionTimes(c *gin.Context) {
	times := h.coordinator.QuestionTimes(json.Number(c.Param("id")))
	c.JSON(http.StatusOK, StatusResponse{Status: "success", Data: times})
}

// ClearQuestionTimes godoc
// @Summary      Clear answer times for a question
// @Description  Drop every recorded latency for the question; the next reports are stored fresh
// @Tags         questions
// @Produce      json
// @Param        id path string true "Question ID"
// @Success      200 {object} MessageResponse
// @Router       /api/questions/{id}/times [delete]
func (h *QuestionHandler) ClearQuestionTimes(c *gin.Context) {
	h.coordinator.ClearQuestionTimes(json.Number(c.Param("id")))
	c.JSON(http.StatusOK, MessageResponse{Message: "times cleared"})
}
