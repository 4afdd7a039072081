package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gitomatikus/signail/internal/ws"
)

type UserHandler struct {
	coordinator *ws.Coordinator
}

func NewUserHandler(coordinator *ws.Coordinator) *UserHandler {
	return &UserHandler{coordinator: coordinator}
}

type UpdateScoreRequest struct {
	Score *int `json:"score" binding:"required" example:"300"`
}

// GetOnlineUsers godoc
// @Summary      List online users
// @Description  Snapshot of every participant currently in the roster
// @Tags         users
// @Produce      json
// @Success      200 {object} StatusResponse
// @Router       /api/users/online [get]
func (h *UserHandler) GetOnlineUsers(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Status: "success",
		Data:   h.coordinator.OnlineUsers(),
	})
}

// UpdateScore godoc
// @Summary      Update a participant's score
// @Description  Overwrite the score of the participant with the given id and broadcast the roster
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "Participant ID"
// @Param        request body UpdateScoreRequest true "New score"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/users/{id}/score [post]
func (h *UserHandler) UpdateScore(c *gin.Context) {
	var req UpdateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "score must be a number"})
		return
	}

	if !h.coordinator.UpdateScore(c.Param("id"), *req.Score) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "participant not found"})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "score updated"})
}
