package controller

import (
	"strconv"

	"pulsebeat_backend/internal/repository"
	"pulsebeat_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ReviewController exposes the chat answers flagged by negative
// feedback so staff can curate corrections.
type ReviewController struct {
	ChatRepo *repository.ChatRepository
}

func NewReviewController(chatRepo *repository.ChatRepository) *ReviewController {
	return &ReviewController{ChatRepo: chatRepo}
}

// Pending godoc
// @Summary Unreviewed chat answers flagged by customers
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.TrainingFeedback}
// @Router /api/admin/chat/reviews [get]
func (c *ReviewController) Pending(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	flags, err := c.ChatRepo.PendingReviewFlags(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, flags)
}

type ResolveReviewRequest struct {
	CorrectResponse string `json:"correct_response"`
	Notes           string `json:"notes"`
}

// Resolve godoc
// @Summary Record the corrected answer for a flagged message
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Review flag ID"
// @Param body body ResolveReviewRequest true "Correction"
// @Success 200 {object} util.Response
// @Router /api/admin/chat/reviews/{id} [put]
func (c *ReviewController) Resolve(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid review id")
		return
	}

	var req ResolveReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ChatRepo.ResolveReviewFlag(uint(id), req.CorrectResponse, req.Notes); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"reviewed": id})
}
