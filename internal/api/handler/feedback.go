package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/modelsnapper/snapper_go_server/internal/api/middleware"
	"github.com/modelsnapper/snapper_go_server/internal/model/dto"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/response"
	"github.com/modelsnapper/snapper_go_server/internal/service"
)

type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
	}
}

// Submit stores the caller's rating and comment.
// POST /api/v1/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.feedbackService.SubmitFeedback(userID, &req); err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "thanks for the feedback", nil)
}
