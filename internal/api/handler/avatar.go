package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/modelsnapper/snapper_go_server/internal/model/dto"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/response"
	"github.com/modelsnapper/snapper_go_server/internal/service"
)

type AvatarHandler struct {
	avatarService *service.AvatarService
}

func NewAvatarHandler(avatarService *service.AvatarService) *AvatarHandler {
	return &AvatarHandler{
		avatarService: avatarService,
	}
}

// List browses the synthetic model catalog.
// GET /api/v1/avatars
func (h *AvatarHandler) List(c *gin.Context) {
	var query dto.AvatarListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	items, total, err := h.avatarService.List(&query)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, query.Page, query.PageSize, items)
}

// Get returns one catalog avatar.
// GET /api/v1/avatars/:id
func (h *AvatarHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid avatar id")
		return
	}

	avatar, err := h.avatarService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrAvatarNotFound) {
			response.NotFoundError(c, "")
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, avatar)
}
