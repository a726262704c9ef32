package handler

import (
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/modelsnapper/snapper_go_server/config"
	"github.com/modelsnapper/snapper_go_server/internal/api/middleware"
	"github.com/modelsnapper/snapper_go_server/internal/model"
	"github.com/modelsnapper/snapper_go_server/internal/model/dto"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/response"
	"github.com/modelsnapper/snapper_go_server/internal/service"
)

type RenderHandler struct {
	renderService *service.RenderService
	cfg           *config.Config
}

func NewRenderHandler(renderService *service.RenderService, cfg *config.Config) *RenderHandler {
	return &RenderHandler{
		renderService: renderService,
		cfg:           cfg,
	}
}

// Create submits a render: a garment image plus a target, multipart form.
// POST /api/v1/renders
func (h *RenderHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	targetType := c.PostForm("target_type")
	var targetID int64
	switch targetType {
	case model.RenderTargetModel:
		targetID, _ = strconv.ParseInt(c.PostForm("model_id"), 10, 64)
	case model.RenderTargetAvatar:
		targetID, _ = strconv.ParseInt(c.PostForm("avatar_id"), 10, 64)
	default:
		response.ParamError(c, "target_type must be model or avatar")
		return
	}
	if targetID <= 0 {
		response.ParamError(c, "target id required")
		return
	}

	fileHeader, err := c.FormFile("garment")
	if err != nil {
		response.ParamError(c, "garment image required")
		return
	}
	if h.cfg.Upload.MaxSize > 0 && fileHeader.Size > h.cfg.Upload.MaxSize {
		response.ParamError(c, "garment image too large")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !h.extAllowed(ext) {
		response.ParamError(c, "unsupported image format")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	resp, err := h.renderService.Submit(c.Request.Context(), userID, targetType, targetID, data, ext)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientCredits):
			response.CreditsError(c, err.Error())
		case errors.Is(err, service.ErrNoConsentGrant):
			response.PermissionError(c, err.Error())
		case errors.Is(err, service.ErrAvatarNotFound), errors.Is(err, service.ErrConsentNotFound):
			response.NotFoundError(c, "render target not found")
		case errors.Is(err, service.ErrUnknownTarget), errors.Is(err, service.ErrGarmentRequired):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "render queued", resp)
}

// Get returns one render job.
// GET /api/v1/renders/:id
func (h *RenderHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	renderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid render id")
		return
	}

	info, err := h.renderService.Get(userID, renderID)
	if err != nil {
		if errors.Is(err, service.ErrRenderNotFound) {
			response.NotFoundError(c, "")
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// List returns the caller's render history.
// GET /api/v1/renders
func (h *RenderHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var query dto.RenderListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	items, total, err := h.renderService.List(userID, &query)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, query.Page, query.PageSize, items)
}

func (h *RenderHandler) extAllowed(ext string) bool {
	if len(h.cfg.Upload.AllowedExtensions) == 0 {
		return ext == ".jpg" || ext == ".jpeg" || ext == ".png" || ext == ".webp"
	}
	for _, allowed := range h.cfg.Upload.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
