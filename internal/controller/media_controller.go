package controller

import (
	"errors"
	"mentorhub_backend/internal/service"
	"mentorhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MediaController struct {
	MediaService  *service.MediaService
	AccessService *service.AccessService
}

func NewMediaController(mediaService *service.MediaService, accessService *service.AccessService) *MediaController {
	return &MediaController{MediaService: mediaService, AccessService: accessService}
}

// UploadVideo godoc
// @Summary Upload a mentoring video
// @Description Probes the file for duration and format, stores it and returns the asset record
// @Tags media
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "video file"
// @Param   title formData string true "video title"
// @Param   description formData string false "video description"
// @Success 201 {object} util.Response{data=model.VideoAsset}
// @Failure 400 {object} util.Response
// @Router /api/mentor/videos [post]
func (c *MediaController) UploadVideo(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing video file")
		return
	}
	title := ctx.PostForm("title")
	if title == "" {
		util.BadRequest(ctx, "missing title")
		return
	}

	asset, err := c.MediaService.UploadVideo(ctx.Request.Context(), file, title, ctx.PostForm("description"), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrInvalidVideoExt) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, asset)
}

// PlaybackURL godoc
// @Summary Short-lived signed URL for a video asset
// @Description Gated by the same access rules as playback
// @Tags media
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "video asset id"
// @Success 200 {object} util.Response{data=object}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/videos/{id}/playback-url [get]
func (c *MediaController) PlaybackURL(ctx *gin.Context) {
	viewer, ok := viewerFrom(ctx)
	if !ok {
		return
	}

	url, err := c.MediaService.PlaybackURL(ctx.Request.Context(), viewer, c.AccessService, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrVideoNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAccessDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"url": url})
}
