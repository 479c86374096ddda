package controller

import (
	"mentorhub_backend/internal/service"
	"mentorhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ProgressController exposes the viewer's watch records. Writes go
// through the playback session endpoints, never directly to the ledger.
type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// Get godoc
// @Summary Watch progress for one lesson
// @Tags progress
// @Produce  json
// @Security BearerAuth
// @Param   lessonId path string true "lesson id"
// @Success 200 {object} util.Response{data=model.WatchProgress}
// @Failure 404 {object} util.Response
// @Router /api/progress/lessons/{lessonId} [get]
func (c *ProgressController) Get(ctx *gin.Context) {
	viewer, ok := viewerFrom(ctx)
	if !ok {
		return
	}

	record, err := c.ProgressService.Get(viewer.ID, ctx.Param("lessonId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if record == nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, record)
}

// List godoc
// @Summary All watch progress for the viewer
// @Tags progress
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.WatchProgress}
// @Router /api/progress [get]
func (c *ProgressController) List(ctx *gin.Context) {
	viewer, ok := viewerFrom(ctx)
	if !ok {
		return
	}

	records, err := c.ProgressService.ListByViewer(viewer.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, records)
}
