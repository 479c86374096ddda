package controller

import (
	"errors"
	"mentorhub_backend/internal/service"
	"mentorhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FavoriteController struct {
	FavoriteService *service.FavoriteService
}

func NewFavoriteController(favoriteService *service.FavoriteService) *FavoriteController {
	return &FavoriteController{FavoriteService: favoriteService}
}

// List godoc
// @Summary Favorited courses still visible to the viewer
// @Tags favorites
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/favorites [get]
func (c *FavoriteController) List(ctx *gin.Context) {
	viewer, ok := viewerFrom(ctx)
	if !ok {
		return
	}

	courses, err := c.FavoriteService.List(ctx.Request.Context(), viewer)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// Add godoc
// @Summary Favorite a course
// @Tags favorites
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "course id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/favorites/{id} [post]
func (c *FavoriteController) Add(ctx *gin.Context) {
	viewer, ok := viewerFrom(ctx)
	if !ok {
		return
	}

	if err := c.FavoriteService.Add(ctx.Request.Context(), viewer, ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// Remove godoc
// @Summary Unfavorite a course
// @Tags favorites
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "course id"
// @Success 200 {object} util.Response
// @Router /api/favorites/{id} [delete]
func (c *FavoriteController) Remove(ctx *gin.Context) {
	viewer, ok := viewerFrom(ctx)
	if !ok {
		return
	}

	if err := c.FavoriteService.Remove(ctx.Request.Context(), viewer, ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
