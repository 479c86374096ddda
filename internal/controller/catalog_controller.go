package controller

import (
	"mentorhub_backend/internal/model"
	"mentorhub_backend/internal/service"
	"mentorhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	CatalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

func viewerFrom(ctx *gin.Context) (model.Viewer, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return model.Viewer{}, false
	}
	return claims.Viewer(), true
}

// Home godoc
// @Summary Personalized home rails
// @Description Continue-watching, recommended and completed shelves for the viewer
// @Tags catalog
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.HomeRails}
// @Failure 401 {object} util.Response
// @Router /api/catalog/home [get]
func (c *CatalogController) Home(ctx *gin.Context) {
	viewer, ok := viewerFrom(ctx)
	if !ok {
		return
	}

	rails, err := c.CatalogService.Home(viewer)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rails)
}

// Search godoc
// @Summary Search visible courses
// @Description Case-insensitive substring match over title, description and category
// @Tags catalog
// @Produce  json
// @Security BearerAuth
// @Param   q query string true "search term"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/catalog/search [get]
func (c *CatalogController) Search(ctx *gin.Context) {
	viewer, ok := viewerFrom(ctx)
	if !ok {
		return
	}

	courses, err := c.CatalogService.Search(viewer, ctx.Query("q"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// ListCategories godoc
// @Summary List catalog categories
// @Tags catalog
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Category}
// @Router /api/catalog/categories [get]
func (c *CatalogController) ListCategories(ctx *gin.Context) {
	categories, err := c.CatalogService.ListCategories()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// ByCategory godoc
// @Summary Visible courses in a category
// @Tags catalog
// @Produce  json
// @Security BearerAuth
// @Param   name path string true "category name"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/catalog/categories/{name} [get]
func (c *CatalogController) ByCategory(ctx *gin.Context) {
	viewer, ok := viewerFrom(ctx)
	if !ok {
		return
	}

	courses, err := c.CatalogService.ByCategory(viewer, ctx.Param("name"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// ContinueWatching godoc
// @Summary Continue-watching rail
// @Tags catalog
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/catalog/continue-watching [get]
func (c *CatalogController) ContinueWatching(ctx *gin.Context) {
	viewer, ok := viewerFrom(ctx)
	if !ok {
		return
	}

	courses, err := c.CatalogService.ContinueWatching(viewer)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// Completed godoc
// @Summary Completed-courses rail
// @Tags catalog
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/catalog/completed [get]
func (c *CatalogController) Completed(ctx *gin.Context) {
	viewer, ok := viewerFrom(ctx)
	if !ok {
		return
	}

	courses, err := c.CatalogService.Completed(viewer)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// CourseDetail godoc
// @Summary Course detail with viewer progress
// @Description Returns 404 when the course does not exist or is not visible to the viewer
// @Tags catalog
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "course id"
// @Success 200 {object} util.Response{data=service.CourseDetail}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CatalogController) CourseDetail(ctx *gin.Context) {
	viewer, ok := viewerFrom(ctx)
	if !ok {
		return
	}

	detail, err := c.CatalogService.CourseDetail(viewer, ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	// Hidden courses are indistinguishable from missing ones.
	if detail == nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, detail)
}
