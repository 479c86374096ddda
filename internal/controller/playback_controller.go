package controller

import (
	"errors"
	"mentorhub_backend/internal/service"
	"mentorhub_backend/internal/util"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type PlaybackController struct {
	PlaybackService *service.PlaybackService
}

func NewPlaybackController(playbackService *service.PlaybackService) *PlaybackController {
	return &PlaybackController{PlaybackService: playbackService}
}

type StartSessionRequest struct {
	LessonID string `json:"lessonId" binding:"required"`
}

type SeekRequest struct {
	Position float64 `json:"position" binding:"min=0"`
}

// ProgressEventRequest is a media-element timeupdate sample.
type ProgressEventRequest struct {
	Position  float64    `json:"position" binding:"min=0"`
	Timestamp *time.Time `json:"timestamp"`
}

type EndedEventRequest struct {
	Timestamp *time.Time `json:"timestamp"`
}

type ErrorEventRequest struct {
	Message string `json:"message" binding:"required"`
}

func eventTime(ts *time.Time) time.Time {
	if ts != nil {
		return *ts
	}
	return time.Now()
}

// StartSession godoc
// @Summary Open a playback session for a lesson
// @Description Checks playability, signs the media URL and returns the session. A media failure yields an errored session, not an HTTP error.
// @Tags playback
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body StartSessionRequest true "lesson to play"
// @Success 201 {object} util.Response{data=service.SessionSnapshot}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/playback/sessions [post]
func (c *PlaybackController) StartSession(ctx *gin.Context) {
	viewer, ok := viewerFrom(ctx)
	if !ok {
		return
	}

	var req StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.PlaybackService.StartSession(ctx.Request.Context(), viewer, req.LessonID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAccessDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, session.Snapshot())
}

// GetSession godoc
// @Summary Playback session snapshot
// @Tags playback
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "session id"
// @Success 200 {object} util.Response{data=service.SessionSnapshot}
// @Failure 404 {object} util.Response
// @Router /api/playback/sessions/{id} [get]
func (c *PlaybackController) GetSession(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}
	util.Success(ctx, session.Snapshot())
}

// CloseSession godoc
// @Summary Close a playback session
// @Tags playback
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "session id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/playback/sessions/{id} [delete]
func (c *PlaybackController) CloseSession(ctx *gin.Context) {
	viewer, ok := viewerFrom(ctx)
	if !ok {
		return
	}

	if err := c.PlaybackService.CloseSession(viewer.ID, ctx.Param("id")); err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, nil)
}

// Play godoc
// @Summary Start or resume playback
// @Tags playback
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "session id"
// @Success 200 {object} util.Response{data=service.SessionSnapshot}
// @Failure 409 {object} util.Response
// @Router /api/playback/sessions/{id}/play [post]
func (c *PlaybackController) Play(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}
	c.apply(ctx, session, session.Play())
}

// Pause godoc
// @Summary Pause playback
// @Tags playback
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "session id"
// @Success 200 {object} util.Response{data=service.SessionSnapshot}
// @Failure 409 {object} util.Response
// @Router /api/playback/sessions/{id}/pause [post]
func (c *PlaybackController) Pause(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}
	c.apply(ctx, session, session.Pause())
}

// Seek godoc
// @Summary Seek within the media
// @Tags playback
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "session id"
// @Param   body body SeekRequest true "target position in seconds"
// @Success 200 {object} util.Response{data=service.SessionSnapshot}
// @Failure 409 {object} util.Response
// @Router /api/playback/sessions/{id}/seek [post]
func (c *PlaybackController) Seek(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	var req SeekRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	c.apply(ctx, session, session.Seek(req.Position))
}

// Progress godoc
// @Summary Report a playback position sample
// @Description Samples outside the Playing state are ignored
// @Tags playback
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "session id"
// @Param   body body ProgressEventRequest true "position sample"
// @Success 200 {object} util.Response{data=service.SessionSnapshot}
// @Router /api/playback/sessions/{id}/progress [post]
func (c *PlaybackController) Progress(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	var req ProgressEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	c.apply(ctx, session, session.OnTimeUpdate(req.Position, eventTime(req.Timestamp)))
}

// Ended godoc
// @Summary Report media end
// @Tags playback
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "session id"
// @Param   body body EndedEventRequest false "event time"
// @Success 200 {object} util.Response{data=service.SessionSnapshot}
// @Router /api/playback/sessions/{id}/ended [post]
func (c *PlaybackController) Ended(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	var req EndedEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.BadRequest(ctx, err.Error())
		return
	}
	c.apply(ctx, session, session.OnEnded(eventTime(req.Timestamp)))
}

// Error godoc
// @Summary Report a client media error
// @Tags playback
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "session id"
// @Param   body body ErrorEventRequest true "error detail"
// @Success 200 {object} util.Response{data=service.SessionSnapshot}
// @Router /api/playback/sessions/{id}/error [post]
func (c *PlaybackController) Error(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	var req ErrorEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	c.apply(ctx, session, session.Fail(errors.New(req.Message)))
}

func (c *PlaybackController) session(ctx *gin.Context) (*service.PlaybackSession, bool) {
	viewer, ok := viewerFrom(ctx)
	if !ok {
		return nil, false
	}

	session, err := c.PlaybackService.Session(viewer.ID, ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return nil, false
	}
	return session, true
}

func (c *PlaybackController) apply(ctx *gin.Context, session *service.PlaybackSession, err error) {
	if err != nil {
		if errors.Is(err, util.ErrInvalidTransition) || errors.Is(err, util.ErrSessionClosed) {
			util.Error(ctx, http.StatusConflict, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, session.Snapshot())
}
