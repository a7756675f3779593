// Package server exposes the pipeline over HTTP: the dispatch trigger, the
// scheduling endpoints, the read receipt, health, and metrics.
package server

import (
	"context"
	"net/http"
	"time"

	"careerhub-notifications/internal/common/errors"
	"careerhub-notifications/internal/common/logger"
	"careerhub-notifications/internal/dispatcher"
	"careerhub-notifications/internal/models"
	"careerhub-notifications/internal/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DispatcherAPI is the slice of the dispatcher the server needs.
type DispatcherAPI interface {
	Dispatch(ctx context.Context, req *dispatcher.Request) (*dispatcher.Result, error)
}

// SchedulerAPI is the slice of the scheduler the server needs.
type SchedulerAPI interface {
	Schedule(ctx context.Context, input *scheduler.ScheduleInput) (*scheduler.ScheduleOutput, error)
	SendNow(ctx context.Context, input *scheduler.SendNowInput) (*scheduler.SendNowOutput, error)
}

// ReadMarker records that a recipient opened an in-app notification.
type ReadMarker interface {
	MarkRead(ctx context.Context, id string) error
}

// OpenRecorder feeds the engagement histogram behind smart scheduling.
type OpenRecorder interface {
	RecordOpen(ctx context.Context, userID string, at time.Time) error
}

type Server struct {
	engine     *gin.Engine
	dispatcher DispatcherAPI
	scheduler  SchedulerAPI
	reads      ReadMarker
	opens      OpenRecorder
	logger     logger.Logger
}

func New(d DispatcherAPI, s SchedulerAPI, reads ReadMarker, opens OpenRecorder, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	srv := &Server{
		engine:     engine,
		dispatcher: d,
		scheduler:  s,
		reads:      reads,
		opens:      opens,
		logger:     log.WithFields(map[string]interface{}{"component": "server"}),
	}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.engine.Group("/v1/notifications")
	v1.POST("/dispatch", s.handleDispatch)
	v1.POST("/schedule", s.handleSchedule)
	v1.POST("/send-now", s.handleSendNow)
	v1.POST("/:id/read", s.handleMarkRead)
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleDispatch(c *gin.Context) {
	var req dispatcher.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := s.dispatcher.Dispatch(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if !result.Success {
		c.JSON(http.StatusOK, gin.H{"success": false, "status": result.Status})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "emailId": result.EmailID})
}

type scheduleRequest struct {
	UserID          string                 `json:"userId"`
	Type            string                 `json:"notificationType"`
	Title           string                 `json:"title"`
	Message         string                 `json:"message"`
	Data            map[string]interface{} `json:"data,omitempty"`
	Channel         string                 `json:"channel,omitempty"`
	NoSmart         bool                   `json:"noSmart,omitempty"`
	MinDelayMinutes int                    `json:"minDelayMinutes,omitempty"`
}

func (s *Server) handleSchedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	out, err := s.scheduler.Schedule(c.Request.Context(), &scheduler.ScheduleInput{
		UserID:   req.UserID,
		Type:     models.NotificationType(req.Type),
		Title:    req.Title,
		Message:  req.Message,
		Data:     req.Data,
		Channel:  models.Channel(req.Channel),
		NoSmart:  req.NoSmart,
		MinDelay: time.Duration(req.MinDelayMinutes) * time.Minute,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"id":           out.ID,
		"scheduledFor": out.ScheduledFor.Format(time.RFC3339),
		"smart":        out.Smart,
	})
}

type sendNowRequest struct {
	UserID         string                 `json:"userId"`
	OrganizationID string                 `json:"organizationId"`
	Type           string                 `json:"notificationType"`
	Title          string                 `json:"title"`
	Message        string                 `json:"message"`
	Data           map[string]interface{} `json:"data,omitempty"`
}

func (s *Server) handleSendNow(c *gin.Context) {
	var req sendNowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	out, err := s.scheduler.SendNow(c.Request.Context(), &scheduler.SendNowInput{
		UserID:         req.UserID,
		OrganizationID: req.OrganizationID,
		Type:           models.NotificationType(req.Type),
		Title:          req.Title,
		Message:        req.Message,
		Data:           req.Data,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": out.ID})
}

type markReadRequest struct {
	UserID string `json:"userId"`
}

func (s *Server) handleMarkRead(c *gin.Context) {
	id := c.Param("id")

	var req markReadRequest
	_ = c.ShouldBindJSON(&req)

	if err := s.reads.MarkRead(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}

	// Opens feed the engagement histogram; losing one is harmless.
	if s.opens != nil && req.UserID != "" {
		if err := s.opens.RecordOpen(c.Request.Context(), req.UserID, time.Now()); err != nil {
			s.logger.Warn("failed to record open", map[string]interface{}{
				"userId": req.UserID,
				"error":  err.Error(),
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) writeError(c *gin.Context, err error) {
	std := errors.AsStandard(err)
	s.logger.Error("request failed", map[string]interface{}{
		"path":    c.FullPath(),
		"code":    string(std.Code),
		"details": std.Details,
	})
	msg := std.Message
	if std.Details != "" {
		msg += ": " + std.Details
	}
	c.JSON(std.HTTPStatus(), gin.H{"error": msg})
}
