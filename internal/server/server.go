package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agenthands/syllabus/internal/core"
	"github.com/agenthands/syllabus/internal/core/model"
)

// Engine is the part of core.Reconciler the HTTP layer needs.
type Engine interface {
	Reconcile(ctx context.Context, course, documents []model.Topic) (*model.Report, error)
	ClusterTopics(ctx context.Context, topics []model.Topic, minClusters, maxClusters int) (*model.ClusterResult, error)
}

type Server struct {
	Engine  Engine
	Timeout time.Duration // Upper bound for one request, zero means none
	Logger  *zap.Logger
}

func NewServer(engine Engine, timeout time.Duration, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Engine:  engine,
		Timeout: timeout,
		Logger:  logger,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.Health)
	r.POST("/reconcile", s.Reconcile)
	r.POST("/cluster", s.Cluster)

	return r
}

// TopicInput is a topic with caller-supplied ID, metadata or excerpts.
type TopicInput struct {
	ID         string            `json:"id"`
	Text       string            `json:"text" binding:"required"`
	SourceType model.SourceType  `json:"source_type"`
	Metadata   map[string]string `json:"metadata"`
	Excerpts   []model.Excerpt   `json:"excerpts"`
}

type ReconcileRequest struct {
	CourseTopics   []string     `json:"course_topics"`
	DocumentTopics []string     `json:"document_topics"`
	Course         []TopicInput `json:"course" binding:"dive"`
	Documents      []TopicInput `json:"documents" binding:"dive"`
}

type ClusterRequest struct {
	Topics      []string     `json:"topics"`
	Objects     []TopicInput `json:"topic_objects" binding:"dive"`
	MinClusters int          `json:"min_clusters" binding:"gte=0"`
	MaxClusters int          `json:"max_clusters" binding:"gte=0"`
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Reconcile(c *gin.Context) {
	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	course := toTopics(req.CourseTopics, req.Course, model.SourceGenerated)
	documents := toTopics(req.DocumentTopics, req.Documents, model.SourceDocument)

	ctx, cancel := s.requestContext(c)
	defer cancel()

	report, err := s.Engine.Reconcile(ctx, course, documents)
	if err != nil {
		s.fail(c, "reconcile", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) Cluster(c *gin.Context) {
	var req ClusterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	topics := toTopics(req.Topics, req.Objects, model.SourceGenerated)
	result, err := s.Engine.ClusterTopics(ctx, topics, req.MinClusters, req.MaxClusters)
	if err != nil {
		s.fail(c, "cluster", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), s.Timeout)
}

// StatusFor maps pipeline errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, model.ErrCollaborator):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, op string, err error) {
	status := StatusFor(err)
	s.Logger.Error("request failed", zap.String("op", op), zap.Int("status", status), zap.Error(err))

	body := gin.H{"error": err.Error()}
	var stageErr *model.StageError
	if errors.As(err, &stageErr) {
		body["stage"] = stageErr.Stage
	}
	c.JSON(status, body)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

func toTopics(texts []string, objects []TopicInput, source model.SourceType) []model.Topic {
	topics := core.NewTopics(texts, source)
	for _, o := range objects {
		st := o.SourceType
		if st == "" {
			st = source
		}
		topics = append(topics, model.Topic{
			ID:         o.ID,
			Text:       o.Text,
			SourceType: st,
			Metadata:   o.Metadata,
			Excerpts:   o.Excerpts,
		})
	}
	return topics
}
