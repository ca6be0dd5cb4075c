package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"quranbot/pkg/logger"
	"quranbot/pkg/models"
	"quranbot/service"
)

// Server is the HTTP facade. It shares only the storage-backed services with
// the bot.
type Server struct {
	srv *http.Server
	log logger.ILogger
}

func NewRouter(svc service.IServiceManager, allowedOrigins string, log logger.ILogger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(allowedOrigins)))

	h := &handler{svc: svc, log: log}

	api := r.Group("/api")
	{
		api.GET("/", h.root)
		api.POST("/status", h.createStatus)
		api.GET("/status", h.listStatus)
		api.GET("/users", h.listUsers)
		api.POST("/login/:role", h.login)
	}

	return r
}

func corsConfig(allowedOrigins string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if allowedOrigins == "" || allowedOrigins == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}
	cfg.AllowCredentials = true
	return cfg
}

func NewServer(port int, router http.Handler, log logger.ILogger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Run blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Run() error {
	s.log.Info("HTTP server listening", logger.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type handler struct {
	svc service.IServiceManager
	log logger.ILogger
}

func (h *handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Telegram Bot API is running"})
}

func (h *handler) createStatus(c *gin.Context) {
	var req models.CreateStatusCheck
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_name is required"})
		return
	}
	check, err := h.svc.Status().Create(c.Request.Context(), *req.ClientName)
	if err != nil {
		h.log.Error("failed to create status check", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, check)
}

func (h *handler) listStatus(c *gin.Context) {
	checks, err := h.svc.Status().List(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list status checks", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, checks)
}

func (h *handler) listUsers(c *gin.Context) {
	users, err := h.svc.User().List(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list users", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

// login answers 200 for every role path it knows, with success=false on bad
// credentials. Unknown roles are 404 like any other unrouted path.
func (h *handler) login(c *gin.Context) {
	role := service.Role(c.Param("role"))
	switch role {
	case service.RoleAdmin, service.RoleTeacher, service.RoleStudent:
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		creds = models.Credentials{}
	}
	c.JSON(http.StatusOK, h.svc.Auth().Login(role, creds))
}
