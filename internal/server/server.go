// Package server exposes the demo simulator over HTTP so the SDK can be
// exercised end-to-end: real bearer tokens, real 401s on expiry, real
// multipart uploads. It is a development aid, not a production backend.
package server

import (
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/boarding-dev/placement-client/internal/demo"
	"github.com/boarding-dev/placement-client/internal/models"
	"github.com/boarding-dev/placement-client/pkg/config"
	appErrors "github.com/boarding-dev/placement-client/pkg/errors"
	"github.com/boarding-dev/placement-client/pkg/logger"
	"github.com/boarding-dev/placement-client/pkg/requestid"
	"github.com/boarding-dev/placement-client/pkg/response"
)

// Server wires the simulator, token service and middleware into a gin
// engine.
type Server struct {
	engine  *gin.Engine
	sim     *demo.Simulator
	tokens  *TokenService
	metrics *Metrics
	logger  *zap.Logger

	mu           sync.Mutex
	passwordHash []byte
}

// New builds the demo server.
func New(cfg *config.Config, sim *demo.Simulator, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:  gin.New(),
		sim:     sim,
		tokens:  NewTokenService(cfg.Demo.JWTSecret, cfg.Demo.JWTExpiration, cfg.Demo.RefreshExpiry),
		metrics: NewMetrics(),
		logger:  log,
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(requestid.Middleware())
	s.engine.Use(logger.GinMiddleware(log))
	s.engine.Use(cors(cfg.Demo.AllowedOrigins))
	s.engine.Use(observeRequests(s.metrics))

	s.routes()
	return s
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) routes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := s.engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", s.login)
	auth.POST("/register", s.register)
	auth.POST("/refresh", s.refresh)
	auth.GET("/me", requireAuth(s.tokens), s.me)
	auth.POST("/logout", requireAuth(s.tokens), s.logout)

	students := api.Group("/students", requireAuth(s.tokens))
	students.GET("/dashboard/summary", s.dashboardSummary)
	students.GET("/profile", s.getProfile)
	students.PUT("/profile", s.updateProfile)
	students.POST("/profile/resume", s.uploadResume)
	students.POST("/profile/avatar", s.uploadAvatar)
	students.GET("/matches", s.listMatches)
	students.GET("/appointments", s.listAppointments)
	students.POST("/appointments", s.createAppointment)
	students.GET("/messages/threads", s.listThreads)
	students.GET("/messages/threads/:id", s.listMessages)
	students.POST("/messages/threads/:id", s.sendMessage)
	students.GET("/journey", s.journey)
	students.GET("/resources", s.listResources)
}

func (s *Server) login(c *gin.Context) {
	var payload models.LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload"))
		return
	}

	s.mu.Lock()
	hash := s.passwordHash
	s.mu.Unlock()
	if len(hash) > 0 {
		if err := bcrypt.CompareHashAndPassword(hash, []byte(payload.Password)); err != nil {
			response.Error(c, appErrors.ErrInvalidCredentials)
			return
		}
	}

	sess, err := s.sim.Login(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	tokens, err := s.tokens.Issue(sess.User)
	if err != nil {
		response.Error(c, err)
		return
	}

	sess.AccessToken = tokens.AccessToken
	sess.RefreshToken = tokens.RefreshToken
	response.JSON(c, http.StatusOK, sess)
}

func (s *Server) register(c *gin.Context) {
	var payload models.RegisterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid register payload"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password"))
		return
	}

	sess, err := s.sim.Register(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	s.mu.Lock()
	s.passwordHash = hash
	s.mu.Unlock()

	tokens, err := s.tokens.Issue(sess.User)
	if err != nil {
		response.Error(c, err)
		return
	}

	sess.AccessToken = tokens.AccessToken
	sess.RefreshToken = tokens.RefreshToken
	response.Created(c, sess)
}

func (s *Server) refresh(c *gin.Context) {
	var payload models.RefreshPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid refresh payload"))
		return
	}

	user, err := s.sim.Me(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	tokens, err := s.tokens.Rotate(payload.RefreshToken, *user)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, tokens)
}

func (s *Server) me(c *gin.Context) {
	user, err := s.sim.Me(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

func (s *Server) logout(c *gin.Context) {
	var payload models.RefreshPayload
	if err := c.ShouldBindJSON(&payload); err == nil && payload.RefreshToken != "" {
		s.tokens.Revoke(payload.RefreshToken)
	}
	if err := s.sim.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (s *Server) dashboardSummary(c *gin.Context) {
	summary, err := s.sim.DashboardSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

func (s *Server) getProfile(c *gin.Context) {
	profile, err := s.sim.GetProfile(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

func (s *Server) updateProfile(c *gin.Context) {
	var payload models.ProfilePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload"))
		return
	}

	profile, err := s.sim.UpdateProfile(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

func (s *Server) uploadResume(c *gin.Context) {
	name, content, err := formFileContent(c, "resume")
	if err != nil {
		response.Error(c, err)
		return
	}

	profile, err := s.sim.UploadResume(c.Request.Context(), name, content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

func (s *Server) uploadAvatar(c *gin.Context) {
	name, content, err := formFileContent(c, "avatar")
	if err != nil {
		response.Error(c, err)
		return
	}

	profile, err := s.sim.UploadAvatar(c.Request.Context(), name, content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

func (s *Server) listMatches(c *gin.Context) {
	query := models.MatchesQuery{
		Page:     intQuery(c, "page"),
		PageSize: intQuery(c, "pageSize"),
		Industry: c.Query("industry"),
		Search:   c.Query("search"),
	}
	if raw := c.Query("minScore"); raw != "" {
		if min, err := strconv.Atoi(raw); err == nil {
			query.MinScore = &min
		}
	}

	page, err := s.sim.ListMatches(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}

func (s *Server) listAppointments(c *gin.Context) {
	query := models.AppointmentsQuery{
		Page:     intQuery(c, "page"),
		PageSize: intQuery(c, "pageSize"),
		Status:   models.AppointmentStatus(c.Query("status")),
	}

	page, err := s.sim.ListAppointments(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}

func (s *Server) createAppointment(c *gin.Context) {
	var payload models.CreateAppointmentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid appointment payload"))
		return
	}

	appt, err := s.sim.CreateAppointment(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, appt)
}

func (s *Server) listThreads(c *gin.Context) {
	query := models.ThreadsQuery{
		Page:     intQuery(c, "page"),
		PageSize: intQuery(c, "pageSize"),
	}

	page, err := s.sim.ListThreads(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}

func (s *Server) listMessages(c *gin.Context) {
	page, err := s.sim.ListMessages(c.Request.Context(), c.Param("id"), intQuery(c, "page"), intQuery(c, "pageSize"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}

func (s *Server) sendMessage(c *gin.Context) {
	var payload models.SendMessagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload"))
		return
	}

	msg, err := s.sim.SendMessage(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}

func (s *Server) journey(c *gin.Context) {
	journey, err := s.sim.Journey(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, journey)
}

func (s *Server) listResources(c *gin.Context) {
	query := models.ResourcesQuery{
		Page:     intQuery(c, "page"),
		PageSize: intQuery(c, "pageSize"),
		Category: c.Query("category"),
	}

	page, err := s.sim.ListResources(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}

func formFileContent(c *gin.Context, field string) (string, []byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing "+field+" file")
	}

	file, err := header.Open()
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open upload")
	}
	defer file.Close() //nolint:errcheck

	content, err := io.ReadAll(file)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	return header.Filename, content, nil
}

func intQuery(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
