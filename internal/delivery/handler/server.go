package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"sqlpractice-service/internal/application/interfaces"
	"sqlpractice-service/internal/infrastructure"
)

type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

type Options struct {
	Users     interfaces.UserService
	Questions interfaces.QuestionService
	Banks     interfaces.BankService
	Tutor     interfaces.TutorService

	// Ping reports store health for /healthz.
	Ping func(ctx context.Context) error

	Cookie            CookieConfig
	RequestsPerSecond int
	Burst             int
	AILimiter         *infrastructure.RateLimiter
	Logger            *zap.Logger
}

// Handler serves the JSON API.
type Handler struct {
	users     interfaces.UserService
	questions interfaces.QuestionService
	banks     interfaces.BankService
	tutor     interfaces.TutorService
	ping      func(ctx context.Context) error
	cookie    CookieConfig
	limiter   *rate.Limiter
	aiLimiter *infrastructure.RateLimiter
	metrics   *Metrics
	ws        *wsHub
	logger    *zap.Logger
}

func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Cookie.Name == "" {
		opts.Cookie.Name = "sid"
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Handler{
		users:     opts.Users,
		questions: opts.Questions,
		banks:     opts.Banks,
		tutor:     opts.Tutor,
		ping:      opts.Ping,
		cookie:    opts.Cookie,
		limiter:   rate.NewLimiter(limit, burst),
		aiLimiter: opts.AILimiter,
		metrics:   NewMetrics(),
		ws:        newWSHub(),
		logger:    logger,
	}
}

// NewServer builds the echo instance with every route registered.
func NewServer(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(h.logger)

	e.Use(requestID())
	e.Use(requestLogger(h.logger))
	e.Use(track(h.metrics))
	e.Use(recoverer(h.logger))

	e.GET("/healthz", h.Health)

	api := e.Group("/api", rateLimit(h.limiter), h.loadSession)

	auth := api.Group("/auth")
	auth.POST("/sign-up", h.SignUp)
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)
	auth.GET("/me", h.Me)

	api.GET("/banks", h.ListBanks)
	api.GET("/banks/:id", h.GetBank)
	api.GET("/banks/:id/favorites", h.IsFavorited, h.requireAuth)
	api.POST("/banks/:id/favorites", h.FavoriteBank, h.requireAuth)
	api.DELETE("/banks/:id/favorites", h.UnfavoriteBank, h.requireAuth)
	api.GET("/favorites/banks", h.FavoriteBanks, h.requireAuth)
	api.DELETE("/favorites/banks", h.BatchUnfavorite, h.requireAuth)

	api.GET("/questions", h.ListQuestions, h.requireAuth)
	api.GET("/questions/top-saved", h.TopSaved)
	api.GET("/questions/search", h.SearchQuestions)
	api.GET("/questions/:id", h.GetQuestion)
	api.POST("/questions/:id/save", h.SaveQuestion, h.requireAuth)
	api.DELETE("/questions/:id/save", h.UnsaveQuestion, h.requireAuth)
	api.GET("/saved", h.SavedQuestions, h.requireAuth)
	api.GET("/saved-ids", h.SavedIDs, h.requireAuth)

	// the socket rate limits each question itself
	api.GET("/ai/ws", h.TutorSocket)
	ai := api.Group("/ai", h.limitAI)
	ai.POST("/query", h.QueryStream)
	ai.POST("/explain", h.Explain)
	ai.POST("/check-sql", h.CheckSQL)

	admin := api.Group("/admin", h.requireAdmin)
	admin.GET("/metrics", h.Metrics)
	admin.POST("/banks", h.CreateBank)
	admin.POST("/questions", h.CreateQuestion)
	admin.POST("/banks/:id/questions/:qid", h.AddBankQuestion)
	admin.DELETE("/banks/:id/questions/:qid", h.RemoveBankQuestion)

	return e
}

// Close drops open tutor sockets. Call it before shutting the server down.
func (h *Handler) Close() {
	h.ws.closeAll()
}

func (h *Handler) Health(c echo.Context) error {
	if h.ping != nil {
		if err := h.ping(c.Request().Context()); err != nil {
			h.logger.Error("health check failed", zap.Error(err))
			return sendJSONError(c, "Database unavailable", http.StatusServiceUnavailable)
		}
	}
	return sendJSONResponse(c, map[string]string{"db": "ok"}, http.StatusOK)
}

func (h *Handler) Metrics(c echo.Context) error {
	return sendJSONResponse(c, h.metrics.Snapshot(), http.StatusOK)
}
