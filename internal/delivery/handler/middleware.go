package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"sqlpractice-service/internal/domain"
	"sqlpractice-service/internal/domain/entities"
)

const (
	// Performance settings
	maxConcurrentRequests = 10000

	userIDKey = "user_id"
)

func requestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}

// rateLimit applies one token bucket across all clients.
func rateLimit(limiter *rate.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow() {
				return sendJSONError(c, "Too many requests", http.StatusTooManyRequests)
			}
			return next(c)
		}
	}
}

// recoverer logs a panic and hands it back up the chain as a plain error.
func recoverer(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableErrorHandler: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(err),
				zap.ByteString("stack", stack))
			return err
		},
	})
}

// track records request metrics and sheds load past maxConcurrentRequests.
func track(metrics *Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			if metrics.active() >= maxConcurrentRequests {
				return sendJSONError(c, "Server overloaded", http.StatusServiceUnavailable)
			}

			start := time.Now()
			metrics.begin()
			defer func() {
				if r := recover(); r != nil {
					metrics.end(http.StatusInternalServerError, time.Since(start))
					panic(r)
				}
				metrics.end(responseStatus(c, err), time.Since(start))
			}()
			return next(c)
		}
	}
}

func responseStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return StatusFor(err)
}

// loadSession resolves the session cookie, if any, to a user id. A
// missing or stale session leaves the request anonymous.
func (h *Handler) loadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(h.cookie.Name)
		if err != nil || cookie.Value == "" {
			return next(c)
		}

		userID, err := h.users.Authenticate(c.Request().Context(), cookie.Value)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return next(c)
			}
			return err
		}
		c.Set(userIDKey, userID)
		return next(c)
	}
}

func currentUserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(userIDKey).(int64)
	return id, ok && id > 0
}

func (h *Handler) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := currentUserID(c); !ok {
			return domain.NewError(domain.ErrUnauthorized, "Not logged in")
		}
		return next(c)
	}
}

func (h *Handler) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return h.requireAuth(func(c echo.Context) error {
		userID, _ := currentUserID(c)
		me, err := h.users.Me(c.Request().Context(), userID)
		if err != nil {
			return err
		}
		if me.Result == nil || me.Result.Role != entities.RoleAdmin {
			return domain.NewError(domain.ErrForbidden, "Admin access required")
		}
		return next(c)
	})
}

// limitAI caps AI calls per client address.
func (h *Handler) limitAI(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.aiLimiter == nil {
			return next(c)
		}
		key := "ai:" + c.RealIP()
		if !h.aiLimiter.Allow(key) {
			return domain.NewError(domain.ErrRateLimited,
				"Too many AI requests, please try again in %s", h.aiLimiter.RetryAfter(key).Round(time.Second))
		}
		return next(c)
	}
}
