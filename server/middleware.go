package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/existflow/ironfocus/internal/logger"
)

// requestLogger logs every request through the application logger
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		res := c.Response()
		fields := []logger.Field{
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("duration", time.Since(start).String()),
		}
		if id := res.Header().Get(echo.HeaderXRequestID); id != "" {
			fields = append(fields, logger.F("request_id", id))
		}

		if res.Status >= http.StatusInternalServerError {
			logger.Error("HTTP Response", fields...)
		} else {
			logger.Info("HTTP Response", fields...)
		}
		return nil
	}
}

// authMiddleware checks the bearer API key against the configured hash
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get("Authorization")
		if auth == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authorization required"})
		}

		key := strings.TrimPrefix(auth, "Bearer ")
		if key == auth || key == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization format"})
		}

		if err := bcrypt.CompareHashAndPassword([]byte(s.config.APIKeyHash), []byte(key)); err != nil {
			logger.Warn("Rejected API key", logger.F("remote", c.RealIP()))
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid api key"})
		}
		return next(c)
	}
}
