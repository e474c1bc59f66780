package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
)

const HeaderRequestID = "X-Request-ID"

type AccessLogMiddleware struct {
	logger arbor.ILogger
}

func NewAccessLogMiddleware(logger arbor.ILogger) *AccessLogMiddleware {
	if logger == nil {
		logger = arbor.NewLogger()
	}
	return &AccessLogMiddleware{logger: logger}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)

		err := c.Next()

		m.logger.Info().
			Str("rid", rid).
			Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.OriginalURL()).
			Int("status", c.Response().StatusCode()).
			Str("latency", time.Since(start).String()).
			Str("ua", c.Get(fiber.HeaderUserAgent)).
			Msg("HTTP access")

		return err
	}
}
