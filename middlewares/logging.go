package middlewares

import (
	"log/slog"
	"time"

	"github.com/xxc-git/zero2prod/internal"
)

// Logging returns middleware that writes one log entry per request with
// method, path, status, response size and duration. Query strings are not
// logged: the confirmation endpoint carries a bearer token there.
//
// Place it after RequestID so entries carry the request_id attribute.
func Logging() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			start := time.Now()
			err := next(c)

			rw := c.ResponseWriter()
			level := slog.LevelInfo
			switch {
			case err != nil || rw.Status() >= 500:
				level = slog.LevelError
			case rw.Status() >= 400:
				level = slog.LevelWarn
			}

			attrs := []slog.Attr{
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", rw.Status()),
				slog.Int64("bytes", rw.Size()),
				slog.Duration("duration", time.Since(start)),
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
			}
			c.Logger().LogAttrs(c.Context(), level, "http request", attrs...)

			return err
		}
	}
}
