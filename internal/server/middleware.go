package server

import (
	"net/http"
	"time"

	"github.com/muhammadchandra19/hftx/pkg/logger"
	"github.com/muhammadchandra19/hftx/pkg/util"
)

// withRequestID threads a request id through the context so every
// log line of one request correlates. Callers may supply their own
// via the X-Request-ID header.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := util.WithRequestID(r.Context(), r.Header.Get("X-Request-ID"))
		ctx = util.WithClientIP(ctx, r.RemoteAddr)
		w.Header().Set("X-Request-ID", util.GetRequestID(ctx))

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))

		s.logger.DebugContext(ctx, "request served",
			logger.Field{Key: "method", Value: r.Method},
			logger.Field{Key: "path", Value: r.URL.Path},
			logger.Field{Key: "duration", Value: time.Since(start).String()},
		)
	})
}
