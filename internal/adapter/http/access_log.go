package httpadapter

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"
)

// AccessLogMiddleware logs one structured line per request after the
// handler chain finishes.
func AccessLogMiddleware(logger *zap.Logger) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		logger.Info("request",
			zap.String("method", string(ctx.Method())),
			zap.String("path", string(ctx.Path())),
			zap.Int("status", ctx.Response.StatusCode()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
