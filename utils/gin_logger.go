package utils

import (
	"errors"
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/blogforge/blogd/config"
)

// NewRollingFileLogger builds the access logger that writes to GIN_PATH.
func NewRollingFileLogger(cfg config.AppConfig) (*zap.Logger, error) {
	if cfg.GinPath == "" {
		return Logger, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.GinPath), 0o755); err != nil {
		return nil, err
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(rollingFile(cfg, cfg.GinPath)),
		zapcore.InfoLevel,
	)
	return zap.New(core), nil
}

// Ginzap logs one line per request after the handler chain finishes.
func Ginzap(logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path
		query := ctx.Request.URL.RawQuery
		ctx.Next()

		fields := []zap.Field{
			zap.Int("status", ctx.Writer.Status()),
			zap.String("method", ctx.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", ctx.ClientIP()),
			zap.String("user-agent", ctx.Request.UserAgent()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(ctx.Errors) > 0 {
			for _, e := range ctx.Errors.Errors() {
				logger.Error(e, fields...)
			}
			return
		}
		logger.Info(path, fields...)
	}
}

// RecoveryWithZap turns panics into a 500 envelope and logs them. Broken
// client connections are logged without a response.
func RecoveryWithZap(logger *zap.Logger, stack bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			request, _ := httputil.DumpRequest(ctx.Request, false)
			if brokenPipe(rec) {
				logger.Error(ctx.Request.URL.Path, zap.Any("error", rec), zap.String("request", string(request)))
				_ = ctx.Error(rec.(error))
				ctx.Abort()
				return
			}
			fields := []zap.Field{
				zap.Time("time", time.Now()),
				zap.Any("error", rec),
				zap.String("request", string(request)),
			}
			if stack {
				fields = append(fields, zap.String("stack", string(debug.Stack())))
			}
			logger.Error("[Recovery from panic]", fields...)
			Error(ctx, http.StatusInternalServerError, 50000, MsgInternal)
			ctx.Abort()
		}()
		ctx.Next()
	}
}

func brokenPipe(rec interface{}) bool {
	err, ok := rec.(error)
	if !ok {
		return false
	}
	var ne *net.OpError
	if !errors.As(err, &ne) {
		return false
	}
	var se *os.SyscallError
	if errors.As(ne, &se) {
		msg := strings.ToLower(se.Error())
		return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
	}
	return false
}
