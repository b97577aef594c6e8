package middleware

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"parkade/config"
	"parkade/infras/otel"
	"parkade/shared"
	"parkade/shared/cache"
	"parkade/shared/constant"
	"parkade/transport/http/response"
	"strconv"

	"github.com/go-chi/cors"
)

const (
	otelHTTPScopeName = "http"

	cacheKeyRateLimit = "limiter"
)

type AppMiddleware interface {
	Tracing(http.Handler) http.Handler
	RateLimit(http.Handler) http.Handler
	CORS(http.Handler) http.Handler
}

type appMiddleware struct {
	otel   otel.Otel
	config *config.Config
	cache  cache.RedisCache
}

func NewAppMiddleware(ot otel.Otel, config *config.Config, redisCache cache.RedisCache) AppMiddleware {
	return &appMiddleware{
		otel:   ot,
		config: config,
		cache:  redisCache,
	}
}

func (a *appMiddleware) Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		spanName := fmt.Sprintf("%s %s", request.Method, request.URL.Path)

		ctx, scope := a.otel.NewScope(request.Context(), otelHTTPScopeName, spanName)
		defer scope.End()

		scope.SetAttributes(map[string]any{
			"app.name":        a.config.App.Name,
			"http.path":       request.URL.Path,
			"http.method":     request.Method,
			"http.user_agent": request.UserAgent(),
			"http.host":       request.Host,
			"http.source":     clientIP(request),
		})

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RateLimit is a fixed-window per-IP limiter backed by redis. Limiter
// failures never block the request.
func (a *appMiddleware) RateLimit(next http.Handler) http.Handler {
	if !a.config.App.RateLimiter.Enable {
		return next
	}

	maxReqs := a.config.App.RateLimiter.MaxRequests
	windowSecs := a.config.App.RateLimiter.WindowSeconds

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		cacheKey := shared.BuildCacheKey(cacheKeyRateLimit, clientIP(request))

		var count int
		err := a.cache.Get(ctx, cacheKey, &count)

		switch {
		case err == nil:
			count++
		case errors.Is(err, cache.Nil):
			count = 1
		default:
			next.ServeHTTP(writer, request)

			return
		}

		if count > maxReqs {
			response.WithRequestLimitExceeded(writer)

			return
		}

		if err := a.cache.Save(ctx, cacheKey, count, windowSecs); err != nil {
			next.ServeHTTP(writer, request)

			return
		}

		writer.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(maxReqs))
		writer.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, maxReqs-count)))
		writer.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(windowSecs))

		next.ServeHTTP(writer, request)
	})
}

func (a *appMiddleware) CORS(next http.Handler) http.Handler {
	if !a.config.App.CORS.Enable {
		return next
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   a.config.App.CORS.AllowedOrigins,
		AllowedMethods:   a.config.App.CORS.AllowedMethods,
		AllowedHeaders:   a.config.App.CORS.AllowedHeaders,
		AllowCredentials: a.config.App.CORS.AllowCredentials,
		MaxAge:           a.config.App.CORS.MaxAgeSeconds,
	})(next)
}

func clientIP(request *http.Request) string {
	if forwarded := request.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}

	return host
}
