package main

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"estateBack/internal/handlers"
	"estateBack/internal/models"
	"estateBack/internal/ratelimit"
)

const requestIDHeader = "X-Request-ID"

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

func makeResponseJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		app.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("proto", r.Proto),
			zap.String("method", r.Method),
			zap.String("uri", r.URL.RequestURI()),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, r, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// JWTMiddleware authenticates the bearer token and, when requiredRole is set,
// lets through only that role or admins.
func (app *application) JWTMiddleware(next http.Handler, requiredRole string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			app.clientError(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}
		accessToken := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := app.tokens.Parse(accessToken)
		if err != nil {
			app.clientError(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		if requiredRole != "" && claims.Role != requiredRole && claims.Role != models.RoleAdmin {
			app.clientError(w, http.StatusForbidden, "You are not allowed to perform this action")
			return
		}

		ctx := handlers.WithIdentity(r.Context(), claims.UserID, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

// rateLimit counts requests per authenticated user, or per client IP for
// anonymous calls. Limiter errors let the request through.
func (app *application) rateLimit(next http.Handler) http.Handler {
	return app.limitWith(app.limiter, "")(next)
}

// limitApartmentWrites applies the stricter per-user budget for listing
// create, update and booking calls.
func (app *application) limitApartmentWrites(next http.Handler) http.Handler {
	return app.limitWith(app.writeLimiter, "apartment_write:")(next)
}

func (app *application) limitWith(limiter *ratelimit.Limiter, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := scope + "ip:" + app.clientIP(r)
			if userID, _, ok := handlers.IdentityFrom(r.Context()); ok {
				subject = scope + "user:" + strconv.Itoa(userID)
			}

			res, err := limiter.Allow(r.Context(), subject)
			if err != nil {
				app.logger.Warn("rate limiter unavailable", zap.String("subject", subject), zap.Error(err))
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			if !res.Allowed {
				seconds := int(math.Ceil(res.RetryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				app.clientError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the direct peer address. X-Forwarded-For is only read when
// that peer is a trusted proxy, and then from the right, skipping further
// trusted hops, so a client cannot choose its own key by prepending entries.
func (app *application) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	peer := net.ParseIP(host)
	if peer == nil || !app.isTrustedProxy(peer) {
		return host
	}

	client := host
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		ip := net.ParseIP(hop)
		if ip == nil {
			break
		}
		client = ip.String()
		if !app.isTrustedProxy(ip) {
			break
		}
	}
	return client
}

func (app *application) isTrustedProxy(ip net.IP) bool {
	for _, n := range app.trustedProxies {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
