package api

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/services"
)

// currentUserKey is the gin context key under which the authenticated user is
// stored by AuthMiddleware.
const currentUserKey = "currentUser"

// AuthMiddleware authenticates a request from the access_token cookie (with
// an Authorization: Bearer fallback for non-browser clients), verifies the
// JWT and loads a fresh user snapshot from the database. Loading per request
// is what makes tier changes effective on the next request.
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
			return
		}

		claims, err := authService.ParseAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired access token"})
			return
		}

		user, err := authService.GetUser(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// currentUser returns the user stored by AuthMiddleware. Only valid on routes
// behind the middleware.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet(currentUserKey).(*models.User)
}

// ipLimiters hands out one token bucket per client IP. Entries are never
// evicted; the map is bounded by the number of distinct client IPs seen by
// the process.
type ipLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.rps, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

// RateLimitMiddleware applies a process-wide per-IP request throttle. This is
// the only rate limiting in the system; the public click endpoint gets
// nothing beyond it.
func RateLimitMiddleware(requestsPerSecond float64, burst int) gin.HandlerFunc {
	limiters := &ipLimiters{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(requestsPerSecond),
		burst:    burst,
	}
	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
