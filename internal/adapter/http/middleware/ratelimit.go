package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nishantchy/ecom-microservice/internal/logging"
	"github.com/nishantchy/ecom-microservice/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rateLimitDenied = promauto.NewCounter(prometheus.CounterOpts{
	Name: "rate_limit_denied_total",
	Help: "Requests denied admission",
})

// RateLimit gates entry before any other pipeline work. Keyed by client IP:
// the principal is not known until after admission.
func RateLimit(admit usecase.RateAdmitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		remaining, ok, err := admit.Admit(c.Request.Context(), c.ClientIP())
		if err != nil {
			logging.From(c).Error("rate admission store failure", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
			return
		}
		if !ok {
			rateLimitDenied.Inc()
			logging.From(c).Info("request rate limited", "remote", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited"})
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Next()
	}
}
