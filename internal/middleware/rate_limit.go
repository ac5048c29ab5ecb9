package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	limiter "github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"

	"clinical-records-server/internal/utils"
)

// RateLimit limits requests per client IP. rate uses the limiter format, e.g. "20-M".
func RateLimit(rate string) (gin.HandlerFunc, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", rate, err)
	}
	store := memory.NewStore()
	return ginlimiter.NewMiddleware(limiter.New(store, parsed),
		ginlimiter.WithLimitReachedHandler(func(c *gin.Context) {
			utils.Error(c, http.StatusTooManyRequests, "request was throttled")
		}),
	), nil
}
