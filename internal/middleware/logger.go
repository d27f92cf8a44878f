package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request and recovers from panics so
// a broken handler never kills the process.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		defer func() {
			if recovered := recover(); recovered != nil {
				log.Printf("panic method=%s path=%s client_ip=%s user_id=%d error=%q",
					c.Request.Method, c.Request.URL.Path, c.ClientIP(), c.GetInt64("user_id"),
					fmt.Sprintf("%v", recovered))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_ERROR",
						"message": "Internal server error",
					},
				})
				return
			}

			status := c.Writer.Status()
			entry := fmt.Sprintf("request status=%d method=%s path=%s client_ip=%s user_id=%d latency=%s",
				status, c.Request.Method, c.Request.URL.Path, c.ClientIP(), c.GetInt64("user_id"), time.Since(start))
			if status >= http.StatusInternalServerError {
				entry += fmt.Sprintf(" errors=%q", c.Errors.String())
			}
			log.Println(entry)
		}()

		c.Next()
	}
}
