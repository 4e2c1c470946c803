package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// forwardedIP returns the first parseable address from CF-Connecting-IP or
// the left-most X-Forwarded-For entry.
func forwardedIP(c *gin.Context) string {
	candidates := []string{c.GetHeader("CF-Connecting-IP")}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		candidates = append(candidates, first)
	}
	for _, raw := range candidates {
		if ip := net.ParseIP(strings.TrimSpace(raw)); ip != nil {
			return ip.String()
		}
	}
	return ""
}

// RealIP stores the client address under "real_ip" for the rate limiter and
// the access log.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := forwardedIP(c)
		if ip == "" {
			ip = c.ClientIP()
		}
		c.Set("real_ip", ip)
		c.Next()
	}
}
