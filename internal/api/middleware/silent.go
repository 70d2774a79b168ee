package middleware

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SilentLogger logs requests but skips the noise: /health probes and the
// dashboard's 10-second self-refresh would otherwise dominate the log, and
// "broken pipe" errors from clients navigating away are not worth a line.
func SilentLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		if path == "/health" {
			return
		}
		if path == "/" && c.Writer.Status() < 400 {
			return
		}

		for _, e := range c.Errors {
			if ne, ok := e.Err.(*net.OpError); ok {
				if se, ok := ne.Err.(*os.SyscallError); ok {
					errMsg := strings.ToLower(se.Error())
					if strings.Contains(errMsg, "broken pipe") ||
						strings.Contains(errMsg, "connection reset by peer") {
						return
					}
				}
			}
		}

		latency := time.Since(start)
		if query != "" {
			path = path + "?" + query
		}

		fmt.Printf("[GIN] %v | %3d | %13v | %15s | %-7s %#v\n",
			time.Now().Format("2006/01/02 - 15:04:05"),
			c.Writer.Status(),
			latency,
			c.ClientIP(),
			c.Request.Method,
			path,
		)
	}
}
