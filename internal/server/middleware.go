package server

import (
	crand "crypto/rand"
	"fmt"
	"log"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const requestIDHeaderKey = "X-Dialmap-Request-Id"

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeaderKey))
		if id == "" {
			id = genRequestID()
		}
		c.Header(requestIDHeaderKey, id)
		c.Set(requestIDHeaderKey, id)
		c.Next()
	}
}

func requestLogger(l *log.Logger, color bool) gin.HandlerFunc {
	if l == nil {
		l = log.New(os.Stdout, "", log.LstdFlags)
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		line := fmt.Sprintf("%s | %s | %s %s | request_id=%s",
			statusText(status, color),
			latency.Round(time.Microsecond),
			c.Request.Method,
			c.Request.URL.Path,
			c.GetString(requestIDHeaderKey),
		)
		l.Println(line)
	}
}

func statusText(status int, color bool) string {
	if !color {
		return fmt.Sprintf("%3d", status)
	}
	switch {
	case status >= 500:
		return fmt.Sprintf("\x1b[31m%3d\x1b[0m", status)
	case status >= 400:
		return fmt.Sprintf("\x1b[33m%3d\x1b[0m", status)
	default:
		return fmt.Sprintf("\x1b[32m%3d\x1b[0m", status)
	}
}

// genRequestID builds yyyymmddHHMMSSuuuuuu plus 8 random digits.
func genRequestID() string {
	ts := strings.ReplaceAll(time.Now().Format("20060102150405.000000"), ".", "")
	var b strings.Builder
	b.Grow(len(ts) + 8)
	b.WriteString(ts)
	for i := 0; i < 8; i++ {
		b.WriteByte('0' + byte(cryptoRandIntn(10)))
	}
	return b.String()
}

func cryptoRandIntn(max int) int {
	if max <= 0 {
		return 0
	}
	n, err := crand.Int(crand.Reader, big.NewInt(int64(max)))
	if err != nil {
		// best effort fallback
		return 0
	}
	return int(n.Int64())
}
