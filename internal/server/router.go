package server

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mattn/go-isatty"

	"github.com/velotel/dialmap/pkg/config"
	"github.com/velotel/dialmap/pkg/dialplan"
	"github.com/velotel/dialmap/pkg/digitmap"
)

func NewRouter(cfg *config.Config, reg *dialplan.Registry, accessLogger *log.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(requestIDMiddleware())
	if cfg.Logging.AccessLog {
		color := accessLoggerIsTerminal(cfg)
		r.Use(requestLogger(accessLogger, color))
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	v1 := r.Group("/v1")
	v1.GET("/contexts", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"contexts": reg.Names()})
	})
	v1.GET("/digitmap/:context", makeDigitmapHandler(cfg, reg))
	v1.GET("/validate", func(c *gin.Context) {
		warnings := reg.Validate()
		out := make([]string, 0, len(warnings))
		for _, w := range warnings {
			out = append(out, w.String())
		}
		c.JSON(http.StatusOK, gin.H{"warnings": out})
	})

	return r
}

func makeDigitmapHandler(cfg *config.Config, reg *dialplan.Registry) gin.HandlerFunc {
	opts := digitmap.Options{
		MaxBytes:        cfg.Digitmap.MaxBytes,
		MaxIncludeDepth: dialplan.MaxIncludeDepth,
	}
	return func(c *gin.Context) {
		context := c.Param("context")
		out, warnings, err := digitmap.Generate(reg, context, opts)
		switch {
		case errors.Is(err, digitmap.ErrContextNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "no such context: " + context})
			return
		case errors.Is(err, digitmap.ErrBufferExhausted):
			c.JSON(http.StatusInsufficientStorage, gin.H{
				"error": "digit map exceeds " + strconv.Itoa(opts.MaxBytes) + " bytes",
			})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		warnStrings := make([]string, 0, len(warnings))
		for _, w := range warnings {
			warnStrings = append(warnStrings, w.String())
		}
		c.JSON(http.StatusOK, gin.H{
			"context":  context,
			"digitmap": out,
			"warnings": warnStrings,
		})
	}
}

func accessLoggerIsTerminal(cfg *config.Config) bool {
	// Color only when logging to an interactive stdout.
	if cfg.Logging.AccessLogPath != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
