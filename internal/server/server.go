// Package server exposes the console resources over HTTP for erp-api.
package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"erp/internal/api"
	"erp/internal/auth"
	"erp/internal/db"
	"erp/internal/logging"
	"erp/internal/model"
	"erp/internal/table"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ginlog "github.com/toorop/gin-logrus"
)

// Options configures the router.
type Options struct {
	// Secret verifies bearer tokens. Empty disables authentication.
	Secret string
	Debug  bool
}

// New builds the erp-api router over sources.
func New(sources model.Sources, opts Options) *gin.Engine {
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(requestID(), ginlog.Logger(logging.Log), gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routerapi := router.Group("/api")
	if opts.Secret != "" {
		routerapi.Use(bearerAuth(auth.NewVerifier([]byte(opts.Secret))))
	}
	routerapi.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	addResourceRoutes(routerapi.Group("/users"), sources.Users)
	addResourceRoutes(routerapi.Group("/orders"), sources.Orders)
	addResourceRoutes(routerapi.Group("/categories"), sources.Categories)

	return router
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(api.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(api.RequestIDHeader, id)
		c.Set("request_id", id)
		c.Next()
	}
}

func bearerAuth(v *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			abortWithError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		sub, err := v.Verify(token)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}
		c.Set("subject", sub)
		c.Next()
	}
}

func addResourceRoutes[Row model.Identified](group *gin.RouterGroup, res model.Resource[Row]) {
	group.GET("", func(c *gin.Context) {
		p, err := table.ParseParams(c.Request.URL.Query())
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		page, err := res.List(c.Request.Context(), p)
		if err != nil {
			abortWithError(c, statusFor(err), err.Error())
			return
		}
		c.JSON(http.StatusOK, page)
	})

	group.DELETE("/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := res.Delete(c.Request.Context(), id); err != nil {
			abortWithError(c, statusFor(err), err.Error())
			return
		}
		c.Status(http.StatusNoContent)
	})

	group.PUT("/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var row Row
		if err := c.ShouldBindJSON(&row); err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		if row.RowID() != id {
			abortWithError(c, http.StatusBadRequest, "id in body does not match path")
			return
		}
		if err := res.Restore(c.Request.Context(), row); err != nil {
			abortWithError(c, statusFor(err), err.Error())
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrHasDependents):
		return http.StatusConflict
	case errors.Is(err, db.ErrUnknownColumn), errors.Is(err, table.ErrInvalidParams):
		return http.StatusBadRequest
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, status int, msg string) {
	if status >= http.StatusInternalServerError {
		logging.Log.WithField("request_id", c.GetString("request_id")).Error(msg)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
