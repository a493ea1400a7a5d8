package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/ksuid"
	"gitlab.com/shar-workflow/iflowscan/common/logx"
	"gitlab.com/shar-workflow/iflowscan/common/telemetry"
	"gitlab.com/shar-workflow/iflowscan/common/version"
	"gitlab.com/shar-workflow/iflowscan/model"
	errors2 "gitlab.com/shar-workflow/iflowscan/server/errors"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
)

const ginCtxKey = "iflowscan.ctx"

// Router builds the HTTP API.
//
//	GET  /         health
//	GET  /metrics  prometheus metrics
//	POST /extract  {"iflows": ["..."]}
func (s *Endpoints) Router() *gin.Engine {
	r := gin.New()
	if s.panicRecovery {
		r.Use(gin.Recovery())
	}
	r.Use(s.requestContext())
	r.GET("/", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	r.POST("/extract", s.authenticated(), s.httpExtract)
	return r
}

func (s *Endpoints) requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, _ := logx.LoggingEntrypoint(c.Request.Context(), "http", ksuid.New().String())
		ctx = propagation.TraceContext{}.Extract(ctx, propagation.HeaderCarrier(c.Request.Header))
		ctx = telemetry.WithCallerTrace(ctx, c.GetHeader(telemetry.TraceparentHeader))
		ctx, span := s.tr.Start(ctx, c.Request.Method+" "+c.FullPath(), trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		c.Set(ginCtxKey, ctx)
		c.Next()
	}
}

func (s *Endpoints) authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, err := s.auth.authenticate(ginContext(c), c.GetHeader("Authorization"))
		if err != nil {
			s.metrics.request("http", "unauthenticated")
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.APIError{Code: int(codes.Unauthenticated), Error: err.Error()})
			return
		}
		c.Set(ginCtxKey, ctx)
		c.Next()
	}
}

func (s *Endpoints) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "iflowscan",
		"version": version.Version,
	})
}

func (s *Endpoints) httpExtract(c *gin.Context) {
	req := &model.ExtractRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		s.metrics.request("http", "error")
		c.JSON(http.StatusBadRequest, model.APIError{Code: int(codes.InvalidArgument), Error: err.Error()})
		return
	}
	ctx := ginContext(c)
	res, err := s.extract(ctx, req)
	if err != nil {
		s.metrics.request("http", "error")
		status := http.StatusInternalServerError
		if errors.Is(err, errors2.ErrNoIflows) {
			status = http.StatusBadRequest
		} else {
			logx.FromContext(ctx).Error("extract failed", "error", err)
		}
		c.JSON(status, model.APIError{Code: int(errorCode(err)), Error: err.Error()})
		return
	}
	s.metrics.request("http", "ok")
	c.JSON(http.StatusOK, res)
}

func ginContext(c *gin.Context) context.Context {
	if v, ok := c.Get(ginCtxKey); ok {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}
	return c.Request.Context()
}
