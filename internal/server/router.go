package server

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// NewRouter wires the result endpoints and the health check.
func NewRouter(h *Handler, logger *zap.Logger) *router.Router {
	r := router.New()

	r.GET("/chains", h.GetChains)
	r.GET("/chains/{chainId:[0-9]+}/rpcs", h.GetChainRPCs)
	r.GET("/chains/{chainId:[0-9]+}/results", h.GetChainResults)

	r.GET("/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("OK")
	})

	logger.Info("All routes registered.")
	return r
}
