package server

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"rpcrank/internal/entity"
)

// ResultSource provides ranked probe outcomes to the HTTP surface.
type ResultSource interface {
	Summaries() ([]ChainSummary, error)
	Results(chainID uint64) ([]entity.ProbeResult, error)
	RankedURLs(chainID uint64) ([]string, error)
}

type Handler struct {
	source ResultSource
	logger *zap.Logger
}

func NewHandler(source ResultSource, logger *zap.Logger) *Handler {
	return &Handler{
		source: source,
		logger: logger.Named("HTTPHandler"),
	}
}

// GetChains handles requests for the per-chain sweep summary.
func (h *Handler) GetChains(ctx *fasthttp.RequestCtx) {
	summaries, err := h.source.Summaries()
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	h.writeJSON(ctx, summaries)
}

// GetChainRPCs handles requests for the ranked endpoint list of one chain.
func (h *Handler) GetChainRPCs(ctx *fasthttp.RequestCtx) {
	chainID, ok := h.chainID(ctx)
	if !ok {
		return
	}

	urls, err := h.source.RankedURLs(chainID)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	h.writeJSON(ctx, urls)
}

// GetChainResults handles requests for the full probe rows of one chain.
func (h *Handler) GetChainResults(ctx *fasthttp.RequestCtx) {
	chainID, ok := h.chainID(ctx)
	if !ok {
		return
	}

	rows, err := h.source.Results(chainID)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	h.writeJSON(ctx, rows)
}

func (h *Handler) chainID(ctx *fasthttp.RequestCtx) (uint64, bool) {
	chainIDStr, ok := ctx.UserValue("chainId").(string)
	if !ok {
		h.logger.Error("Failed to get chainId from context")
		ctx.Error("Bad Request: Invalid chainId format", fasthttp.StatusBadRequest)
		return 0, false
	}

	chainID, err := strconv.ParseUint(chainIDStr, 10, 64)
	if err != nil {
		h.logger.Error("Failed to parse chainId", zap.String("chainIdStr", chainIDStr), zap.Error(err))
		ctx.Error("Bad Request: Invalid chainId", fasthttp.StatusBadRequest)
		return 0, false
	}
	return chainID, true
}

func (h *Handler) writeJSON(ctx *fasthttp.RequestCtx, v any) {
	ctx.SetContentType("application/json")
	if err := json.NewEncoder(ctx).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
		// Response already started, can't set error code
	}
}

func (h *Handler) writeError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, entity.ErrUnknownChain):
		ctx.Error("Not Found", fasthttp.StatusNotFound)
	case errors.Is(err, entity.ErrNotReady):
		ctx.Error("Service Unavailable: "+entity.ErrNotReady.Error(), fasthttp.StatusServiceUnavailable)
	default:
		h.logger.Error("Request failed", zap.Error(err))
		ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
	}
}
