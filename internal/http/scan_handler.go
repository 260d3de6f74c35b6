package http

import (
	"github.com/gin-gonic/gin"

	"github.com/hqminh2201/evm-route-engine/internal/aggregator"
	"github.com/hqminh2201/evm-route-engine/internal/http/httputil"
)

type ScanHandler struct {
	aggregatorSvc *aggregator.Service
}

func NewScanHandler(aggregatorSvc *aggregator.Service) *ScanHandler {
	return &ScanHandler{aggregatorSvc: aggregatorSvc}
}

func (h *ScanHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getScan)
}

func (h *ScanHandler) Root() string {
	return "/scan-liquidity"
}

// PairLiquidityResponse is one probed token pair of a liquidity scan
type PairLiquidityResponse struct {
	Base         string `json:"base" example:"WBNB"`
	Quote        string `json:"quote" example:"USDT"`
	BaseAddress  string `json:"baseAddress"`
	QuoteAddress string `json:"quoteAddress"`

	// Best output for one whole base token, smallest units; empty when
	// no liquidity in that direction
	ForwardOut string `json:"forwardOut,omitempty"`

	// Best output for one whole quote token, smallest units
	ReverseOut string `json:"reverseOut,omitempty"`

	Bidirectional bool `json:"bidirectional"`
}

// @Summary Scan testnet pair liquidity
// @Description Probe every token pair on the configured test chain against all
// @Description routers and report which directions have liquidity.
// @Tags scan
// @Produce json
// @Success 200 {array} PairLiquidityResponse "Probed pairs, bidirectional first"
// @Failure 500 {object} map[string]string "Scan failed"
// @Router /api/v1/scan-liquidity [get]
func (h *ScanHandler) getScan(c *gin.Context) {
	pairs, err := h.aggregatorSvc.ScanLiquidity(c.Request.Context())
	if err != nil {
		httputil.InternalError(c, err.Error())
		return
	}

	resp := make([]PairLiquidityResponse, 0, len(pairs))
	for _, p := range pairs {
		item := PairLiquidityResponse{
			Base:          p.Base,
			Quote:         p.Quote,
			BaseAddress:   p.BaseAddress.Hex(),
			QuoteAddress:  p.QuoteAddress.Hex(),
			Bidirectional: p.Bidirectional,
		}
		if p.ForwardOut != nil {
			item.ForwardOut = p.ForwardOut.String()
		}
		if p.ReverseOut != nil {
			item.ReverseOut = p.ReverseOut.String()
		}
		resp = append(resp, item)
	}
	httputil.Success(c, resp)
}
