package http

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/hqminh2201/evm-route-engine/internal/aggregator"
	appcommon "github.com/hqminh2201/evm-route-engine/internal/common"
	"github.com/hqminh2201/evm-route-engine/internal/domain"
	"github.com/hqminh2201/evm-route-engine/internal/http/httputil"
)

type QuoteHandler struct {
	aggregatorSvc *aggregator.Service
}

func NewQuoteHandler(aggregatorSvc *aggregator.Service) *QuoteHandler {
	return &QuoteHandler{aggregatorSvc: aggregatorSvc}
}

func (h *QuoteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("", h.postQuote)
	pub.POST("/best", h.postBestRoute)
}

func (h *QuoteHandler) Root() string {
	return "/quote"
}

// QuoteRequest carries the parameters for an aggregated swap quote
type QuoteRequest struct {
	// EVM chain ID (56 = BSC mainnet, 97 = BSC testnet)
	ChainID int64 `json:"chainId" binding:"required,gt=0" example:"56"`

	// Input token contract address
	TokenIn string `json:"tokenIn" binding:"required" example:"0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d"`

	// Output token contract address
	TokenOut string `json:"tokenOut" binding:"required" example:"0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c"`

	// Amount in smallest token units, decimal string
	// For a token with 18 decimals: "1000000000000000000" = 1 token
	Amount string `json:"amount" binding:"required" example:"1000000000000000000"`

	// Trade mode: "exact-in" fixes the input, "exact-out" fixes the output
	Mode string `json:"mode" binding:"required" enums:"exact-in,exact-out" example:"exact-in"`

	// Extra bridge-token hints (symbols or raw addresses), optional
	RoutesPool []string `json:"routesPool"`

	// Candidate path cap, optional (default 30)
	MaxRoutes int `json:"maxRoutes" example:"30"`

	// Opt into the preferred-router bonus (best-route endpoint only)
	PreferRouter bool `json:"preferRouter"`
}

// QuoteResponse is the winning quote candidate
type QuoteResponse struct {
	// Name of the router that produced the best quote
	Router string `json:"router" example:"PancakeSwap"`

	// Router contract address
	RouterAddress string `json:"routerAddress" example:"0x10ED43C718714eb63d5aA57B78B54704E256024E"`

	// Input amount in smallest units, decimal string
	AmountIn string `json:"amountIn" example:"1000000000000000000"`

	// Output amount in smallest units, decimal string
	AmountOut string `json:"amountOut" example:"5000000000000000000"`

	// Token address sequence of the winning path
	Path []string `json:"path"`

	// Token symbols along the path, diagnostic only
	PathSymbols []string `json:"pathSymbols"`

	ChainID int64  `json:"chainId" example:"56"`
	Mode    string `json:"mode" example:"exact-in"`

	// Forward price (amountOut / amountIn)
	ForwardPrice float64 `json:"forwardPrice" example:"5.0"`

	// Reverse price from the complementary query
	ReversePrice float64 `json:"reversePrice" example:"5.001"`

	// Forward/reverse disagreement in basis points
	SpreadBps float64 `json:"spreadBps" example:"2.0"`
}

// BestRouteResponse extends QuoteResponse with scoring output
type BestRouteResponse struct {
	QuoteResponse

	// Liquidity source family: v2, v3, or algebra
	Source string `json:"source" example:"v2"`

	// V3 fee tier, present for v3 candidates only
	FeeTier uint32 `json:"feeTier,omitempty" example:"500"`

	// Fee/gas-adjusted ranking score
	Score float64 `json:"score"`

	// Relative score gap to the runner-up in bps; 0 with a single candidate
	ConfidenceBps float64 `json:"confidenceBps" example:"125.4"`

	// Number of candidates that survived filtering
	Evaluated int `json:"evaluated" example:"7"`
}

func (h *QuoteHandler) parseQuoteRequest(c *gin.Context) (*domain.QuoteRequest, bool, bool) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return nil, false, false
	}

	if !common.IsHexAddress(req.TokenIn) {
		httputil.BadRequest(c, "invalid tokenIn address")
		return nil, false, false
	}
	if !common.IsHexAddress(req.TokenOut) {
		httputil.BadRequest(c, "invalid tokenOut address")
		return nil, false, false
	}

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		httputil.BadRequest(c, "invalid amount: must be a positive integer")
		return nil, false, false
	}

	mode, err := domain.ParseTradeMode(req.Mode)
	if err != nil {
		httputil.BadRequest(c, err.Error())
		return nil, false, false
	}

	return &domain.QuoteRequest{
		ChainID:    req.ChainID,
		TokenIn:    common.HexToAddress(req.TokenIn),
		TokenOut:   common.HexToAddress(req.TokenOut),
		Amount:     amount,
		Mode:       mode,
		RoutesPool: req.RoutesPool,
		MaxRoutes:  req.MaxRoutes,
	}, req.PreferRouter, true
}

func (h *QuoteHandler) handleQuoteError(c *gin.Context, err error) {
	var vErr *aggregator.ValidationError
	switch {
	case errors.As(err, &vErr):
		httputil.FromHTTPError(c, appcommon.HTTPErrorBadRequest(vErr.Error()))
	case errors.Is(err, aggregator.ErrNoViableQuote):
		httputil.FromHTTPError(c, appcommon.HTTPErrorNotFound("no route found for selected pair on this chain"))
	case errors.Is(err, aggregator.ErrNoRouters), errors.Is(err, aggregator.ErrNoPaths):
		// Setup problem, not a market problem; surfaced verbatim so
		// operators can tell the two apart.
		httputil.FromHTTPError(c, appcommon.HTTPErrorInternalError(err.Error()))
	default:
		httputil.FromHTTPError(c, appcommon.HTTPErrorInternalErrorDetail("quote failed", err.Error()))
	}
}

func buildQuoteResponse(req *domain.QuoteRequest, q *domain.QuoteCandidate) QuoteResponse {
	path := make([]string, len(q.Path.Tokens))
	for i, t := range q.Path.Tokens {
		path[i] = t.Hex()
	}
	return QuoteResponse{
		Router:        q.Router.Name,
		RouterAddress: q.Router.Address.Hex(),
		AmountIn:      q.AmountIn.String(),
		AmountOut:     q.AmountOut.String(),
		Path:          path,
		PathSymbols:   q.Path.Labels,
		ChainID:       req.ChainID,
		Mode:          string(req.Mode),
		ForwardPrice:  q.ForwardPrice,
		ReversePrice:  q.ReversePrice,
		SpreadBps:     q.SpreadBps,
	}
}

// @Summary Get aggregated swap quote
// @Description Find the best price for a token pair across all configured V2 routers
// @Description and path topologies (direct, one-bridge, two-bridge hops).
// @Tags quote
// @Accept json
// @Produce json
// @Param request body QuoteRequest true "Quote parameters"
// @Success 200 {object} QuoteResponse "Best quote with routing information"
// @Failure 400 {object} map[string]string "Invalid request parameters"
// @Failure 404 {object} map[string]string "No route found for the pair"
// @Router /api/v1/quote [post]
func (h *QuoteHandler) postQuote(c *gin.Context) {
	req, _, ok := h.parseQuoteRequest(c)
	if !ok {
		return
	}

	best, err := h.aggregatorSvc.QuoteAggregatedSwap(c.Request.Context(), *req)
	if err != nil {
		h.handleQuoteError(c, err)
		return
	}

	httputil.Success(c, buildQuoteResponse(req, best))
}

// @Summary Get scored best route
// @Description Like /quote, but blends V2 routers with the chain's V3 and
// @Description Algebra quoters, applies fee/gas-adjusted scoring, and reports
// @Description a confidence gap between the top two candidates.
// @Tags quote
// @Accept json
// @Produce json
// @Param request body QuoteRequest true "Quote parameters"
// @Success 200 {object} BestRouteResponse "Scored best route"
// @Failure 400 {object} map[string]string "Invalid request parameters"
// @Failure 404 {object} map[string]string "No route found for the pair"
// @Router /api/v1/quote/best [post]
func (h *QuoteHandler) postBestRoute(c *gin.Context) {
	req, prefer, ok := h.parseQuoteRequest(c)
	if !ok {
		return
	}

	result, err := h.aggregatorSvc.BestRoute(c.Request.Context(), domain.BestRouteRequest{
		QuoteRequest: *req,
		PreferRouter: prefer,
	})
	if err != nil {
		h.handleQuoteError(c, err)
		return
	}

	httputil.Success(c, BestRouteResponse{
		QuoteResponse: buildQuoteResponse(req, &result.Best.QuoteCandidate),
		Source:        string(result.Best.Source),
		FeeTier:       result.Best.FeeTier,
		Score:         result.Best.Score,
		ConfidenceBps: result.ConfidenceBps,
		Evaluated:     result.Evaluated,
	})
}
