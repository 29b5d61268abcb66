package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/nearstore/core"
	"github.com/layer-3/nearstore/service"
	"github.com/layer-3/nearstore/wallet"
	"go.uber.org/zap"
)

// Handlers contains the HTTP handlers for views, auth and API endpoints
type Handlers struct {
	auth      *service.AuthService
	market    *service.MarketService
	sessions  *service.SessionStore
	facade    *wallet.Facade
	logger    *zap.Logger
	publicURL string
}

// NewHandlers creates new handlers
func NewHandlers(deps Deps) *Handlers {
	return &Handlers{
		auth:      deps.Auth,
		market:    deps.Market,
		sessions:  deps.Sessions,
		facade:    deps.Facade,
		logger:    deps.Logger,
		publicURL: strings.TrimRight(deps.PublicURL, "/"),
	}
}

// Home returns the session status and active network
func (h *Handlers) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"network": h.facade.Config(),
		"session": h.sessions.Status(),
	})
}

// Store lists tokens minted by the contract
func (h *Handlers) Store(c *gin.Context) {
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}

	tokens, err := h.market.StoreTokens(c.Request.Context(), page)
	if err != nil {
		h.fail(c, err, "Failed to load tokens")
		return
	}

	resp := gin.H{
		"contract":   h.facade.Config().ContractName,
		"from_index": page.FromIndex,
		"tokens":     tokens,
	}
	// the listing still renders without contract metadata
	if metadata, err := h.market.ContractMetadata(c.Request.Context()); err != nil {
		h.logger.Warn("failed to load contract metadata", zap.Error(err))
	} else {
		resp["metadata"] = metadata
	}

	c.JSON(http.StatusOK, resp)
}

// My lists the signed-in account's tokens
func (h *Handlers) My(c *gin.Context) {
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}

	accountID := c.GetString(accountIDKey)
	tokens, err := h.market.OwnerTokens(c.Request.Context(), accountID, page)
	if err != nil {
		h.fail(c, err, "Failed to load tokens")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accountId": accountID,
		"balance":   h.sessions.Status().Balance,
		"tokens":    tokens,
	})
}

// MintForm returns the parameters a mint call will use
func (h *Handlers) MintForm(c *gin.Context) {
	cfg := h.facade.Config()
	depositNEAR, err := h.facade.FormatAmount(service.MintDeposit, wallet.NominationExp)
	if err != nil {
		h.fail(c, err, "Failed to format deposit")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"receiverId":  cfg.ContractName,
		"gas":         cfg.GasLimit,
		"deposit":     service.MintDeposit,
		"depositNear": depositNEAR,
		"tokenType":   cfg.TokenType,
	})
}

// Mint prepares an nft_mint call for the signed-in account
func (h *Handlers) Mint(c *gin.Context) {
	var metadata core.TokenMetadata
	if err := c.ShouldBindJSON(&metadata); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	call, err := h.market.PrepareMint(c.GetString(accountIDKey), metadata)
	if err != nil {
		h.fail(c, err, "Failed to prepare mint")
		return
	}

	c.JSON(http.StatusOK, gin.H{"call": call})
}

// SignIn redirects to the wallet login page
func (h *Handlers) SignIn(c *gin.Context) {
	walletURL, err := h.auth.RequestSignIn(c.Request.Context(), h.publicURL+"/auth/callback")
	if err != nil {
		h.fail(c, err, "Failed to start sign-in")
		return
	}

	c.Redirect(http.StatusFound, walletURL)
}

// Callback handles the wallet's redirect after the user approved or rejected
// the access key
func (h *Handlers) Callback(c *gin.Context) {
	if c.Query("failed") != "" || c.Query("errorCode") != "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign-in was rejected in the wallet"})
		return
	}

	state := c.Query("state")
	accountID := c.Query("account_id")
	if state == "" || accountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var allKeys []string
	if raw := c.Query("all_keys"); raw != "" {
		allKeys = strings.Split(raw, ",")
	}

	status, err := h.auth.CompleteSignIn(c.Request.Context(), state, accountID, c.Query("public_key"), allKeys)
	if err != nil {
		h.fail(c, err, "Sign-in failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": status})
}

// SignOut disconnects the wallet
func (h *Handlers) SignOut(c *gin.Context) {
	if err := h.auth.SignOut(c.Request.Context()); err != nil {
		h.fail(c, err, "Failed to sign out")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// AccountTaken reports whether an account id already exists
func (h *Handlers) AccountTaken(c *gin.Context) {
	accountID := c.Param("id")
	taken, err := h.facade.IsAccountTaken(c.Request.Context(), accountID)
	if err != nil {
		h.fail(c, err, "Failed to check account")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accountId": accountID,
		"taken":     taken,
	})
}

// Balance refreshes and returns the signed-in account's balance
func (h *Handlers) Balance(c *gin.Context) {
	status, err := h.auth.RefreshBalance(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load balance")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accountId": status.AccountID,
		"balance":   status.Balance,
	})
}

// fail maps err to a status code and writes it. Unmapped errors are logged
// and reported with fallback as the message.
func (h *Handlers) fail(c *gin.Context, err error, fallback string) {
	statusCode := http.StatusInternalServerError
	errorMsg := fallback

	switch {
	case errors.Is(err, core.ErrNotSignedIn):
		statusCode = http.StatusUnauthorized
		errorMsg = "Sign in required"
	case errors.Is(err, core.ErrTokenExpired):
		statusCode = http.StatusBadRequest
		errorMsg = "Sign-in request expired"
	case errors.Is(err, core.ErrTokenInvalidated):
		statusCode = http.StatusBadRequest
		errorMsg = "Sign-in state already used"
	case errors.Is(err, core.ErrInvalidToken), errors.Is(err, core.ErrInvalidChallenge):
		statusCode = http.StatusBadRequest
		errorMsg = "Invalid sign-in state"
	case errors.Is(err, core.ErrKeyPairNotFound):
		statusCode = http.StatusBadRequest
		errorMsg = "Unknown access key"
	case errors.Is(err, core.ErrInvalidMetadata), errors.Is(err, core.ErrInvalidAmount):
		statusCode = http.StatusBadRequest
		errorMsg = err.Error()
	case errors.Is(err, core.ErrTokenNotFound), errors.Is(err, core.ErrAccountNotFound):
		statusCode = http.StatusNotFound
		errorMsg = err.Error()
	default:
		h.logger.Error(fallback, zap.String("path", c.Request.URL.Path), zap.Error(err))
	}

	_ = c.Error(err)
	c.JSON(statusCode, gin.H{"error": errorMsg})
}

func pageFromQuery(c *gin.Context) (service.Page, bool) {
	var page service.Page
	for name, dst := range map[string]*uint64{"from_index": &page.FromIndex, "limit": &page.Limit} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
			return page, false
		}
		*dst = v
	}
	return page, true
}
