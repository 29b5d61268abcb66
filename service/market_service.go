package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/layer-3/nearstore/core"
	"github.com/layer-3/nearstore/wallet"
)

const (
	// MintDeposit covers storage for one minted token, in yoctoNEAR
	MintDeposit = "5870000000000000000000"

	defaultPageLimit = 50
	maxPageLimit     = 100
)

// MarketService reads and prepares NFT contract calls
type MarketService struct {
	contract *wallet.Account
	config   core.NetworkConfig
}

// NewMarketService binds the service to the contract account
func NewMarketService(contract *wallet.Account, cfg core.NetworkConfig) *MarketService {
	return &MarketService{
		contract: contract,
		config:   cfg,
	}
}

// Page selects a window of an enumeration
type Page struct {
	FromIndex uint64
	Limit     uint64
}

func (p Page) args() map[string]any {
	limit := p.Limit
	if limit == 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return map[string]any{
		"from_index": strconv.FormatUint(p.FromIndex, 10),
		"limit":      limit,
	}
}

// StoreTokens lists tokens minted by the contract
func (s *MarketService) StoreTokens(ctx context.Context, page Page) ([]core.Token, error) {
	tokens := []core.Token{}
	if err := s.contract.ViewFunction(ctx, "nft_tokens", page.args(), &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// OwnerTokens lists tokens owned by accountID
func (s *MarketService) OwnerTokens(ctx context.Context, accountID string, page Page) ([]core.Token, error) {
	args := page.args()
	args["account_id"] = accountID

	tokens := []core.Token{}
	if err := s.contract.ViewFunction(ctx, "nft_tokens_for_owner", args, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// Token returns one token or core.ErrTokenNotFound
func (s *MarketService) Token(ctx context.Context, tokenID string) (*core.Token, error) {
	var token *core.Token
	if err := s.contract.ViewFunction(ctx, "nft_token", map[string]string{"token_id": tokenID}, &token); err != nil {
		return nil, err
	}
	if token == nil {
		return nil, fmt.Errorf("%w: %s", core.ErrTokenNotFound, tokenID)
	}
	return token, nil
}

// TotalSupply returns the number of minted tokens
func (s *MarketService) TotalSupply(ctx context.Context) (string, error) {
	var supply string
	if err := s.contract.ViewFunction(ctx, "nft_total_supply", nil, &supply); err != nil {
		return "", err
	}
	return supply, nil
}

// ContractMetadata returns the contract's name, symbol and metadata version
func (s *MarketService) ContractMetadata(ctx context.Context) (*core.ContractMetadata, error) {
	var metadata core.ContractMetadata
	if err := s.contract.ViewFunction(ctx, "nft_metadata", nil, &metadata); err != nil {
		return nil, err
	}
	return &metadata, nil
}

// PrepareMint builds the nft_mint call the wallet signs for ownerID
func (s *MarketService) PrepareMint(ownerID string, metadata core.TokenMetadata) (*core.FunctionCall, error) {
	if ownerID == "" {
		return nil, core.ErrNotSignedIn
	}
	if strings.TrimSpace(metadata.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", core.ErrInvalidMetadata)
	}
	if metadata.Copies == 0 {
		metadata.Copies = 1
	}

	return &core.FunctionCall{
		ReceiverID: s.config.ContractName,
		MethodName: "nft_mint",
		Args: map[string]any{
			"token_id":       uuid.New().String(),
			"token_owner_id": ownerID,
			"token_metadata": metadata,
		},
		Gas:     s.config.GasLimit,
		Deposit: MintDeposit,
	}, nil
}
