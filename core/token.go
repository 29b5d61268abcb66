package core

// TokenMetadata follows the NEP-177 token metadata shape
type TokenMetadata struct {
	Title         string `json:"title,omitempty"`
	Description   string `json:"description,omitempty"`
	Media         string `json:"media,omitempty"`
	MediaHash     string `json:"media_hash,omitempty"`
	Copies        uint64 `json:"copies,omitempty"`
	IssuedAt      string `json:"issued_at,omitempty"`
	ExpiresAt     string `json:"expires_at,omitempty"`
	StartsAt      string `json:"starts_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
	Extra         string `json:"extra,omitempty"`
	Reference     string `json:"reference,omitempty"`
	ReferenceHash string `json:"reference_hash,omitempty"`
}

// Token is a NEP-171 token as returned by the contract views
type Token struct {
	TokenID            string            `json:"token_id"`
	OwnerID            string            `json:"owner_id"`
	Metadata           *TokenMetadata    `json:"metadata,omitempty"`
	ApprovedAccountIDs map[string]uint64 `json:"approved_account_ids,omitempty"`
}

// ContractMetadata is what nft_metadata returns for the whole contract
type ContractMetadata struct {
	Spec          string `json:"spec"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	Icon          string `json:"icon,omitempty"`
	BaseURI       string `json:"base_uri,omitempty"`
	Reference     string `json:"reference,omitempty"`
	ReferenceHash string `json:"reference_hash,omitempty"`
}
