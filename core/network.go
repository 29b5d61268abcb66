package core

// NetworkConfig describes one NEAR deployment target
type NetworkConfig struct {
	NetworkID    string `json:"networkId"`
	NodeURL      string `json:"nodeUrl"`
	ContractName string `json:"contractName"`
	WalletURL    string `json:"walletUrl"`
	HelperURL    string `json:"helperUrl"`
	ExplorerURL  string `json:"explorerUrl"`
	GasLimit     string `json:"gas,omitempty"`
	TokenType    string `json:"tokenType,omitempty"`
}

// AccountState is the result of a view_account query
type AccountState struct {
	Amount        string `json:"amount"`
	Locked        string `json:"locked"`
	CodeHash      string `json:"code_hash"`
	StorageUsage  uint64 `json:"storage_usage"`
	StoragePaidAt uint64 `json:"storage_paid_at"`
	BlockHeight   uint64 `json:"block_height"`
	BlockHash     string `json:"block_hash"`
}

// AccountBalance breaks an account's funds down, all values in yoctoNEAR
type AccountBalance struct {
	Total       string `json:"total"`
	StateStaked string `json:"stateStaked"`
	Staked      string `json:"staked"`
	Available   string `json:"available"`
}

// FunctionCall is a contract call handed to the wallet for signing
type FunctionCall struct {
	ReceiverID string `json:"receiverId"`
	MethodName string `json:"methodName"`
	Args       any    `json:"args"`
	Gas        string `json:"gas"`
	Deposit    string `json:"deposit"`
}
