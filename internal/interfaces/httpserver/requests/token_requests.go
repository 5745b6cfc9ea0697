package requests

// LaunchTokenRequest starts token launch preparation. The wallet key may
// also arrive via the X-Wallet-Key header.
type LaunchTokenRequest struct {
	WalletPublicKey string `json:"walletPublicKey"`
}

// PumpFunResultPayload is the on-chain confirmation from the signer.
type PumpFunResultPayload struct {
	Signature   string `json:"signature" binding:"required"`
	MetadataURI string `json:"metadataUri" binding:"required"`
}

// SaveTokenResultRequest records the outcome of a submitted launch.
type SaveTokenResultRequest struct {
	TokenInfo struct {
		Mint        string               `json:"mint" binding:"required"`
		Name        string               `json:"name" binding:"required"`
		Symbol      string               `json:"symbol" binding:"required"`
		Description string               `json:"description"`
		PumpFun     PumpFunResultPayload `json:"pumpfun" binding:"required"`
	} `json:"tokenInfo" binding:"required"`
}
