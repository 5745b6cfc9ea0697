package responses

import "zync-server/backroom-api/internal/domain/token"

// LaunchTokenResponse hands the signer everything needed to submit the
// launch transaction.
type LaunchTokenResponse struct {
	Success      bool                 `json:"success"`
	LaunchParams token.LaunchParams   `json:"launchParams"`
	PendingToken *token.PendingRecord `json:"pendingTokenInfo,omitempty"`
}

// SaveTokenResponse confirms a recorded launch result.
type SaveTokenResponse struct {
	Success   bool          `json:"success"`
	TokenInfo *token.Record `json:"tokenInfo"`
}
