// Package token implements the idempotent, authorization-gated token launch
// coordinator that runs against completed conversations.
package token

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

const (
	MinSupply        = 1_000_000
	MaxSupply        = 1_000_000_000
	RequiredDecimals = 9
	MaxNameLength    = 32
	MaxDescription   = 64
)

var symbolPattern = regexp.MustCompile(`^[A-Z]{3,5}$`)

// Parameters are the launch parameters proposed by the model from a
// conversation transcript.
type Parameters struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    int    `json:"decimals"`
	Supply      int64  `json:"supply"`
	Description string `json:"description"`
}

// Validate enforces the launch constraints the signer expects.
func (p *Parameters) Validate() error {
	if p.Name == "" || len(p.Name) >= MaxNameLength {
		return fmt.Errorf("token name must be non-empty and under %d characters", MaxNameLength)
	}
	if !symbolPattern.MatchString(p.Symbol) {
		return fmt.Errorf("token symbol must be 3-5 uppercase letters, got %q", p.Symbol)
	}
	if p.Decimals != RequiredDecimals {
		return fmt.Errorf("token decimals must be %d, got %d", RequiredDecimals, p.Decimals)
	}
	if p.Supply < MinSupply || p.Supply > MaxSupply {
		return fmt.Errorf("token supply must be between %d and %d, got %d", MinSupply, MaxSupply, p.Supply)
	}
	if len(p.Description) > MaxDescription {
		return fmt.Errorf("token description must be at most %d characters", MaxDescription)
	}
	return nil
}

// PumpFunOptions are the listing options handed to the client-side signer.
type PumpFunOptions struct {
	Twitter             string  `json:"twitter"`
	Telegram            string  `json:"telegram"`
	Website             string  `json:"website"`
	InitialLiquiditySOL float64 `json:"initialLiquiditySOL"`
	SlippageBps         int     `json:"slippageBps"`
	PriorityFee         float64 `json:"priorityFee"`
}

// CostBreakdown itemizes the SOL cost of a launch.
type CostBreakdown struct {
	BaseTransactionFee  float64 `json:"baseTransactionFee"`
	LiquidityMultiplier float64 `json:"liquidityMultiplier"`
	InitialLiquidity    float64 `json:"initialLiquidity"`
	TotalCost           float64 `json:"totalCost"`
}

// LaunchParams is everything the caller needs to sign and submit the launch
// transaction.
type LaunchParams struct {
	TokenName        string         `json:"tokenName"`
	TokenSymbol      string         `json:"tokenSymbol"`
	TokenDescription string         `json:"tokenDescription"`
	ImageURL         string         `json:"imageUrl"`
	PumpFunOptions   PumpFunOptions `json:"pumpFunOptions"`
	Decimals         int            `json:"decimals"`
	Supply           int64          `json:"supply"`
	BackroomID       string         `json:"backroomId"`
	Costs            CostBreakdown  `json:"costs"`
}

// PendingStatus marks the lifecycle of a pending launch record.
type PendingStatus string

const (
	PendingStatusPending   PendingStatus = "pending"
	PendingStatusProcessed PendingStatus = "processed"
)

// PendingRecord is the best-effort audit trail written when launch
// parameters are handed out, and closed out when the result comes back.
type PendingRecord struct {
	Name        string        `json:"name"`
	Symbol      string        `json:"symbol"`
	Decimals    int           `json:"decimals"`
	Supply      int64         `json:"supply"`
	Description string        `json:"description"`
	BackroomID  string        `json:"backroomId"`
	Topic       string        `json:"topic"`
	CreatedAt   time.Time     `json:"createdAt"`
	Status      PendingStatus `json:"status"`
	Creator     string        `json:"creator"`
	ProcessedAt *time.Time    `json:"processedAt,omitempty"`
}

// PumpFunResult is the on-chain confirmation from the signer.
type PumpFunResult struct {
	Signature   string `json:"signature"`
	MetadataURI string `json:"metadataUri"`
}

// ResultInput is what the caller reports back after submitting the launch.
type ResultInput struct {
	Mint        string        `json:"mint"`
	Name        string        `json:"name"`
	Symbol      string        `json:"symbol"`
	Description string        `json:"description"`
	PumpFun     PumpFunResult `json:"pumpfun"`
}

// Record is the permanent token document. Decimals, Supply and Creator are
// filled from the pending record when one exists.
type Record struct {
	Mint        string        `json:"mint"`
	Name        string        `json:"name"`
	Symbol      string        `json:"symbol"`
	Description string        `json:"description"`
	PumpFun     PumpFunResult `json:"pumpfun"`
	BackroomID  string        `json:"backroomId"`
	Topic       string        `json:"topic"`
	LaunchedAt  time.Time     `json:"launchedAt"`
	Decimals    int           `json:"decimals,omitempty"`
	Supply      int64         `json:"supply,omitempty"`
	Creator     string        `json:"creator,omitempty"`
}

// LaunchResult is returned to the caller of a successful launch preparation.
type LaunchResult struct {
	LaunchParams LaunchParams   `json:"launchParams"`
	PendingToken *PendingRecord `json:"pendingTokenInfo"`
}

// Repository persists token documents keyed by conversation.
type Repository interface {
	SavePending(ctx context.Context, backroomID string, rec *PendingRecord) error
	FindPending(ctx context.Context, backroomID string) (*PendingRecord, error)
	SaveRecord(ctx context.Context, backroomID string, rec *Record) error
	FindRecord(ctx context.Context, backroomID string) (*Record, error)
}
