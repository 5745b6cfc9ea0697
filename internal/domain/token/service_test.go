package token

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"zync-server/backroom-api/internal/domain/agent"
	"zync-server/backroom-api/internal/domain/backroom"
	"zync-server/backroom-api/internal/domain/retry"
	"zync-server/backroom-api/internal/utils/platformerrors"
)

type mockTokenRepository struct {
	SavePendingFunc func(ctx context.Context, backroomID string, rec *PendingRecord) error
	FindPendingFunc func(ctx context.Context, backroomID string) (*PendingRecord, error)
	SaveRecordFunc  func(ctx context.Context, backroomID string, rec *Record) error
	FindRecordFunc  func(ctx context.Context, backroomID string) (*Record, error)
}

func (m *mockTokenRepository) SavePending(ctx context.Context, backroomID string, rec *PendingRecord) error {
	if m.SavePendingFunc != nil {
		return m.SavePendingFunc(ctx, backroomID, rec)
	}
	return nil
}

func (m *mockTokenRepository) FindPending(ctx context.Context, backroomID string) (*PendingRecord, error) {
	if m.FindPendingFunc != nil {
		return m.FindPendingFunc(ctx, backroomID)
	}
	return nil, notFoundErr(ctx)
}

func (m *mockTokenRepository) SaveRecord(ctx context.Context, backroomID string, rec *Record) error {
	if m.SaveRecordFunc != nil {
		return m.SaveRecordFunc(ctx, backroomID, rec)
	}
	return nil
}

func (m *mockTokenRepository) FindRecord(ctx context.Context, backroomID string) (*Record, error) {
	if m.FindRecordFunc != nil {
		return m.FindRecordFunc(ctx, backroomID)
	}
	return nil, notFoundErr(ctx)
}

type mockBackroomSource struct {
	FindByIDFunc func(ctx context.Context, id string) (*backroom.Backroom, error)
}

func (m *mockBackroomSource) FindByID(ctx context.Context, id string) (*backroom.Backroom, error) {
	return m.FindByIDFunc(ctx, id)
}

type mockAgentSource struct {
	agents map[string]*agent.Agent
}

func (m *mockAgentSource) FindByID(ctx context.Context, id string) (*agent.Agent, error) {
	if a, ok := m.agents[id]; ok {
		return a, nil
	}
	return nil, notFoundErr(ctx)
}

type mockCompletionProvider struct {
	CreateFunc func(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error)
	calls      []openai.ChatCompletionRequest
}

func (m *mockCompletionProvider) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	m.calls = append(m.calls, req)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return paramsResponse(`{"name":"Simulation Coin","symbol":"SIMC","decimals":9,"supply":500000000,"description":"Reality as a service"}`), nil
}

func paramsResponse(content string) *openai.ChatCompletionResponse {
	return &openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func notFoundErr(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound, "not found", nil, "test")
}

func completedBackroom() *backroom.Backroom {
	return &backroom.Backroom{
		ID:           "backroom_1",
		Topic:        "simulation theory",
		AgentIDs:     []string{"agent_a", "agent_b"},
		MessageLimit: 10,
		Status:       backroom.StatusCompleted,
		Messages: []backroom.Message{
			{AgentID: "agent_a", Content: "first."},
			{AgentID: "agent_b", Content: "second."},
		},
	}
}

func launchAgents() *mockAgentSource {
	return &mockAgentSource{agents: map[string]*agent.Agent{
		"agent_a": {ID: "agent_a", Name: "Luna", Creator: "wallet_1"},
		"agent_b": {ID: "agent_b", Name: "Rex", Creator: "wallet_2", CanLaunchToken: true},
	}}
}

func newLaunchService(repo *mockTokenRepository, source *mockBackroomSource, agents *mockAgentSource, provider *mockCompletionProvider) *Service {
	return NewService(repo, source, agents, provider, LaunchConfig{
		Model:       "gpt-4",
		Temperature: 0.7,
		SiteBaseURL: "https://makewithzync.com",
	}, zerolog.Nop())
}

func TestLaunchSuccess(t *testing.T) {
	b := completedBackroom()
	var savedPending *PendingRecord
	repo := &mockTokenRepository{
		SavePendingFunc: func(ctx context.Context, backroomID string, rec *PendingRecord) error {
			savedPending = rec
			return nil
		},
	}
	provider := &mockCompletionProvider{}

	svc := newLaunchService(repo, &mockBackroomSource{
		FindByIDFunc: func(ctx context.Context, id string) (*backroom.Backroom, error) { return b, nil },
	}, launchAgents(), provider)

	result, err := svc.Launch(context.Background(), "backroom_1", "wallet_2")
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}

	lp := result.LaunchParams
	if lp.TokenSymbol != "SIMC" || lp.TokenName != "Simulation Coin" {
		t.Errorf("token identity = %q/%q", lp.TokenName, lp.TokenSymbol)
	}
	if lp.PumpFunOptions.Twitter != "@simctoken" {
		t.Errorf("Twitter = %q, want @simctoken", lp.PumpFunOptions.Twitter)
	}
	if lp.PumpFunOptions.Telegram != "t.me/simc" {
		t.Errorf("Telegram = %q, want t.me/simc", lp.PumpFunOptions.Telegram)
	}
	if lp.PumpFunOptions.Website != "https://makewithzync.com/tokens/backroom_1" {
		t.Errorf("Website = %q", lp.PumpFunOptions.Website)
	}
	if lp.PumpFunOptions.SlippageBps != 10 || lp.PumpFunOptions.PriorityFee != 0.0001 {
		t.Errorf("pump fun options = %+v", lp.PumpFunOptions)
	}
	if lp.ImageURL != "https://picsum.photos/seed/SimulationCoin/300/300" {
		t.Errorf("ImageURL = %q", lp.ImageURL)
	}
	if lp.Costs.InitialLiquidity != 0.5 || lp.Costs.TotalCost != 0.5001 {
		t.Errorf("costs = %+v", lp.Costs)
	}

	if savedPending == nil {
		t.Fatal("pending record was not written")
	}
	if savedPending.Status != PendingStatusPending || savedPending.Creator != "wallet_2" {
		t.Errorf("pending record = %+v", savedPending)
	}

	// The transcript handed to the provider names participants by id.
	userPrompt := provider.calls[0].Messages[1].Content
	if want := "agent_a: first."; !strings.Contains(userPrompt, want) {
		t.Errorf("user prompt missing %q:\n%s", want, userPrompt)
	}
}

func TestLaunchPreconditions(t *testing.T) {
	tests := []struct {
		name      string
		backroom  func() *backroom.Backroom
		repo      *mockTokenRepository
		agents    *mockAgentSource
		wallet    string
		wantError platformerrors.ErrorType
	}{
		{
			name: "conversation not completed",
			backroom: func() *backroom.Backroom {
				b := completedBackroom()
				b.Status = backroom.StatusActive
				return b
			},
			repo:      &mockTokenRepository{},
			agents:    launchAgents(),
			wallet:    "wallet_2",
			wantError: platformerrors.ErrorTypeInvalidState,
		},
		{
			name:     "token already launched",
			backroom: completedBackroom,
			repo: &mockTokenRepository{
				FindRecordFunc: func(ctx context.Context, backroomID string) (*Record, error) {
					return &Record{Mint: "mint_1"}, nil
				},
			},
			agents:    launchAgents(),
			wallet:    "wallet_2",
			wantError: platformerrors.ErrorTypeConflict,
		},
		{
			name:     "no launch capable agent",
			backroom: completedBackroom,
			repo:     &mockTokenRepository{},
			agents: &mockAgentSource{agents: map[string]*agent.Agent{
				"agent_a": {ID: "agent_a", Creator: "wallet_1"},
				"agent_b": {ID: "agent_b", Creator: "wallet_2"},
			}},
			wallet:    "wallet_2",
			wantError: platformerrors.ErrorTypeValidation,
		},
		{
			name:      "requester is not the agent creator",
			backroom:  completedBackroom,
			repo:      &mockTokenRepository{},
			agents:    launchAgents(),
			wallet:    "wallet_1",
			wantError: platformerrors.ErrorTypeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newLaunchService(tt.repo, &mockBackroomSource{
				FindByIDFunc: func(ctx context.Context, id string) (*backroom.Backroom, error) {
					return tt.backroom(), nil
				},
			}, tt.agents, &mockCompletionProvider{})

			_, err := svc.Launch(context.Background(), "backroom_1", tt.wallet)
			if err == nil {
				t.Fatal("expected error")
			}
			if !platformerrors.IsErrorType(err, tt.wantError) {
				t.Errorf("error = %v, want type %s", err, tt.wantError)
			}
		})
	}
}

func TestLaunchMalformedProviderResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "SIMC is a great token!"},
		{"json with bad symbol", `{"name":"X","symbol":"toolongsym","decimals":9,"supply":500000000,"description":"d"}`},
		{"json with bad supply", `{"name":"X","symbol":"SIMC","decimals":9,"supply":12,"description":"d"}`},
		{"empty content", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockCompletionProvider{
				CreateFunc: func(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
					return paramsResponse(tt.content), nil
				},
			}
			svc := newLaunchService(&mockTokenRepository{}, &mockBackroomSource{
				FindByIDFunc: func(ctx context.Context, id string) (*backroom.Backroom, error) {
					return completedBackroom(), nil
				},
			}, launchAgents(), provider)

			_, err := svc.Launch(context.Background(), "backroom_1", "wallet_2")
			if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal) {
				t.Errorf("error = %v, want external", err)
			}
		})
	}
}

func TestLaunchPendingWriteFailureIsSwallowed(t *testing.T) {
	repo := &mockTokenRepository{
		SavePendingFunc: func(ctx context.Context, backroomID string, rec *PendingRecord) error {
			return errors.New("bucket unavailable")
		},
	}
	svc := newLaunchService(repo, &mockBackroomSource{
		FindByIDFunc: func(ctx context.Context, id string) (*backroom.Backroom, error) {
			return completedBackroom(), nil
		},
	}, launchAgents(), &mockCompletionProvider{})
	svc.retries = retry.NoRetryPolicy()

	result, err := svc.Launch(context.Background(), "backroom_1", "wallet_2")
	if err != nil {
		t.Fatalf("Launch should succeed despite pending write failure, got %v", err)
	}
	if result.LaunchParams.TokenSymbol != "SIMC" {
		t.Errorf("launch params missing: %+v", result.LaunchParams)
	}
}

func TestSaveResultEnrichesFromPending(t *testing.T) {
	var savedRecord *Record
	var processedPending *PendingRecord

	repo := &mockTokenRepository{
		FindPendingFunc: func(ctx context.Context, backroomID string) (*PendingRecord, error) {
			return &PendingRecord{
				Decimals: 9,
				Supply:   500_000_000,
				Creator:  "wallet_2",
				Status:   PendingStatusPending,
			}, nil
		},
		SaveRecordFunc: func(ctx context.Context, backroomID string, rec *Record) error {
			savedRecord = rec
			return nil
		},
		SavePendingFunc: func(ctx context.Context, backroomID string, rec *PendingRecord) error {
			processedPending = rec
			return nil
		},
	}

	svc := newLaunchService(repo, &mockBackroomSource{
		FindByIDFunc: func(ctx context.Context, id string) (*backroom.Backroom, error) {
			return completedBackroom(), nil
		},
	}, launchAgents(), &mockCompletionProvider{})

	rec, err := svc.SaveResult(context.Background(), "backroom_1", ResultInput{
		Mint:   "mint_1",
		Name:   "Simulation Coin",
		Symbol: "SIMC",
		PumpFun: PumpFunResult{
			Signature:   "sig_1",
			MetadataURI: "https://arweave.net/meta",
		},
	})
	if err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	if rec.Supply != 500_000_000 || rec.Decimals != 9 || rec.Creator != "wallet_2" {
		t.Errorf("record not enriched from pending: %+v", rec)
	}
	if rec.BackroomID != "backroom_1" || rec.Topic != "simulation theory" {
		t.Errorf("record provenance = %q/%q", rec.BackroomID, rec.Topic)
	}
	if savedRecord == nil {
		t.Fatal("token record was not persisted")
	}
	if processedPending == nil || processedPending.Status != PendingStatusProcessed || processedPending.ProcessedAt == nil {
		t.Errorf("pending record not closed out: %+v", processedPending)
	}
}

func TestSaveResultToleratesMissingPending(t *testing.T) {
	pendingRewritten := false
	repo := &mockTokenRepository{
		SavePendingFunc: func(ctx context.Context, backroomID string, rec *PendingRecord) error {
			pendingRewritten = true
			return nil
		},
	}

	svc := newLaunchService(repo, &mockBackroomSource{
		FindByIDFunc: func(ctx context.Context, id string) (*backroom.Backroom, error) {
			return completedBackroom(), nil
		},
	}, launchAgents(), &mockCompletionProvider{})

	rec, err := svc.SaveResult(context.Background(), "backroom_1", ResultInput{
		Mint: "mint_1", Name: "X", Symbol: "XXX",
		PumpFun: PumpFunResult{Signature: "sig", MetadataURI: "uri"},
	})
	if err != nil {
		t.Fatalf("SaveResult: %v", err)
	}
	if rec.Supply != 0 || rec.Creator != "" {
		t.Errorf("record should not carry pending fields: %+v", rec)
	}
	if pendingRewritten {
		t.Error("absent pending record must not be rewritten")
	}
	if rec.LaunchedAt.IsZero() || time.Since(rec.LaunchedAt) > time.Minute {
		t.Errorf("LaunchedAt = %v", rec.LaunchedAt)
	}
}

func TestGetTokenAbsentReturnsNil(t *testing.T) {
	svc := newLaunchService(&mockTokenRepository{}, &mockBackroomSource{}, launchAgents(), &mockCompletionProvider{})

	rec, err := svc.GetToken(context.Background(), "backroom_1")
	if err != nil {
		t.Fatalf("GetToken: %v", err)
	}
	if rec != nil {
		t.Errorf("rec = %+v, want nil", rec)
	}
}
