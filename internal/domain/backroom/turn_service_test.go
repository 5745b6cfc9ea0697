package backroom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"zync-server/backroom-api/internal/domain/agent"
	"zync-server/backroom-api/internal/utils/platformerrors"
)

type mockRepository struct {
	FindByIDFunc    func(ctx context.Context, id string) (*Backroom, error)
	CreateFunc      func(ctx context.Context, b *Backroom) error
	UpdateFunc      func(ctx context.Context, b *Backroom, expectedUpdatedAt time.Time) error
	ListFunc        func(ctx context.Context, limit int, cursor string) (*Page, error)
	SaveSummaryFunc func(ctx context.Context, id string, summary *ConversationSummary) error
	SaveHistoryFunc func(ctx context.Context, id string, history *ConversationHistory) error
}

func (m *mockRepository) FindByID(ctx context.Context, id string) (*Backroom, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockRepository) Create(ctx context.Context, b *Backroom) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, b)
	}
	return nil
}

func (m *mockRepository) Update(ctx context.Context, b *Backroom, expectedUpdatedAt time.Time) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, b, expectedUpdatedAt)
	}
	return nil
}

func (m *mockRepository) List(ctx context.Context, limit int, cursor string) (*Page, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, cursor)
	}
	return &Page{}, nil
}

func (m *mockRepository) SaveSummary(ctx context.Context, id string, summary *ConversationSummary) error {
	if m.SaveSummaryFunc != nil {
		return m.SaveSummaryFunc(ctx, id, summary)
	}
	return nil
}

func (m *mockRepository) SaveHistory(ctx context.Context, id string, history *ConversationHistory) error {
	if m.SaveHistoryFunc != nil {
		return m.SaveHistoryFunc(ctx, id, history)
	}
	return nil
}

type mockAgentRepository struct {
	FindByIDFunc func(ctx context.Context, id string) (*agent.Agent, error)
}

func (m *mockAgentRepository) FindByID(ctx context.Context, id string) (*agent.Agent, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, errors.New("unexpected call")
}

func (m *mockAgentRepository) Create(ctx context.Context, a *agent.Agent) error {
	return nil
}

type mockProvider struct {
	CreateFunc func(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error)
	calls      []openai.ChatCompletionRequest
}

func (m *mockProvider) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	m.calls = append(m.calls, req)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return completionWith("a fine thought"), nil
}

func completionWith(content string) *openai.ChatCompletionResponse {
	return &openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func testAgents() map[string]*agent.Agent {
	return map[string]*agent.Agent{
		"agent_a": {ID: "agent_a", Name: "Luna", Type: "philosopher"},
		"agent_b": {ID: "agent_b", Name: "Rex", Type: "skeptic"},
	}
}

func agentRepoFor(agents map[string]*agent.Agent) *mockAgentRepository {
	return &mockAgentRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*agent.Agent, error) {
			if a, ok := agents[id]; ok {
				return a, nil
			}
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, "agent not found", nil, "test")
		},
	}
}

func testTurnConfig() TurnConfig {
	return TurnConfig{
		Model:          "test-model",
		Temperature:    0.8,
		TopP:           0.7,
		MaxTokens:      150,
		FinalMaxTokens: 200,
	}
}

func activeBackroom(messageCount int) *Backroom {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	b := &Backroom{
		ID:           "backroom_1",
		Topic:        "simulation theory",
		AgentIDs:     []string{"agent_a", "agent_b"},
		MessageLimit: 10,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for i := 0; i < messageCount; i++ {
		b.Messages = append(b.Messages, Message{
			ID:      "m",
			AgentID: b.AgentIDs[i%2],
			Content: "something.",
		})
	}
	return b
}

func TestGenerateNextTurnProducesMessage(t *testing.T) {
	b := activeBackroom(2)
	var updated *Backroom
	var expectedTS time.Time

	repo := &mockRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*Backroom, error) { return b, nil },
		UpdateFunc: func(ctx context.Context, u *Backroom, expected time.Time) error {
			updated = u
			expectedTS = expected
			return nil
		},
	}
	provider := &mockProvider{
		CreateFunc: func(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
			return completionWith(`Luna: "everything is computable"`), nil
		},
	}

	svc := NewTurnService(repo, agentRepoFor(testAgents()), provider, testTurnConfig(), zerolog.Nop())
	readAt := b.UpdatedAt

	result, err := svc.GenerateNextTurn(context.Background(), "backroom_1")
	if err != nil {
		t.Fatalf("GenerateNextTurn: %v", err)
	}

	if !result.Produced || result.Completed {
		t.Fatalf("result = %+v, want produced and not completed", result)
	}
	if result.Message.AgentID != "agent_a" {
		t.Errorf("speaker = %s, want agent_a (round robin at 2 messages)", result.Message.AgentID)
	}
	if result.Message.Content != "everything is computable." {
		t.Errorf("content = %q, want sanitized text", result.Message.Content)
	}

	md := result.Message.Metadata
	if md.MessageNumber != 3 || md.TotalMessages != 10 || md.IsLastMessage {
		t.Errorf("metadata = %+v", md)
	}
	if md.TokensUsed != len(result.Message.Content) {
		t.Errorf("TokensUsed = %d, want content length %d", md.TokensUsed, len(result.Message.Content))
	}
	if md.AgentName != "Luna" || md.AgentType != "philosopher" {
		t.Errorf("speaker identity = %q/%q", md.AgentName, md.AgentType)
	}

	if updated == nil || len(updated.Messages) != 3 {
		t.Fatal("document was not persisted with the new message")
	}
	if !expectedTS.Equal(readAt) {
		t.Errorf("update used expected timestamp %v, want read-time %v", expectedTS, readAt)
	}

	req := provider.calls[0]
	if req.MaxTokens != 150 || req.Temperature != 0.8 {
		t.Errorf("sampling params = max %d temp %v", req.MaxTokens, req.Temperature)
	}
	if len(req.Stop) != 3 || req.Stop[2] != "Luna" {
		t.Errorf("stop sequences = %v", req.Stop)
	}
}

func TestGenerateNextTurnTerminalGuard(t *testing.T) {
	b := activeBackroom(10)
	b.Status = StatusCompleted

	providerCalled := false
	repo := &mockRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*Backroom, error) { return b, nil },
		UpdateFunc: func(ctx context.Context, u *Backroom, expected time.Time) error {
			t.Fatal("terminal conversation must not be written")
			return nil
		},
	}
	provider := &mockProvider{
		CreateFunc: func(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
			providerCalled = true
			return completionWith("x"), nil
		},
	}

	svc := NewTurnService(repo, agentRepoFor(testAgents()), provider, testTurnConfig(), zerolog.Nop())

	result, err := svc.GenerateNextTurn(context.Background(), "backroom_1")
	if err != nil {
		t.Fatalf("GenerateNextTurn: %v", err)
	}
	if result.Produced || !result.Completed {
		t.Errorf("result = %+v, want produced=false completed=true", result)
	}
	if providerCalled {
		t.Error("provider must not be called for a terminal conversation")
	}
}

func TestGenerateNextTurnCompletesConversation(t *testing.T) {
	b := activeBackroom(9)

	var summarySaved, historySaved bool
	repo := &mockRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*Backroom, error) { return b, nil },
		SaveSummaryFunc: func(ctx context.Context, id string, summary *ConversationSummary) error {
			summarySaved = true
			if summary.MessageCount != 10 {
				t.Errorf("summary MessageCount = %d, want 10", summary.MessageCount)
			}
			return nil
		},
		SaveHistoryFunc: func(ctx context.Context, id string, history *ConversationHistory) error {
			historySaved = true
			return nil
		},
	}
	provider := &mockProvider{
		CreateFunc: func(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
			return completionWith("and that is my final word"), nil
		},
	}

	svc := NewTurnService(repo, agentRepoFor(testAgents()), provider, testTurnConfig(), zerolog.Nop())

	result, err := svc.GenerateNextTurn(context.Background(), "backroom_1")
	if err != nil {
		t.Fatalf("GenerateNextTurn: %v", err)
	}

	if !result.Produced || !result.Completed {
		t.Fatalf("result = %+v, want produced and completed", result)
	}
	if !result.Message.Metadata.IsLastMessage {
		t.Error("final message should be flagged as last")
	}
	if b.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", b.Status)
	}
	if !summarySaved || !historySaved {
		t.Error("completion records were not written")
	}
	if provider.calls[0].MaxTokens != 200 {
		t.Errorf("final turn MaxTokens = %d, want 200", provider.calls[0].MaxTokens)
	}
}

func TestGenerateNextTurnActivatesPending(t *testing.T) {
	b := activeBackroom(0)
	b.Status = StatusPending

	updates := 0
	repo := &mockRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*Backroom, error) { return b, nil },
		UpdateFunc: func(ctx context.Context, u *Backroom, expected time.Time) error {
			updates++
			return nil
		},
	}

	svc := NewTurnService(repo, agentRepoFor(testAgents()), &mockProvider{}, testTurnConfig(), zerolog.Nop())

	result, err := svc.GenerateNextTurn(context.Background(), "backroom_1")
	if err != nil {
		t.Fatalf("GenerateNextTurn: %v", err)
	}
	if !result.Produced {
		t.Fatal("pending conversation should produce its first turn")
	}
	if b.Status != StatusActive {
		t.Errorf("status = %s, want active", b.Status)
	}
	if updates != 2 {
		t.Errorf("updates = %d, want activation write plus turn write", updates)
	}
}

func TestGenerateNextTurnProviderFailure(t *testing.T) {
	b := activeBackroom(1)

	repo := &mockRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*Backroom, error) { return b, nil },
		UpdateFunc: func(ctx context.Context, u *Backroom, expected time.Time) error {
			t.Fatal("no write should happen when the provider fails")
			return nil
		},
	}
	provider := &mockProvider{
		CreateFunc: func(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeExternal, "upstream down", nil, "test")
		},
	}

	svc := NewTurnService(repo, agentRepoFor(testAgents()), provider, testTurnConfig(), zerolog.Nop())

	_, err := svc.GenerateNextTurn(context.Background(), "backroom_1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal) {
		t.Errorf("error type not preserved: %v", err)
	}
	if len(b.Messages) != 1 {
		t.Errorf("message list mutated on failure: %d", len(b.Messages))
	}
}

func TestGenerateNextTurnConflictSurfaces(t *testing.T) {
	b := activeBackroom(4)

	repo := &mockRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*Backroom, error) { return b, nil },
		UpdateFunc: func(ctx context.Context, u *Backroom, expected time.Time) error {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict, "modified concurrently", nil, "test")
		},
	}

	svc := NewTurnService(repo, agentRepoFor(testAgents()), &mockProvider{}, testTurnConfig(), zerolog.Nop())

	_, err := svc.GenerateNextTurn(context.Background(), "backroom_1")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict) {
		t.Errorf("want conflict error, got %v", err)
	}
}

func TestTranscriptMasksOtherSpeakers(t *testing.T) {
	speaker := &agent.Agent{ID: "agent_a", Name: "Luna"}
	messages := []Message{
		{AgentID: "agent_a", Content: "first."},
		{AgentID: "agent_b", Content: "second."},
	}

	got := BuildTranscript(messages, speaker)
	want := "Luna: first.\nOther Agent: second."
	if got != want {
		t.Errorf("transcript = %q, want %q", got, want)
	}
}
