package repository

import (
	"context"
	"errors"
	"fmt"

	"zync-server/backroom-api/internal/domain/agent"
	"zync-server/backroom-api/internal/infrastructure/storage"
	"zync-server/backroom-api/internal/utils/platformerrors"
)

// AgentRepository stores agent profiles as single JSON documents.
type AgentRepository struct {
	store storage.ObjectStore
}

var _ agent.Repository = (*AgentRepository)(nil)

func NewAgentRepository(store storage.ObjectStore) *AgentRepository {
	return &AgentRepository{store: store}
}

func (r *AgentRepository) Create(ctx context.Context, a *agent.Agent) error {
	if err := r.store.PutJSON(ctx, agentKey(a.ID), a); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeStorageError,
			fmt.Sprintf("failed to store agent %s", a.ID), err,
			"2d90f6a1-7c45-4e8b-935a-0b1ec8d47f62")
	}
	return nil
}

func (r *AgentRepository) FindByID(ctx context.Context, id string) (*agent.Agent, error) {
	var a agent.Agent
	if err := r.store.GetJSON(ctx, agentKey(id), &a); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("agent %s not found", id), err,
				"8a3c4e97-16d0-4b52-bfc8-5e29a07d1f36")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeStorageError,
			fmt.Sprintf("failed to read agent %s", id), err,
			"e65b09d2-8f31-47ac-904e-d7c2a45f81b3")
	}
	return &a, nil
}
