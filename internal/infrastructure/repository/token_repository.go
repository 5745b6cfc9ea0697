package repository

import (
	"context"
	"errors"
	"fmt"

	"zync-server/backroom-api/internal/domain/token"
	"zync-server/backroom-api/internal/infrastructure/storage"
	"zync-server/backroom-api/internal/utils/platformerrors"
)

// TokenRepository stores token documents under their conversation's prefix.
type TokenRepository struct {
	store storage.ObjectStore
}

var _ token.Repository = (*TokenRepository)(nil)

func NewTokenRepository(store storage.ObjectStore) *TokenRepository {
	return &TokenRepository{store: store}
}

func (r *TokenRepository) SavePending(ctx context.Context, backroomID string, rec *token.PendingRecord) error {
	if err := r.store.PutJSON(ctx, pendingTokenKey(backroomID), rec); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeStorageError,
			fmt.Sprintf("failed to store pending token for backroom %s", backroomID), err,
			"37b0c5f8-d29e-4a61-b074-8c5d1e92f3a6")
	}
	return nil
}

func (r *TokenRepository) FindPending(ctx context.Context, backroomID string) (*token.PendingRecord, error) {
	var rec token.PendingRecord
	if err := r.store.GetJSON(ctx, pendingTokenKey(backroomID), &rec); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("no pending token for backroom %s", backroomID), err,
				"58e2a9c4-71fd-4b08-936c-d40b8f3e165a")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeStorageError,
			fmt.Sprintf("failed to read pending token for backroom %s", backroomID), err,
			"a1d47e90-3c28-4f6b-85d1-6e90b2c5f748")
	}
	return &rec, nil
}

func (r *TokenRepository) SaveRecord(ctx context.Context, backroomID string, rec *token.Record) error {
	if err := r.store.PutJSON(ctx, tokenKey(backroomID), rec); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeStorageError,
			fmt.Sprintf("failed to store token for backroom %s", backroomID), err,
			"06c8f3d5-92ab-4e17-bc60-74d2a1e58f93")
	}
	return nil
}

func (r *TokenRepository) FindRecord(ctx context.Context, backroomID string) (*token.Record, error) {
	var rec token.Record
	if err := r.store.GetJSON(ctx, tokenKey(backroomID), &rec); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("no token for backroom %s", backroomID), err,
				"be73a60f-15d9-4c42-a8b7-92e05c4d1f38")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeStorageError,
			fmt.Sprintf("failed to read token for backroom %s", backroomID), err,
			"d925b1c7-480e-4f63-9ad2-37c6e08a51bf")
	}
	return &rec, nil
}
