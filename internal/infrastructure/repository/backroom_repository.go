package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"zync-server/backroom-api/internal/domain/backroom"
	"zync-server/backroom-api/internal/infrastructure/storage"
	"zync-server/backroom-api/internal/utils/platformerrors"
)

// BackroomRepository stores conversation documents and their completion
// projections. The store only offers unconditional overwrite, so Update
// re-reads the document and compares timestamps to reject stale writers.
type BackroomRepository struct {
	store storage.ObjectStore
}

var _ backroom.Repository = (*BackroomRepository)(nil)

func NewBackroomRepository(store storage.ObjectStore) *BackroomRepository {
	return &BackroomRepository{store: store}
}

func (r *BackroomRepository) Create(ctx context.Context, b *backroom.Backroom) error {
	if err := r.store.PutJSON(ctx, backroomKey(b.ID), b); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeStorageError,
			fmt.Sprintf("failed to store backroom %s", b.ID), err,
			"7f21c8d5-0a96-43eb-8d14-b3e605a9c2f7")
	}
	return nil
}

func (r *BackroomRepository) FindByID(ctx context.Context, id string) (*backroom.Backroom, error) {
	var b backroom.Backroom
	if err := r.store.GetJSON(ctx, backroomKey(id), &b); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("backroom %s not found", id), err,
				"0b64e2a8-9c17-4d35-af80-51d7f3c2e96b")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeStorageError,
			fmt.Sprintf("failed to read backroom %s", id), err,
			"d38a50f1-6e2c-4b79-9a05-c4871e0d2b5f")
	}
	return &b, nil
}

// Update overwrites the conversation document after verifying the stored
// copy still carries expectedUpdatedAt. The read-compare-write is not atomic
// against the bucket, but it narrows the lost-update window from the whole
// turn duration to one round trip.
func (r *BackroomRepository) Update(ctx context.Context, b *backroom.Backroom, expectedUpdatedAt time.Time) error {
	var current backroom.Backroom
	if err := r.store.GetJSON(ctx, backroomKey(b.ID), &current); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("backroom %s not found", b.ID), err,
				"49c0d7e6-2b83-4f15-a6d9-e85f12c403a7")
		}
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeStorageError,
			fmt.Sprintf("failed to read backroom %s before update", b.ID), err,
			"b572a09e-4d18-4c6f-83b2-f9e06d5a71c4")
	}

	if !current.UpdatedAt.Equal(expectedUpdatedAt) {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeConflict,
			fmt.Sprintf("backroom %s was modified concurrently", b.ID), nil,
			"adc1f385-90e7-4b2a-8654-07d3c6b91e28")
	}

	if err := r.store.PutJSON(ctx, backroomKey(b.ID), b); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeStorageError,
			fmt.Sprintf("failed to update backroom %s", b.ID), err,
			"63d9e40b-17af-4852-b0c6-2f8a91d5e073")
	}
	return nil
}

func (r *BackroomRepository) List(ctx context.Context, limit int, cursor string) (*backroom.Page, error) {
	// The delimiter keeps per-conversation projection keys out of the page.
	res, err := r.store.List(ctx, backroomPrefix, int32(limit), cursor, "/")
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeStorageError, "failed to list backrooms", err,
			"f94b257c-3e80-4a16-bd72-68c1d0a5e39f")
	}

	page := &backroom.Page{
		Backrooms:  make([]*backroom.Backroom, 0, len(res.Objects)),
		NextCursor: res.NextCursor,
	}
	for _, obj := range res.Objects {
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		var b backroom.Backroom
		if err := r.store.GetJSON(ctx, obj.Key, &b); err != nil {
			// Objects can disappear between the listing and the read.
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeStorageError,
				fmt.Sprintf("failed to read listed backroom %s", obj.Key), err,
				"15e8a3d0-b742-4c96-8f01-d6c23b9a47e5")
		}
		page.Backrooms = append(page.Backrooms, &b)
	}
	return page, nil
}

func (r *BackroomRepository) SaveSummary(ctx context.Context, id string, summary *backroom.ConversationSummary) error {
	if err := r.store.PutJSON(ctx, summaryKey(id), summary); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeStorageError,
			fmt.Sprintf("failed to store summary for backroom %s", id), err,
			"c06f4d21-58ea-4937-a2b8-1e75d903c6af")
	}
	return nil
}

func (r *BackroomRepository) SaveHistory(ctx context.Context, id string, history *backroom.ConversationHistory) error {
	if err := r.store.PutJSON(ctx, historyKey(id), history); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeStorageError,
			fmt.Sprintf("failed to store history for backroom %s", id), err,
			"91a7e06d-24cb-4583-bf19-380c5f6d2ae4")
	}
	return nil
}
