package service

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dataroom/internal/model"
)

// ItemKind tells folders and files apart in a batch.
type ItemKind string

const (
	KindFolder ItemKind = "folder"
	KindFile   ItemKind = "file"
)

// BatchItem is one selected entry.
type BatchItem struct {
	ID   string   `json:"id"`
	Kind ItemKind `json:"type"`
}

// ItemResult is the outcome for one item. Err is nil on success.
type ItemResult struct {
	Item BatchItem
	Err  error
}

// BatchResult aggregates a best-effort batch.
type BatchResult struct {
	Results   []ItemResult
	Succeeded int
	Failed    int
}

// Err combines every item failure, or returns nil when all succeeded.
func (r *BatchResult) Err() error {
	var err error
	for _, res := range r.Results {
		if res.Err != nil {
			err = multierr.Append(err, fmt.Errorf("%s %s: %w", res.Item.Kind, res.Item.ID, res.Err))
		}
	}
	return err
}

// DefaultBatchConcurrency bounds parallel deletes in one batch.
const DefaultBatchConcurrency = 4

// BatchDeleter deletes many items independently. One failure never stops or undoes another.
type BatchDeleter struct {
	folders     FolderService
	files       FileService
	logger      *zap.Logger
	concurrency int
}

// NewBatchDeleter constructs a BatchDeleter. A non-positive concurrency uses DefaultBatchConcurrency.
func NewBatchDeleter(folders FolderService, files FileService, logger *zap.Logger, concurrency int) *BatchDeleter {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}
	return &BatchDeleter{folders: folders, files: files, logger: logger, concurrency: concurrency}
}

// Delete attempts every item and reports per-item outcomes in input order.
// The returned error is only set when the batch could not start at all.
func (b *BatchDeleter) Delete(ctx context.Context, p model.Principal, items []BatchItem) (*BatchResult, error) {
	ctx, span := tracer.Start(ctx, "BatchDeleter.Delete")
	defer span.End()

	if err := requirePrincipal(p); err != nil {
		return nil, err
	}

	results := make([]ItemResult, len(items))
	// A plain group: item errors stay in results and must not cancel siblings.
	var g errgroup.Group
	g.SetLimit(b.concurrency)

	for i, item := range items {
		g.Go(func() error {
			results[i] = ItemResult{Item: item, Err: b.deleteOne(ctx, p, item)}
			return nil
		})
	}
	_ = g.Wait()

	out := &BatchResult{Results: results}
	for _, r := range results {
		if r.Err != nil {
			out.Failed++
			continue
		}
		out.Succeeded++
	}

	b.logger.Info("batch_delete_finished",
		zap.String("owner_id", p.ID),
		zap.Int("succeeded", out.Succeeded),
		zap.Int("failed", out.Failed),
	)
	return out, nil
}

func (b *BatchDeleter) deleteOne(ctx context.Context, p model.Principal, item BatchItem) error {
	switch item.Kind {
	case KindFolder:
		return b.folders.Delete(ctx, p, item.ID)
	case KindFile:
		return b.files.Delete(ctx, p, item.ID)
	default:
		return fmt.Errorf("unknown item type %q", item.Kind)
	}
}
