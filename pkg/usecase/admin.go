package usecase

import (
	"context"

	"github.com/secmon-lab/memoryjar/pkg/domain/model"
	"github.com/secmon-lab/memoryjar/pkg/repository/jar"
	"github.com/secmon-lab/memoryjar/pkg/utils/logging"
)

// AdminUseCase holds the authoring and maintenance operations
type AdminUseCase struct {
	repo *jar.Repository
}

func NewAdminUseCase(repo *jar.Repository) *AdminUseCase {
	return &AdminUseCase{repo: repo}
}

// AddMemory stores a new memory. date is YYYY-MM-DD or empty for today.
func (uc *AdminUseCase) AddMemory(ctx context.Context, text, imageURL, date string) (*model.Memory, error) {
	memory, err := uc.repo.Add(ctx, text, imageURL, date)
	if err != nil {
		return nil, err
	}
	logging.From(ctx).Info("memory added", "id", memory.ID, "has_image", memory.ImageURL != "")
	return memory, nil
}

// ListMemories returns the stored collection without importing the seed
func (uc *AdminUseCase) ListMemories(ctx context.Context) ([]*model.Memory, error) {
	return uc.repo.LoadAll(ctx)
}

// PreviewImageURL returns the link that would be stored for raw
func (uc *AdminUseCase) PreviewImageURL(raw string) string {
	return model.NormalizeImageURL(raw)
}

// Reset wipes all memories and the daily lock
func (uc *AdminUseCase) Reset(ctx context.Context) error {
	if err := uc.repo.Reset(ctx); err != nil {
		return err
	}
	logging.From(ctx).Warn("all jar data cleared")
	return nil
}
