package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lqviet/folio/internal/db"
	apperrors "github.com/lqviet/folio/internal/errors"
	"github.com/lqviet/folio/internal/models"
)

type assetRepository struct {
	db *db.DB
}

// NewAssetRepository creates a GORM-backed asset store
func NewAssetRepository(database *db.DB) *assetRepository {
	return &assetRepository{db: database}
}

// LoadAssets returns every stored asset in insertion order
func (r *assetRepository) LoadAssets(ctx context.Context) ([]*models.Asset, error) {
	var assets []*models.Asset
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}
	return assets, nil
}

// SaveAssets persists the full asset collection as one replace-and-persist
// write. Asset updates are always whole-collection replacements, never
// in-place concurrent mutation, so a transaction keeps the swap atomic.
func (r *assetRepository) SaveAssets(ctx context.Context, assets []*models.Asset) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Asset{}).Error; err != nil {
			return fmt.Errorf("failed to clear assets: %w", err)
		}
		for _, asset := range assets {
			if asset == nil {
				return errors.New("nil asset in collection")
			}
			if err := tx.Create(asset).Error; err != nil {
				return fmt.Errorf("failed to save asset %s: %w", asset.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save assets: %w", err)
	}
	return nil
}

// CreateAsset validates and stores a new asset, assigning an id when missing
func (r *assetRepository) CreateAsset(ctx context.Context, asset *models.Asset) error {
	if err := asset.Validate(); err != nil {
		return err
	}
	if asset.ID == "" {
		asset.ID = uuid.New().String()
	}
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now()
	}
	asset.UpdatedAt = time.Now()

	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

func (r *assetRepository) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	var asset models.Asset
	if err := r.db.WithContext(ctx).First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.ErrNotFound{Entity: "asset", ID: id}
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return &asset, nil
}

func (r *assetRepository) UpdateAsset(ctx context.Context, asset *models.Asset) error {
	if err := asset.Validate(); err != nil {
		return err
	}
	asset.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&models.Asset{}).
		Where("id = ?", asset.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(asset)
	if result.Error != nil {
		return fmt.Errorf("failed to update asset: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &apperrors.ErrNotFound{Entity: "asset", ID: asset.ID}
	}
	return nil
}

func (r *assetRepository) DeleteAsset(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Asset{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete asset: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &apperrors.ErrNotFound{Entity: "asset", ID: id}
	}
	return nil
}

// DeleteByConnectionSource removes every asset synced from the given external
// source (the bulk "remove all connections" path). Returns how many assets
// were deleted.
func (r *assetRepository) DeleteByConnectionSource(ctx context.Context, source string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Asset{}, "connection_source = ?", source)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete assets for source %s: %w", source, result.Error)
	}
	return result.RowsAffected, nil
}
