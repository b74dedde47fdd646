package logics

import (
	"context"
	"fmt"

	"gallery-server/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LayoutService manages per-user home-page layouts. At most one layout per
// user is active at a time.
type LayoutService struct {
	db *gorm.DB
}

func NewLayoutService(db *gorm.DB) *LayoutService {
	return &LayoutService{db: db}
}

func (ls *LayoutService) Create(ctx context.Context, userID, name string, config datatypes.JSON) (*models.HomeLayout, error) {
	layout := models.HomeLayout{
		UserID: userID,
		Name:   name,
		Config: config,
	}
	if err := ls.db.WithContext(ctx).Create(&layout).Error; err != nil {
		return nil, fmt.Errorf("failed to create layout: %w", err)
	}
	return &layout, nil
}

func (ls *LayoutService) List(ctx context.Context, userID string) ([]models.HomeLayout, error) {
	var layouts []models.HomeLayout
	if err := ls.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&layouts).Error; err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}
	return layouts, nil
}

// GetActive returns the user's active layout, or gorm.ErrRecordNotFound.
func (ls *LayoutService) GetActive(ctx context.Context, userID string) (*models.HomeLayout, error) {
	var layout models.HomeLayout
	if err := ls.db.WithContext(ctx).Where("user_id = ? AND is_active = ?", userID, true).First(&layout).Error; err != nil {
		return nil, err
	}
	return &layout, nil
}

func (ls *LayoutService) Update(ctx context.Context, userID string, id uint, name string, config datatypes.JSON) (*models.HomeLayout, error) {
	var layout models.HomeLayout
	if err := ls.db.WithContext(ctx).Where("user_id = ?", userID).First(&layout, id).Error; err != nil {
		return nil, err
	}
	updates := map[string]interface{}{"name": name, "config": config}
	if err := ls.db.WithContext(ctx).Model(&layout).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update layout: %w", err)
	}
	return &layout, nil
}

// Activate makes the given layout the user's active one, deactivating any
// other. Both writes happen in one transaction.
func (ls *LayoutService) Activate(ctx context.Context, userID string, id uint) (*models.HomeLayout, error) {
	var layout models.HomeLayout
	if err := ls.db.WithContext(ctx).Where("user_id = ?", userID).First(&layout, id).Error; err != nil {
		return nil, err
	}

	err := ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.HomeLayout{}).
			Where("user_id = ? AND id <> ?", userID, id).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&layout).Update("is_active", true).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to activate layout: %w", err)
	}

	layout.IsActive = true
	return &layout, nil
}

func (ls *LayoutService) Delete(ctx context.Context, userID string, id uint) error {
	var layout models.HomeLayout
	if err := ls.db.WithContext(ctx).Where("user_id = ?", userID).First(&layout, id).Error; err != nil {
		return err
	}
	if err := ls.db.WithContext(ctx).Delete(&layout).Error; err != nil {
		return fmt.Errorf("failed to delete layout: %w", err)
	}
	return nil
}
