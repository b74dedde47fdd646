package logics

import (
	"context"
	"fmt"

	"gallery-server/internal/models"

	"gorm.io/gorm"
)

// GroupService manages named image groups.
type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

func (gs *GroupService) Create(ctx context.Context, name, description string) (*models.Group, error) {
	group := models.Group{Name: name, Description: description}
	if err := gs.db.WithContext(ctx).Create(&group).Error; err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return &group, nil
}

// List returns all groups ordered by name.
func (gs *GroupService) List(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := gs.db.WithContext(ctx).Order("name").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

func (gs *GroupService) Get(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := gs.db.WithContext(ctx).Preload("Images").First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (gs *GroupService) Update(ctx context.Context, id uint, name, description string) (*models.Group, error) {
	var group models.Group
	if err := gs.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, err
	}
	updates := map[string]interface{}{"name": name, "description": description}
	if err := gs.db.WithContext(ctx).Model(&group).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	return &group, nil
}

func (gs *GroupService) Delete(ctx context.Context, id uint) error {
	var group models.Group
	if err := gs.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return err
	}
	if err := gs.db.WithContext(ctx).Delete(&group).Error; err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}
