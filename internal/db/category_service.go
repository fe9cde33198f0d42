package db

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/balkashynov/daylog/internal/common"
	"github.com/balkashynov/daylog/internal/models"
)

// Categories returns category names in alphabetical order. Inactive ones
// are included only on request.
func (t *Tracker) Categories(ctx context.Context, includeInactive bool) ([]string, error) {
	categories, err := t.AllCategories(ctx)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, c := range categories {
		if c.Active || includeInactive {
			names = append(names, c.Name)
		}
	}
	return names, nil
}

// AllCategories returns every category record, sorted by name
func (t *Tracker) AllCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := t.read(ctx).Find(&categories).Error; err != nil {
		return nil, err
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// CreateCategory adds a new active category
func (t *Tracker) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.Invalid("category", "name must not be empty")
	}

	category := models.Category{Name: name, Active: true}
	err := t.mutate(ctx, func(tx *gorm.DB) error {
		existing, err := findCategory(tx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return common.Conflict("category %q already exists", name)
		}
		return tx.Create(&category).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	t.log.Info(ctx, "category created", "category", name)
	return &category, nil
}

// RenameCategory renames a category and every entry that references it
func (t *Tracker) RenameCategory(ctx context.Context, oldName, newName string) (*models.Category, error) {
	oldName, newName = strings.TrimSpace(oldName), strings.TrimSpace(newName)
	if newName == "" {
		return nil, common.Invalid("category", "new name must not be empty")
	}

	var category *models.Category
	var moved int64
	err := t.mutate(ctx, func(tx *gorm.DB) error {
		var err error
		category, err = findCategory(tx, oldName)
		if err != nil {
			return err
		}
		if category == nil {
			return common.NotFound("category", oldName)
		}
		if newName == oldName {
			return nil
		}

		clash, err := findCategory(tx, newName)
		if err != nil {
			return err
		}
		if clash != nil {
			return common.Conflict("category %q already exists", newName)
		}

		res := tx.Model(&models.Entry{}).Where("category = ?", oldName).Update("category", newName)
		if res.Error != nil {
			return res.Error
		}
		moved = res.RowsAffected

		category.Name = newName
		return tx.Save(category).Error
	})
	if err != nil {
		return nil, fmt.Errorf("rename category: %w", err)
	}

	t.log.Info(ctx, "category renamed", "from", oldName, "to", newName, "entries", moved)
	return category, nil
}

// ActivateCategory makes a category selectable again
func (t *Tracker) ActivateCategory(ctx context.Context, name string) error {
	return t.setCategoryActive(ctx, name, true)
}

// DeactivateCategory hides a category from pickers. Existing entries keep it.
func (t *Tracker) DeactivateCategory(ctx context.Context, name string) error {
	return t.setCategoryActive(ctx, name, false)
}

func (t *Tracker) setCategoryActive(ctx context.Context, name string, active bool) error {
	err := t.mutate(ctx, func(tx *gorm.DB) error {
		category, err := findCategory(tx, name)
		if err != nil {
			return err
		}
		if category == nil {
			return common.NotFound("category", name)
		}
		return tx.Model(category).Update("active", active).Error
	})
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	t.log.Info(ctx, "category updated", "category", name, "active", active)
	return nil
}

func findCategory(tx *gorm.DB, name string) (*models.Category, error) {
	var category models.Category
	if err := tx.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}
