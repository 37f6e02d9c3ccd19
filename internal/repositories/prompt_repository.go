package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"chatlist/internal/apperr"
	"chatlist/internal/models"
)

type PromptRepository interface {
	Create(ctx context.Context, p *models.Prompt) error
	GetByID(ctx context.Context, id uint) (*models.Prompt, error)
	List(ctx context.Context, limit, offset int) ([]models.Prompt, error)
	Search(ctx context.Context, query string, limit int) ([]models.Prompt, error)
	ByTagContains(ctx context.Context, tag string) ([]models.Prompt, error)
	ByDateRange(ctx context.Context, from, to string) ([]models.Prompt, error)
	UpdateTags(ctx context.Context, id uint, tags string) error
	Delete(ctx context.Context, id uint) error
}

type promptRepository struct {
	db *gorm.DB
}

func NewPromptRepository(db *gorm.DB) PromptRepository {
	return &promptRepository{db: db}
}

func (r *promptRepository) Create(ctx context.Context, p *models.Prompt) error {
	if p.Date == "" {
		p.Date = models.Now()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *promptRepository) GetByID(ctx context.Context, id uint) (*models.Prompt, error) {
	var p models.Prompt
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("prompt %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *promptRepository) List(ctx context.Context, limit, offset int) ([]models.Prompt, error) {
	prompts := make([]models.Prompt, 0)
	q := r.db.WithContext(ctx).Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}

func (r *promptRepository) Search(ctx context.Context, query string, limit int) ([]models.Prompt, error) {
	prompts := make([]models.Prompt, 0)
	pattern := "%" + query + "%"
	q := r.db.WithContext(ctx).
		Where("prompt LIKE ? OR tags LIKE ?", pattern, pattern).
		Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}

func (r *promptRepository) ByTagContains(ctx context.Context, tag string) ([]models.Prompt, error) {
	prompts := make([]models.Prompt, 0)
	if err := r.db.WithContext(ctx).
		Where("tags LIKE ?", "%"+tag+"%").
		Order("date ASC").
		Find(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}

func (r *promptRepository) ByDateRange(ctx context.Context, from, to string) ([]models.Prompt, error) {
	prompts := make([]models.Prompt, 0)
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}

func (r *promptRepository) UpdateTags(ctx context.Context, id uint, tags string) error {
	res := r.db.WithContext(ctx).Model(&models.Prompt{}).
		Where("id = ?", id).
		Update("tags", tags)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("prompt %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// Delete removes a prompt and cascades to its results. The dependent rows
// are removed in the same transaction so the cascade holds even without
// the sqlite foreign_keys pragma.
func (r *promptRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prompt_id = ?", id).Delete(&models.Result{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Prompt{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("prompt %d: %w", id, apperr.ErrNotFound)
		}
		return nil
	})
}
