package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"chatlist/internal/apperr"
	"chatlist/internal/models"
)

type ResultRepository interface {
	Create(ctx context.Context, res *models.Result) error
	ByPrompt(ctx context.Context, promptID uint) ([]models.Result, error)
	ByModel(ctx context.Context, modelID uint) ([]models.Result, error)
	List(ctx context.Context, limit, offset int) ([]models.Result, error)
	Search(ctx context.Context, query string, limit int) ([]models.Result, error)
	Delete(ctx context.Context, id uint) error
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

// Create persists one result row. Both foreign keys are verified inside the
// write transaction, so a result is never observable without its prompt and
// model rows.
func (r *resultRepository) Create(ctx context.Context, res *models.Result) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Prompt{}).Where("id = ?", res.PromptID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("prompt %d does not exist: %w", res.PromptID, apperr.ErrIntegrity)
		}
		if err := tx.Model(&models.Model{}).Where("id = ?", res.ModelID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("model %d does not exist: %w", res.ModelID, apperr.ErrIntegrity)
		}
		if res.SavedAt == "" {
			res.SavedAt = models.Now()
		}
		return tx.Create(res).Error
	})
}

func (r *resultRepository) ByPrompt(ctx context.Context, promptID uint) ([]models.Result, error) {
	results := make([]models.Result, 0)
	if err := r.db.WithContext(ctx).
		Where("prompt_id = ?", promptID).
		Order("saved_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resultRepository) ByModel(ctx context.Context, modelID uint) ([]models.Result, error) {
	results := make([]models.Result, 0)
	if err := r.db.WithContext(ctx).
		Where("model_id = ?", modelID).
		Order("saved_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resultRepository) List(ctx context.Context, limit, offset int) ([]models.Result, error) {
	results := make([]models.Result, 0)
	q := r.db.WithContext(ctx).Order("saved_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resultRepository) Search(ctx context.Context, query string, limit int) ([]models.Result, error) {
	results := make([]models.Result, 0)
	pattern := "%" + query + "%"
	q := r.db.WithContext(ctx).
		Joins("JOIN prompts ON prompts.id = results.prompt_id").
		Where("results.response LIKE ? OR prompts.prompt LIKE ?", pattern, pattern).
		Order("results.saved_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resultRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Result{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("result %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}
