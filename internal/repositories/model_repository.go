package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"chatlist/internal/apperr"
	"chatlist/internal/models"
)

type ModelRepository interface {
	Create(ctx context.Context, m *models.Model) error
	Save(ctx context.Context, m *models.Model) error
	GetByID(ctx context.Context, id uint) (*models.Model, error)
	GetByName(ctx context.Context, name string) (*models.Model, error)
	List(ctx context.Context) ([]models.Model, error)
	ListActive(ctx context.Context) ([]models.Model, error)
	Search(ctx context.Context, query string) ([]models.Model, error)
	SetActive(ctx context.Context, id uint, active bool) error
	Delete(ctx context.Context, id uint) error
}

type modelRepository struct {
	db *gorm.DB
}

func NewModelRepository(db *gorm.DB) ModelRepository {
	return &modelRepository{db: db}
}

func (r *modelRepository) Create(ctx context.Context, m *models.Model) error {
	if m.CreatedAt == "" {
		m.CreatedAt = models.Now()
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *modelRepository) Save(ctx context.Context, m *models.Model) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *modelRepository) GetByID(ctx context.Context, id uint) (*models.Model, error) {
	var m models.Model
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("model %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &m, nil
}

func (r *modelRepository) GetByName(ctx context.Context, name string) (*models.Model, error) {
	var m models.Model
	if err := r.db.WithContext(ctx).Where("name = ?", name).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("model %q: %w", name, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &m, nil
}

func (r *modelRepository) List(ctx context.Context) ([]models.Model, error) {
	list := make([]models.Model, 0)
	if err := r.db.WithContext(ctx).Order("name").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListActive returns dispatch-eligible models in deterministic id order.
func (r *modelRepository) ListActive(ctx context.Context) ([]models.Model, error) {
	list := make([]models.Model, 0)
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *modelRepository) Search(ctx context.Context, query string) ([]models.Model, error) {
	list := make([]models.Model, 0)
	pattern := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Where("name LIKE ? OR model_type LIKE ?", pattern, pattern).
		Order("name").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *modelRepository) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&models.Model{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("model %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// Delete hard-removes a model. Models referenced by any result may only be
// deactivated; the reference count is checked in the delete transaction.
func (r *modelRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.Result{}).Where("model_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("model %d referenced by %d results: %w", id, refs, apperr.ErrModelInUse)
		}
		res := tx.Delete(&models.Model{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("model %d: %w", id, apperr.ErrNotFound)
		}
		return nil
	})
}
