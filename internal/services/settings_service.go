package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"chatlist/internal/apperr"
	"chatlist/internal/dispatch"
	"chatlist/internal/repositories"
)

// SettingDefaultTimeout is the key holding the per-call timeout in seconds.
const SettingDefaultTimeout = "default_timeout"

type SettingsService interface {
	Get(ctx context.Context, key, fallback string) (string, error)
	Put(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
	Delete(ctx context.Context, key string) error
	DispatchTimeout(ctx context.Context) time.Duration
}

type settingsService struct {
	repo repositories.SettingRepository
}

func NewSettingsService(repo repositories.SettingRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Get(ctx context.Context, key, fallback string) (string, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return fallback, nil
		}
		return "", err
	}
	return setting.Value, nil
}

func (s *settingsService) Put(ctx context.Context, key, value string) error {
	return s.repo.Put(ctx, key, value)
}

func (s *settingsService) All(ctx context.Context) (map[string]string, error) {
	return s.repo.All(ctx)
}

func (s *settingsService) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

// DispatchTimeout reads default_timeout (seconds); unset or unparsable
// values fall back to the built-in default.
func (s *settingsService) DispatchTimeout(ctx context.Context) time.Duration {
	value, err := s.Get(ctx, SettingDefaultTimeout, "")
	if err != nil || value == "" {
		return dispatch.DefaultTimeout
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return dispatch.DefaultTimeout
	}
	return time.Duration(seconds) * time.Second
}
