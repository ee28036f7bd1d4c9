package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/feedforge/feedforge-engine/pkg/database"
	"github.com/feedforge/feedforge-engine/pkg/repositories"
)

// Well-known setting keys read by the generation pipeline.
const (
	SettingBrandVoice      = "brand_voice"
	SettingAudience        = "audience"
	SettingDefaultLanguage = "default_language"
)

const settingsCacheTTL = 5 * time.Minute

// SettingsService is a per-owner key/value configuration store with a Redis
// read-through cache. The settings bag is read on every generation request,
// so cache misses are the exception.
type SettingsService interface {
	Get(ctx context.Context, key string) (string, error)
	GetAll(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type settingsService struct {
	repo   repositories.SettingsRepository
	cache  *redis.Client // nil disables caching
	logger *zap.Logger
}

// NewSettingsService creates a new SettingsService. cache may be nil, in
// which case every read goes to the database.
func NewSettingsService(repo repositories.SettingsRepository, cache *redis.Client, logger *zap.Logger) SettingsService {
	return &settingsService{
		repo:   repo,
		cache:  cache,
		logger: logger.Named("settings"),
	}
}

var _ SettingsService = (*settingsService)(nil)

func (s *settingsService) cacheKey(ctx context.Context, key string) (string, bool) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("settings:%s:%s", scope.UserID, key), true
}

func (s *settingsService) Get(ctx context.Context, key string) (string, error) {
	cacheKey, scoped := s.cacheKey(ctx, key)
	if s.cache != nil && scoped {
		if value, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			return value, nil
		}
	}

	value, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}

	if s.cache != nil && scoped {
		if err := s.cache.Set(ctx, cacheKey, value, settingsCacheTTL).Err(); err != nil {
			s.logger.Warn("settings cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return value, nil
}

func (s *settingsService) GetAll(ctx context.Context) (map[string]string, error) {
	return s.repo.GetAll(ctx)
}

func (s *settingsService) Set(ctx context.Context, key, value string) error {
	if err := s.repo.Set(ctx, key, value); err != nil {
		return err
	}
	s.invalidate(ctx, key)
	return nil
}

func (s *settingsService) Delete(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, key); err != nil {
		return err
	}
	s.invalidate(ctx, key)
	return nil
}

func (s *settingsService) invalidate(ctx context.Context, key string) {
	cacheKey, scoped := s.cacheKey(ctx, key)
	if s.cache == nil || !scoped {
		return
	}
	if err := s.cache.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Warn("settings cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
