package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"complaint_portal/internal/model"
	"complaint_portal/internal/repository"

	"github.com/redis/go-redis/v9"
)

const (
	categoryCacheKey = "categories"
	categoryCacheTTL = time.Hour
)

// CategoryService serves the category list through a Redis cache with the
// database as the source of truth. Redis being down degrades to plain DB
// reads, it never fails a request.
type CategoryService interface {
	GetCategories(ctx context.Context) ([]model.Category, string, error)
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache *redis.Client
}

// NewCategoryService creates a new CategoryService. cache may be nil to
// disable caching entirely.
func NewCategoryService(repo repository.CategoryRepository, cache *redis.Client) CategoryService {
	return &categoryService{repo: repo, cache: cache}
}

// GetCategories returns the category list and where it came from
// ("cache" or "database").
func (s *categoryService) GetCategories(ctx context.Context) ([]model.Category, string, error) {
	if s.cache != nil {
		payload, err := s.cache.Get(ctx, categoryCacheKey).Result()
		if err == nil {
			var categories []model.Category
			if err := json.Unmarshal([]byte(payload), &categories); err == nil {
				return categories, "cache", nil
			}
			log.Printf("Discarding malformed category cache entry: %v", err)
		} else if err != redis.Nil {
			log.Printf("Category cache read failed, falling back to database: %v", err)
		}
	}

	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load categories: %w", err)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(categories); err == nil {
			if err := s.cache.Set(ctx, categoryCacheKey, payload, categoryCacheTTL).Err(); err != nil {
				log.Printf("Category cache write failed: %v", err)
			}
		}
	}

	return categories, "database", nil
}
