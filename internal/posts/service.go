package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/recordhub/recordhub-backend/pkg/db"
	"github.com/recordhub/recordhub-backend/pkg/db/models"
	pkgerrors "github.com/recordhub/recordhub-backend/pkg/errors"
	"github.com/recordhub/recordhub-backend/pkg/pagination"
	"github.com/recordhub/recordhub-backend/pkg/redis"
	"gorm.io/gorm"
)

// Store is the persistence surface the post service depends on.
type Store interface {
	Transact(ctx context.Context, fn func(tx Store) error) error
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	Create(ctx context.Context, dto CreatePostDTO) (*models.Post, error)
	FindByID(ctx context.Context, id int64) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, offset, limit int) ([]models.Post, error)
	SearchByTitle(ctx context.Context, keyword string) ([]models.Post, error)
}

// SearchCache is the optional read-through cache for keyword searches.
// A nil cache degrades to direct reads; cache failures do too.
type SearchCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// Service exposes post lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreatePostInput) (*PostDTO, error)
	GetByID(ctx context.Context, id int64) (*PostDTO, error)
	Update(ctx context.Context, id int64, input UpdatePostInput) (*PostDTO, error)
	Patch(ctx context.Context, id int64, input PatchPostInput) (*PostDTO, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page, limit int) ([]*PostDTO, error)
	SearchByKeyword(ctx context.Context, keyword string) ([]*PostDTO, error)
}

type service struct {
	repo     Store
	cache    SearchCache
	cacheTTL time.Duration
}

// NewService builds a post service. cache may be nil.
func NewService(repo Store, cache SearchCache, cacheTTL time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("posts repository required")
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &service{repo: repo, cache: cache, cacheTTL: cacheTTL}, nil
}

// CreatePostInput captures a create request; all fields are required.
type CreatePostInput struct {
	Title  string
	Body   string
	UserID int64
}

// UpdatePostInput is a full replace: every field is required and overwrites
// the stored row.
type UpdatePostInput struct {
	Title  string
	Body   string
	UserID int64
}

// PatchPostInput merges the non-nil fields into the stored row.
type PatchPostInput struct {
	Title  *string
	Body   *string
	UserID *int64
}

func (s *service) Create(ctx context.Context, input CreatePostInput) (*PostDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Body) == "" || input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title, body and userId are required")
	}

	var created *models.Post
	err := s.repo.Transact(ctx, func(tx Store) error {
		exists, err := tx.ExistsByTitle(ctx, title)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check post existence")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeDuplicateTitle, "Title already exists")
		}

		post, err := tx.Create(ctx, CreatePostDTO{
			Title:  title,
			Body:   input.Body,
			UserID: input.UserID,
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeDuplicateTitle, err, "Title already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create post")
		}
		created = post
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bumpSearchVersion(ctx)
	return FromModel(created), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*PostDTO, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	return FromModel(post), nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdatePostInput) (*PostDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Body) == "" || input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title, body and userId are required")
	}

	var updated *models.Post
	err := s.repo.Transact(ctx, func(tx Store) error {
		post, err := tx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
		}

		if title != post.Title {
			exists, err := tx.ExistsByTitle(ctx, title)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check post existence")
			}
			if exists {
				return pkgerrors.New(pkgerrors.CodeDuplicateTitle, "Title already exists")
			}
		}

		post.Title = title
		post.Body = input.Body
		post.UserID = input.UserID

		if err := tx.Update(ctx, post); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeDuplicateTitle, err, "Title already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update post")
		}
		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bumpSearchVersion(ctx)
	return FromModel(updated), nil
}

func (s *service) Patch(ctx context.Context, id int64, input PatchPostInput) (*PostDTO, error) {
	var patched *models.Post
	err := s.repo.Transact(ctx, func(tx Store) error {
		post, err := tx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
		}

		if input.Title != nil && *input.Title != post.Title {
			exists, err := tx.ExistsByTitle(ctx, *input.Title)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check post existence")
			}
			if exists {
				return pkgerrors.New(pkgerrors.CodeDuplicateTitle, "Title already exists")
			}
			post.Title = *input.Title
		}
		if input.Body != nil {
			post.Body = *input.Body
		}
		if input.UserID != nil {
			post.UserID = *input.UserID
		}

		if err := tx.Update(ctx, post); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeDuplicateTitle, err, "Title already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "patch post")
		}
		patched = post
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bumpSearchVersion(ctx)
	return FromModel(patched), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete post")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
	}

	s.bumpSearchVersion(ctx)
	return nil
}

func (s *service) List(ctx context.Context, page, limit int) ([]*PostDTO, error) {
	params := pagination.Normalize(page, limit)
	records, err := s.repo.List(ctx, params.Offset(), params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list posts")
	}
	dtos := make([]*PostDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, FromModel(&records[i]))
	}
	return dtos, nil
}

func (s *service) SearchByKeyword(ctx context.Context, keyword string) ([]*PostDTO, error) {
	key := s.searchKey(ctx, keyword)
	if key != "" {
		if raw, err := s.cache.Get(ctx, key); err == nil && raw != "" {
			var cached []*PostDTO
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	records, err := s.repo.SearchByTitle(ctx, keyword)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search posts")
	}
	dtos := make([]*PostDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, FromModel(&records[i]))
	}

	if key != "" {
		if payload, err := json.Marshal(dtos); err == nil {
			_ = s.cache.Set(ctx, key, string(payload), s.cacheTTL)
		}
	}
	return dtos, nil
}

// searchKey builds a versioned cache key so writes invalidate every cached
// keyword at once by bumping the version counter.
func (s *service) searchKey(ctx context.Context, keyword string) string {
	if s.cache == nil {
		return ""
	}
	ver, err := s.cache.Get(ctx, searchVersionKey())
	if err != nil {
		return ""
	}
	if ver == "" {
		ver = "0"
	}
	return redis.Key("posts", "search", ver, keyword)
}

func (s *service) bumpSearchVersion(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_, _ = s.cache.Incr(ctx, searchVersionKey())
}

func searchVersionKey() string {
	return redis.Key("posts", "search", "ver")
}
