package posts

import (
	"context"

	"github.com/recordhub/recordhub-backend/internal/repo"
	"github.com/recordhub/recordhub-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes post-related persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a posts repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Transact re-binds the repository to a transaction and runs fn inside it.
func (r *Repository) Transact(ctx context.Context, fn func(tx Store) error) error {
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// ExistsByTitle reports whether a post with exactly this title exists.
func (r *Repository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Post{}).
		Where("title = ?", title).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a new post and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreatePostDTO) (*models.Post, error) {
	post := dto.ToModel()
	if err := r.DB(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// FindByID loads a post by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.DB(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Update persists the full post row.
func (r *Repository) Update(ctx context.Context, post *models.Post) error {
	return r.DB(ctx).Save(post).Error
}

// Delete hard-removes the row and reports how many rows went away.
func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.DB(ctx).Delete(&models.Post{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// List returns one page of posts ordered by id, so pages stay stable
// between requests.
func (r *Repository) List(ctx context.Context, offset, limit int) ([]models.Post, error) {
	var records []models.Post
	err := r.DB(ctx).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	return records, err
}

// SearchByTitle returns all posts whose title contains the keyword.
func (r *Repository) SearchByTitle(ctx context.Context, keyword string) ([]models.Post, error) {
	var records []models.Post
	err := r.DB(ctx).
		Where("title LIKE ?", "%"+keyword+"%").
		Find(&records).Error
	return records, err
}
