package users

import (
	"context"

	"github.com/recordhub/recordhub-backend/internal/repo"
	"github.com/recordhub/recordhub-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Transact re-binds the repository to a transaction and runs fn inside it.
func (r *Repository) Transact(ctx context.Context, fn func(tx Store) error) error {
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// ExistsByEmailOrUsername reports whether any user, soft-deleted included,
// already holds the email or username.
func (r *Repository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a new user together with its nested address/company rows.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID loads a user with its address and company, regardless of the
// soft-delete marker.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.DB(ctx).
		Preload("Address").
		Preload("Company").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update persists the user row only; associations are written through their
// own update methods.
func (r *Repository) Update(ctx context.Context, user *models.User) error {
	return r.DB(ctx).Omit(clause.Associations).Save(user).Error
}

// UpdateAddress persists an existing address sub-record.
func (r *Repository) UpdateAddress(ctx context.Context, address *models.Address) error {
	return r.DB(ctx).Save(address).Error
}

// UpdateCompany persists an existing company sub-record.
func (r *Repository) UpdateCompany(ctx context.Context, company *models.Company) error {
	return r.DB(ctx).Save(company).Error
}

// ListActive returns all users that are not soft-deleted, in storage order.
func (r *Repository) ListActive(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.DB(ctx).
		Preload("Address").
		Preload("Company").
		Where("deleted = ?", false).
		Find(&users).Error
	return users, err
}

// SearchByKeyword returns users whose email, name or username contains the
// keyword. The soft-delete marker is intentionally not applied here.
func (r *Repository) SearchByKeyword(ctx context.Context, keyword string) ([]models.User, error) {
	pattern := "%" + keyword + "%"
	var users []models.User
	err := r.DB(ctx).
		Preload("Address").
		Preload("Company").
		Where("email LIKE ? OR name LIKE ? OR username LIKE ?", pattern, pattern, pattern).
		Find(&users).Error
	return users, err
}
