package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/recordhub/recordhub-backend/pkg/db"
	"github.com/recordhub/recordhub-backend/pkg/db/models"
	pkgerrors "github.com/recordhub/recordhub-backend/pkg/errors"
	"gorm.io/gorm"
)

// Store is the persistence surface the user service depends on.
type Store interface {
	Transact(ctx context.Context, fn func(tx Store) error) error
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateAddress(ctx context.Context, address *models.Address) error
	UpdateCompany(ctx context.Context, company *models.Company) error
	ListActive(ctx context.Context) ([]models.User, error)
	SearchByKeyword(ctx context.Context, keyword string) ([]models.User, error)
}

// Service exposes user lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateUserInput) (*UserDTO, error)
	GetByID(ctx context.Context, id int64) (*UserDTO, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (*UserDTO, error)
	Patch(ctx context.Context, id int64, input PatchUserInput) (*UserDTO, error)
	Delete(ctx context.Context, id int64) (*UserDTO, error)
	List(ctx context.Context) ([]*UserDTO, error)
	SearchByKeyword(ctx context.Context, keyword string) ([]*UserDTO, error)
}

type service struct {
	repo Store
}

// NewService builds a user service with the provided repository.
func NewService(repo Store) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

// CreateUserInput captures a validated create request. Password defaults to
// the empty string when absent.
type CreateUserInput struct {
	Name     string
	Username string
	Email    string
	Phone    string
	Website  string
	Password *string
	Address  *AddressInput
	Company  *CompanyInput
}

// UpdateUserInput replaces the listed top-level fields and, when provided,
// updates the existing address/company sub-records.
type UpdateUserInput struct {
	Name     string
	Username string
	Email    string
	Phone    string
	Website  string
	Address  *AddressInput
	Company  *CompanyInput
}

// PatchUserInput merges the non-nil fields into the user row only.
type PatchUserInput struct {
	Name     *string
	Username *string
	Email    *string
	Phone    *string
	Website  *string
	Password *string
}

func (s *service) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	name := strings.TrimSpace(input.Name)
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}

	password := ""
	if input.Password != nil {
		password = *input.Password
	}

	// The pre-check produces the friendly failure on the common path; the
	// unique indexes are the source of truth when two creates race.
	var created *models.User
	err := s.repo.Transact(ctx, func(tx Store) error {
		exists, err := tx.ExistsByEmailOrUsername(ctx, email, username)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user existence")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeDuplicateUser, "Email or username already exists")
		}

		user, err := tx.Create(ctx, CreateUserDTO{
			Name:     name,
			Username: username,
			Email:    email,
			Phone:    input.Phone,
			Website:  input.Website,
			Password: password,
			Address:  input.Address,
			Company:  input.Company,
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeDuplicateUser, err, "Email or username already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateUserInput) (*UserDTO, error) {
	var updated *models.User
	err := s.repo.Transact(ctx, func(tx Store) error {
		user, err := tx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}

		user.Name = input.Name
		user.Username = input.Username
		user.Email = input.Email
		user.Phone = input.Phone
		user.Website = input.Website

		if err := tx.Update(ctx, user); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeDuplicateUser, err, "Email or username already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
		}

		// Sub-records are updated, never created here: callers supplying
		// address/company fields for a user that has none get a typed miss.
		if input.Address != nil {
			if user.Address == nil {
				return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
			user.Address.Street = input.Address.Street
			user.Address.Suite = input.Address.Suite
			user.Address.City = input.Address.City
			user.Address.Zipcode = input.Address.Zipcode
			user.Address.Lat = input.Address.Lat
			user.Address.Lng = input.Address.Lng
			if err := tx.UpdateAddress(ctx, user.Address); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
			}
		}
		if input.Company != nil {
			if user.Company == nil {
				return pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
			}
			user.Company.Name = input.Company.Name
			user.Company.CatchPhrase = input.Company.CatchPhrase
			user.Company.BS = input.Company.BS
			if err := tx.UpdateCompany(ctx, user.Company); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update company")
			}
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) Patch(ctx context.Context, id int64, input PatchUserInput) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Website != nil {
		user.Website = *input.Website
	}
	if input.Password != nil {
		user.Password = *input.Password
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicateUser, err, "Email or username already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "patch user")
	}
	return FromModel(user), nil
}

func (s *service) Delete(ctx context.Context, id int64) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	// Soft delete: flips the marker and re-stamps updated_at, even when the
	// user is already deleted.
	user.Deleted = true
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context) ([]*UserDTO, error) {
	records, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	dtos := make([]*UserDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, FromModel(&records[i]))
	}
	return dtos, nil
}

func (s *service) SearchByKeyword(ctx context.Context, keyword string) ([]*UserDTO, error) {
	records, err := s.repo.SearchByKeyword(ctx, keyword)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search users")
	}
	dtos := make([]*UserDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, FromModel(&records[i]))
	}
	return dtos, nil
}
