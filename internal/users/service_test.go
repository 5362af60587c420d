package users

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/recordhub/recordhub-backend/pkg/db/models"
	pkgerrors "github.com/recordhub/recordhub-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubUserStore struct {
	exists    bool
	existsErr error
	user      *models.User
	findErr   error
	createErr error
	updateErr error
	addrErr   error
	compErr   error
	list      []models.User
	listErr   error
	search    []models.User
	searchErr error

	createdDTO  *CreateUserDTO
	updatedUser *models.User
}

func (s *stubUserStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	return fn(s)
}

func (s *stubUserStore) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	return s.exists, s.existsErr
}

func (s *stubUserStore) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.createdDTO = &dto
	user := dto.ToModel()
	user.ID = 1
	return user, nil
}

func (s *stubUserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.user, nil
}

func (s *stubUserStore) Update(ctx context.Context, user *models.User) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updatedUser = user
	return nil
}

func (s *stubUserStore) UpdateAddress(ctx context.Context, address *models.Address) error {
	return s.addrErr
}

func (s *stubUserStore) UpdateCompany(ctx context.Context, company *models.Company) error {
	return s.compErr
}

func (s *stubUserStore) ListActive(ctx context.Context) ([]models.User, error) {
	return s.list, s.listErr
}

func (s *stubUserStore) SearchByKeyword(ctx context.Context, keyword string) ([]models.User, error) {
	return s.search, s.searchErr
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	svc, err := NewService(&stubUserStore{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	tests := []struct {
		name  string
		input CreateUserInput
	}{
		{name: "missing name", input: CreateUserInput{Username: "leanne", Email: "l@x.com"}},
		{name: "missing username", input: CreateUserInput{Name: "Leanne", Email: "l@x.com"}},
		{name: "bad email", input: CreateUserInput{Name: "Leanne", Username: "leanne", Email: "not-an-email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, gotErr := svc.Create(context.Background(), tt.input)
			if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", gotErr)
			}
		})
	}
}

func TestCreateRejectsDuplicate(t *testing.T) {
	svc, err := NewService(&stubUserStore{exists: true})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Create(context.Background(), CreateUserInput{
		Name: "Leanne", Username: "leanne", Email: "leanne@x.com",
	})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeDuplicateUser {
		t.Fatalf("expected duplicate user code, got %v", gotErr)
	}
}

func TestCreateClassifiesStorageUniqueViolation(t *testing.T) {
	store := &stubUserStore{createErr: errors.New("UNIQUE constraint failed: users.email")}
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Create(context.Background(), CreateUserInput{
		Name: "Leanne", Username: "leanne", Email: "leanne@x.com",
	})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeDuplicateUser {
		t.Fatalf("expected duplicate user code from constraint, got %v", gotErr)
	}
}

func TestCreateDefaultsPasswordAndFormats(t *testing.T) {
	store := &stubUserStore{}
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Create(context.Background(), CreateUserInput{
		Name:     "Leanne Graham",
		Username: "Bret",
		Email:    "leanne@x.com",
		Address: &AddressInput{
			Street: "Kulas Light", Suite: "Apt. 556", City: "Gwenborough",
			Zipcode: "92998-3874", Lat: "-37.3159", Lng: "81.1496",
		},
		Company: &CompanyInput{Name: "Romaguera-Crona", CatchPhrase: "Multi-layered", BS: "harness markets"},
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if store.createdDTO.Password != "" {
		t.Fatalf("expected empty default password, got %q", store.createdDTO.Password)
	}
	if dto.ID != 1 || dto.Username != "Bret" {
		t.Fatalf("unexpected dto %+v", dto)
	}
	if dto.Address == nil || dto.Address.Geo.Lat != "-37.3159" {
		t.Fatalf("expected address with geo, got %+v", dto.Address)
	}
	if dto.Company == nil || dto.Company.BS != "harness markets" {
		t.Fatalf("expected company, got %+v", dto.Company)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc, err := NewService(&stubUserStore{findErr: gorm.ErrRecordNotFound})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.GetByID(context.Background(), 42)
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", gotErr)
	}
}

func TestGetByIDReturnsSoftDeletedUser(t *testing.T) {
	store := &stubUserStore{user: &models.User{ID: 7, Name: "Gone", Username: "gone", Email: "gone@x.com", Deleted: true}}
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if dto.ID != 7 {
		t.Fatalf("expected soft-deleted user to stay addressable, got %+v", dto)
	}
}

func TestUpdateReplacesTopLevelFields(t *testing.T) {
	store := &stubUserStore{user: &models.User{
		ID: 3, Name: "Old", Username: "old", Email: "old@x.com", Phone: "1", Website: "old.org",
		Address: &models.Address{ID: 9, UserID: 3, Street: "Old St"},
	}}
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Update(context.Background(), 3, UpdateUserInput{
		Name: "New", Username: "new", Email: "new@x.com", Phone: "2", Website: "new.org",
		Address: &AddressInput{Street: "New St", City: "Newtown"},
	})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if dto.Name != "New" || dto.Email != "new@x.com" {
		t.Fatalf("expected replaced fields, got %+v", dto)
	}
	if dto.Address == nil || dto.Address.Street != "New St" {
		t.Fatalf("expected updated address, got %+v", dto.Address)
	}
	if store.updatedUser == nil || store.updatedUser.Username != "new" {
		t.Fatalf("expected user row written, got %+v", store.updatedUser)
	}
}

func TestUpdateMissingSubRecordIsNotFound(t *testing.T) {
	store := &stubUserStore{user: &models.User{ID: 3, Name: "NoAddr", Username: "na", Email: "na@x.com"}}
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Update(context.Background(), 3, UpdateUserInput{
		Name: "NoAddr", Username: "na", Email: "na@x.com",
		Address: &AddressInput{Street: "Ghost St"},
	})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for missing address, got %v", gotErr)
	}
}

func TestPatchMergesOnlyProvidedFields(t *testing.T) {
	store := &stubUserStore{user: &models.User{
		ID: 5, Name: "Keep", Username: "keep", Email: "keep@x.com", Phone: "555",
	}}
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	newPhone := "777"
	dto, err := svc.Patch(context.Background(), 5, PatchUserInput{Phone: &newPhone})
	if err != nil {
		t.Fatalf("patch user: %v", err)
	}
	if dto.Phone != "777" {
		t.Fatalf("expected patched phone, got %q", dto.Phone)
	}
	if dto.Name != "Keep" || dto.Username != "keep" {
		t.Fatalf("expected untouched fields preserved, got %+v", dto)
	}
}

func TestDeleteIsSoftAndIdempotent(t *testing.T) {
	store := &stubUserStore{user: &models.User{ID: 8, Name: "Bye", Username: "bye", Email: "bye@x.com"}}
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Delete(context.Background(), 8)
	if err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if dto.ID != 8 {
		t.Fatalf("expected formatted record back, got %+v", dto)
	}
	if !store.updatedUser.Deleted {
		t.Fatalf("expected deleted marker set")
	}

	// second delete re-stamps without failing
	if _, err := svc.Delete(context.Background(), 8); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestSearchByKeywordFormatsResults(t *testing.T) {
	store := &stubUserStore{search: []models.User{
		{ID: 1, Name: "John Smith", Username: "jsmith", Email: "john@x.com", Password: "secret"},
		{ID: 2, Name: "Gone", Username: "john99", Email: "g@x.com", Deleted: true},
	}}
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dtos, err := svc.SearchByKeyword(context.Background(), "john")
	if err != nil {
		t.Fatalf("search users: %v", err)
	}
	if len(dtos) != 2 {
		t.Fatalf("expected soft-deleted users included, got %d results", len(dtos))
	}

	payload, err := json.Marshal(dtos[0])
	if err != nil {
		t.Fatalf("marshal dto: %v", err)
	}
	if strings.Contains(string(payload), "secret") {
		t.Fatalf("password must never be serialized: %s", payload)
	}
}

func TestListPropagatesDependencyError(t *testing.T) {
	svc, err := NewService(&stubUserStore{listErr: errors.New("connection refused")})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.List(context.Background())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", gotErr)
	}
}
