package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recordhub/recordhub-backend/api/responses"
	"github.com/recordhub/recordhub-backend/api/validators"
	"github.com/recordhub/recordhub-backend/internal/users"
	pkgerrors "github.com/recordhub/recordhub-backend/pkg/errors"
	"github.com/recordhub/recordhub-backend/pkg/logger"
)

type addressRequest struct {
	Street  string     `json:"street"`
	Suite   string     `json:"suite"`
	City    string     `json:"city"`
	Zipcode string     `json:"zipcode"`
	Geo     geoRequest `json:"geo"`
}

type geoRequest struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

func (a *addressRequest) toInput() *users.AddressInput {
	if a == nil {
		return nil
	}
	return &users.AddressInput{
		Street:  a.Street,
		Suite:   a.Suite,
		City:    a.City,
		Zipcode: a.Zipcode,
		Lat:     a.Geo.Lat,
		Lng:     a.Geo.Lng,
	}
}

type companyRequest struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs"`
}

func (c *companyRequest) toInput() *users.CompanyInput {
	if c == nil {
		return nil
	}
	return &users.CompanyInput{
		Name:        c.Name,
		CatchPhrase: c.CatchPhrase,
		BS:          c.BS,
	}
}

type userCreateRequest struct {
	Name     string          `json:"name" validate:"required"`
	Username string          `json:"username" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Phone    string          `json:"phone"`
	Website  string          `json:"website"`
	Password *string         `json:"password,omitempty"`
	Address  *addressRequest `json:"address,omitempty"`
	Company  *companyRequest `json:"company,omitempty"`
}

func (r userCreateRequest) toInput() users.CreateUserInput {
	return users.CreateUserInput{
		Name:     r.Name,
		Username: r.Username,
		Email:    r.Email,
		Phone:    r.Phone,
		Website:  r.Website,
		Password: r.Password,
		Address:  r.Address.toInput(),
		Company:  r.Company.toInput(),
	}
}

type userUpdateRequest struct {
	Name     string          `json:"name" validate:"required"`
	Username string          `json:"username" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Phone    string          `json:"phone"`
	Website  string          `json:"website"`
	Address  *addressRequest `json:"address,omitempty"`
	Company  *companyRequest `json:"company,omitempty"`
}

func (r userUpdateRequest) toInput() users.UpdateUserInput {
	return users.UpdateUserInput{
		Name:     r.Name,
		Username: r.Username,
		Email:    r.Email,
		Phone:    r.Phone,
		Website:  r.Website,
		Address:  r.Address.toInput(),
		Company:  r.Company.toInput(),
	}
}

type userPatchRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Username *string `json:"username,omitempty" validate:"omitempty,min=1"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty"`
	Website  *string `json:"website,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (r userPatchRequest) toInput() users.PatchUserInput {
	return users.PatchUserInput{
		Name:     r.Name,
		Username: r.Username,
		Email:    r.Email,
		Phone:    r.Phone,
		Website:  r.Website,
		Password: r.Password,
	}
}

// UserCreate registers a new user with optional nested address and company.
func UserCreate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		var payload userCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

// UserList returns every user that is not soft-deleted.
func UserList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// UserSearch finds users whose email, name or username contains the keyword.
func UserSearch(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		keyword, err := validators.RequireQuery(r, "keyword")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.SearchByKeyword(r.Context(), keyword)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// UserGet loads one user by id, soft-deleted users included.
func UserGet(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "userID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// UserUpdate replaces the top-level fields and, when supplied, the nested
// address/company sub-records.
func UserUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "userID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload userUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// UserPatch merges the provided fields into the user row.
func UserPatch(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "userID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload userPatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Patch(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// UserDelete soft-deletes the user and returns no body.
func UserDelete(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "userID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}
