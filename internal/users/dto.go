package users

import "github.com/recordhub/recordhub-backend/pkg/db/models"

// UserDTO is the transport shape. Password, the soft-delete marker and the
// timestamps never leave the service layer.
type UserDTO struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Address  *AddressDTO `json:"address"`
	Phone    string      `json:"phone"`
	Website  string      `json:"website"`
	Company  *CompanyDTO `json:"company"`
}

type AddressDTO struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
	Geo     GeoDTO `json:"geo"`
}

type GeoDTO struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

type CompanyDTO struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs"`
}

// AddressInput carries nested address fields on create/update calls.
type AddressInput struct {
	Street  string
	Suite   string
	City    string
	Zipcode string
	Lat     string
	Lng     string
}

// CompanyInput carries nested company fields on create/update calls.
type CompanyInput struct {
	Name        string
	CatchPhrase string
	BS          string
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name     string
	Username string
	Email    string
	Phone    string
	Website  string
	Password string
	Address  *AddressInput
	Company  *CompanyInput
}

// FromModel projects a fully loaded user onto the transport shape. Pure and
// total: absent Address/Company come out as explicit nulls.
func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	dto := &UserDTO{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		Website:  u.Website,
	}
	if u.Address != nil {
		dto.Address = &AddressDTO{
			Street:  u.Address.Street,
			Suite:   u.Address.Suite,
			City:    u.Address.City,
			Zipcode: u.Address.Zipcode,
			Geo: GeoDTO{
				Lat: u.Address.Lat,
				Lng: u.Address.Lng,
			},
		}
	}
	if u.Company != nil {
		dto.Company = &CompanyDTO{
			Name:        u.Company.Name,
			CatchPhrase: u.Company.CatchPhrase,
			BS:          u.Company.BS,
		}
	}
	return dto
}

func (c CreateUserDTO) ToModel() *models.User {
	user := &models.User{
		Name:     c.Name,
		Username: c.Username,
		Email:    c.Email,
		Phone:    c.Phone,
		Website:  c.Website,
		Password: c.Password,
	}
	if c.Address != nil {
		user.Address = &models.Address{
			Street:  c.Address.Street,
			Suite:   c.Address.Suite,
			City:    c.Address.City,
			Zipcode: c.Address.Zipcode,
			Lat:     c.Address.Lat,
			Lng:     c.Address.Lng,
		}
	}
	if c.Company != nil {
		user.Company = &models.Company{
			Name:        c.Company.Name,
			CatchPhrase: c.Company.CatchPhrase,
			BS:          c.Company.BS,
		}
	}
	return user
}
