package users

import (
	"encoding/json"
	"testing"

	"github.com/recordhub/recordhub-backend/pkg/db/models"
	"github.com/stretchr/testify/require"
)

func TestFromModelProjectsNestedRecords(t *testing.T) {
	user := &models.User{
		ID:       1,
		Name:     "Leanne Graham",
		Username: "Bret",
		Email:    "leanne@x.com",
		Phone:    "1-770-736-8031",
		Website:  "hildegard.org",
		Password: "secret",
		Address: &models.Address{
			Street:  "Kulas Light",
			Suite:   "Apt. 556",
			City:    "Gwenborough",
			Zipcode: "92998-3874",
			Lat:     "-37.3159",
			Lng:     "81.1496",
		},
		Company: &models.Company{
			Name:        "Romaguera-Crona",
			CatchPhrase: "Multi-layered client-server neural-net",
			BS:          "harness real-time e-markets",
		},
	}

	dto := FromModel(user)
	require.NotNil(t, dto)
	require.Equal(t, int64(1), dto.ID)
	require.NotNil(t, dto.Address)
	require.Equal(t, "Kulas Light", dto.Address.Street)
	require.Equal(t, "-37.3159", dto.Address.Geo.Lat)
	require.Equal(t, "81.1496", dto.Address.Geo.Lng)
	require.NotNil(t, dto.Company)
	require.Equal(t, "harness real-time e-markets", dto.Company.BS)
}

func TestFromModelSerializesMissingRecordsAsNull(t *testing.T) {
	dto := FromModel(&models.User{ID: 2, Name: "Solo", Username: "solo", Email: "solo@x.com"})

	payload, err := json.Marshal(dto)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))

	val, ok := decoded["address"]
	require.True(t, ok, "address key must be present")
	require.Nil(t, val)

	val, ok = decoded["company"]
	require.True(t, ok, "company key must be present")
	require.Nil(t, val)

	require.NotContains(t, decoded, "password")
	require.NotContains(t, decoded, "deleted")
}

func TestFromModelNil(t *testing.T) {
	require.Nil(t, FromModel(nil))
}

func TestToModelRoundTrip(t *testing.T) {
	dto := CreateUserDTO{
		Name:     "Leanne Graham",
		Username: "Bret",
		Email:    "leanne@x.com",
		Password: "pw",
		Address:  &AddressInput{Street: "Kulas Light", Lat: "-37.3159", Lng: "81.1496"},
		Company:  &CompanyInput{Name: "Romaguera-Crona"},
	}

	model := dto.ToModel()
	require.Equal(t, "Bret", model.Username)
	require.NotNil(t, model.Address)
	require.Equal(t, "-37.3159", model.Address.Lat)
	require.NotNil(t, model.Company)

	back := FromModel(model)
	require.Equal(t, dto.Name, back.Name)
	require.Equal(t, dto.Address.Lng, back.Address.Geo.Lng)
}
