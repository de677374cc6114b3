package v1_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/wayfinder-supply/wayfinder/internal/api/v1"
)

func TestUserPersonas(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	v1.RegisterUserRoutes(api)

	resp := api.Get("/users/personas")
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Personas []v1.Persona `json:"personas"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Personas, 4)

	ids := make([]string, 0, len(body.Personas))
	for _, p := range body.Personas {
		ids = append(ids, p.ID)
		// Sessions must be an array, even for the fresh guest persona.
		assert.NotNil(t, p.Sessions)
	}
	assert.Equal(t, []string{"user_17", "user_42", "user_88", "user_new"}, ids)
}
