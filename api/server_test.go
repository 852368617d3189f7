package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-cost/db"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewServer("test", store)
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func createIngredient(t *testing.T, s *Server, body map[string]interface{}) int64 {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/ingredients", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.ID
}

func TestIngredientEndpoints(t *testing.T) {
	s := newTestServer(t)

	id := createIngredient(t, s, map[string]interface{}{
		"name": "sugar", "unit": "g", "amount": 100, "price": 5.0, "density": 1.0,
	})
	require.NotZero(t, id)

	// list is ordered by name
	createIngredient(t, s, map[string]interface{}{
		"name": "butter", "unit": "g", "amount": 200, "price": 8.0, "density": 0.91,
	})
	rec := doJSON(t, s, http.MethodGet, "/ingredients", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "butter", list[0]["name"])
	assert.Equal(t, "sugar", list[1]["name"])

	// update
	rec = doJSON(t, s, http.MethodPut, fmt.Sprintf("/ingredients/%d", id), map[string]interface{}{
		"name": "sugar", "unit": "g", "amount": 100, "price": 6.0, "density": 1.0,
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// update of a missing row is a 404
	rec = doJSON(t, s, http.MethodPut, "/ingredients/9999", map[string]interface{}{
		"name": "ghost", "unit": "g", "amount": 1, "price": 1, "density": 1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// delete
	rec = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/ingredients/%d", id), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/ingredients/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateIngredientValidation(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/ingredients", map[string]interface{}{
		"unit": "g", "amount": 100,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/ingredients", map[string]interface{}{
		"name": "weird", "unit": "cups", "amount": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRecipeEndToEnd(t *testing.T) {
	s := newTestServer(t)

	sugarID := createIngredient(t, s, map[string]interface{}{
		"name": "sugar", "unit": "g", "amount": 100, "price": 5.0, "density": 1.0,
	})

	rec := doJSON(t, s, http.MethodPost, "/recipes", map[string]interface{}{
		"name":           "brigadeiro",
		"packaging_cost": 0.50,
		"margin_percent": 50,
		"yield":          1,
		"lines": []map[string]interface{}{
			{"ingredient_id": sugarID, "quantity": 50, "unit": "g"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out RecipeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "3", out.TotalCost.String())
	assert.Equal(t, "4.5", out.SuggestedPrice.String())
	assert.Equal(t, "4.5", out.PricePerYieldUnit.String())
	require.Len(t, out.Lines, 1)
	assert.Equal(t, "sugar", out.Lines[0].IngredientName)

	// recipe is persisted with its figures
	rec = doJSON(t, s, http.MethodGet, "/recipes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []RecipeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "brigadeiro", listed[0].Name)
	assert.Equal(t, "4.5", listed[0].SuggestedPrice.String())
}

func TestCreateRecipeUnknownIngredient(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/recipes", map[string]interface{}{
		"name": "broken",
		"lines": []map[string]interface{}{
			{"ingredient_id": 12345, "quantity": 1, "unit": "g"},
		},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	// nothing persisted
	rec = doJSON(t, s, http.MethodGet, "/recipes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []RecipeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Empty(t, listed)
}

func TestCreateRecipeIncompatibleUnits(t *testing.T) {
	s := newTestServer(t)

	// volume-referenced ingredient with zero density: mass -> volume
	// conversion must divide by density and fail
	milkID := createIngredient(t, s, map[string]interface{}{
		"name": "milk", "unit": "ml", "amount": 1000, "price": 4.2, "density": 0,
	})

	rec := doJSON(t, s, http.MethodPost, "/recipes", map[string]interface{}{
		"name": "broken",
		"lines": []map[string]interface{}{
			{"ingredient_id": milkID, "quantity": 100, "unit": "g"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/version", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var v map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, "test", v["version"])
}
