package zones

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceZonesParseAndValidate(t *testing.T) {
	zones, err := ReferenceZones()
	require.NoError(t, err)
	require.NotEmpty(t, zones)

	seen := map[string]bool{}
	for _, z := range zones {
		assert.NoError(t, z.Validate())
		assert.False(t, seen[z.Name], "duplicate zone name %q", z.Name)
		seen[z.Name] = true
	}
}

func TestMapServesGeoJSON(t *testing.T) {
	h := NewHandler(nil)
	req := httptest.NewRequest(http.MethodGet, "/zones/map", nil)
	w := httptest.NewRecorder()
	h.Map(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.NotEmpty(t, fc.Features)
}
