// Package zones serves the geographic overlay reference data: named
// polygons stored in MongoDB plus the raw GeoJSON for the map view.
package zones

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lseverin/mapclash/backend/internal/models"
	"github.com/lseverin/mapclash/backend/internal/web"
)

//go:embed zones.geojson
var zonesGeoJSON []byte

// geoFeature is the subset of a GeoJSON Feature we care about.
type geoFeature struct {
	Properties struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"properties"`
	Geometry struct {
		Type        string        `json:"type"`
		Coordinates [][][]float64 `json:"coordinates"`
	} `json:"geometry"`
}

// ReferenceZones decodes the embedded GeoJSON into seedable zones. The
// outer polygon ring becomes the zone's coordinate list.
func ReferenceZones() ([]models.Zone, error) {
	var fc struct {
		Features []geoFeature `json:"features"`
	}
	if err := json.Unmarshal(zonesGeoJSON, &fc); err != nil {
		return nil, fmt.Errorf("zones geojson: %w", err)
	}

	zones := make([]models.Zone, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.Geometry.Type != "Polygon" || len(f.Geometry.Coordinates) == 0 {
			return nil, fmt.Errorf("zones geojson: feature %q is not a polygon", f.Properties.ID)
		}
		zones = append(zones, models.Zone{
			Name:        f.Properties.Name,
			Coordinates: f.Geometry.Coordinates[0],
		})
	}
	return zones, nil
}

// Store defines the zone persistence used by the handlers.
type Store interface {
	List(ctx context.Context) ([]models.Zone, error)
	GetByID(ctx context.Context, id string) (*models.Zone, error)
}

// Handler holds the zone HTTP handlers.
type Handler struct {
	zones Store
}

func NewHandler(zones Store) *Handler {
	return &Handler{zones: zones}
}

// List returns all zones.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	zones, err := h.zones.List(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}
	if zones == nil {
		zones = []models.Zone{}
	}
	web.JSON(w, http.StatusOK, zones)
}

// Get returns one zone by id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	zone, err := h.zones.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, zone)
}

// Map returns the raw GeoJSON FeatureCollection for the front-end map.
func (h *Handler) Map(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(zonesGeoJSON)
}
