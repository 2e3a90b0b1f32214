package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jengzang/saferoute-backend-go/internal/spatial"
)

// OSMElement is one element of an Overpass API response
type OSMElement struct {
	Type  string            `json:"type"`
	ID    int64             `json:"id"`
	Lat   float64           `json:"lat"`
	Lon   float64           `json:"lon"`
	Nodes []int64           `json:"nodes"`
	Tags  map[string]string `json:"tags"`
}

// OSMData is the decoded payload of an Overpass API response
type OSMData struct {
	Elements []OSMElement `json:"elements"`
}

// MapSource supplies raw road network data for a bounding box
type MapSource interface {
	FetchRegion(ctx context.Context, box spatial.BoundingBox) (*OSMData, error)
}

// OverpassSource fetches road data from an Overpass API endpoint
type OverpassSource struct {
	endpoint string
	client   *http.Client
}

// NewOverpassSource creates a map source backed by the Overpass API
func NewOverpassSource(endpoint string, timeout time.Duration) *OverpassSource {
	return &OverpassSource{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// FetchRegion downloads all highway ways and their nodes within the box
func (s *OverpassSource) FetchRegion(ctx context.Context, box spatial.BoundingBox) (*OSMData, error) {
	bbox := fmt.Sprintf("%f,%f,%f,%f", box.MinLat, box.MinLon, box.MaxLat, box.MaxLon)
	query := fmt.Sprintf(`[out:json][timeout:25];(way["highway"](%s);>;);out body;`, bbox)

	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("overpass returned status %d: %s", resp.StatusCode, string(body))
	}

	var data OSMData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	return &data, nil
}

// FileSource reads road data from a local JSON file in Overpass format.
// Useful for offline operation and tests.
type FileSource struct {
	path string
}

// NewFileSource creates a map source backed by a local file
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// FetchRegion loads the file and returns only the elements within the box
func (s *FileSource) FetchRegion(ctx context.Context, box spatial.BoundingBox) (*OSMData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}

	var data OSMData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse map file: %w", err)
	}

	// Keep ways whose nodes survive the box filter, and nodes inside the box
	inside := make(map[int64]bool)
	filtered := OSMData{}
	for _, el := range data.Elements {
		if el.Type == "node" && box.Contains(el.Lat, el.Lon) {
			inside[el.ID] = true
			filtered.Elements = append(filtered.Elements, el)
		}
	}
	for _, el := range data.Elements {
		if el.Type != "way" {
			continue
		}
		var kept []int64
		for _, id := range el.Nodes {
			if inside[id] {
				kept = append(kept, id)
			}
		}
		if len(kept) >= 2 {
			el.Nodes = kept
			filtered.Elements = append(filtered.Elements, el)
		}
	}

	return &filtered, nil
}
