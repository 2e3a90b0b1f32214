package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/jengzang/saferoute-backend-go/internal/models"
)

// MapService renders a stored route plus the current hazard zones to a
// self-contained Leaflet HTML page. Read-only consumer of the registry
// and the hazard store; does not feed back into routing.
type MapService struct {
	tmpl *template.Template
}

// NewMapService creates the map renderer
func NewMapService() *MapService {
	return &MapService{
		tmpl: template.Must(template.New("map").Parse(mapTemplate)),
	}
}

type mapData struct {
	Title     string
	CenterLat float64
	CenterLon float64
	Waypoints template.JS
	Hazards   template.JS
	Start     template.JS
	End       template.JS
}

type mapHazard struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	RadiusM float64 `json:"radius_m"`
	Level   int     `json:"level"`
	Name    string  `json:"name"`
	Color   string  `json:"color"`
}

// RenderRouteMap produces the HTML map for a route and hazard snapshot
func (s *MapService) RenderRouteMap(route *models.Route, hazards []models.HazardZone) (string, error) {
	waypoints := make([][2]float64, 0, len(route.Waypoints))
	for _, p := range route.Waypoints {
		waypoints = append(waypoints, [2]float64{p.Lat, p.Lon})
	}

	circles := make([]mapHazard, 0, len(hazards))
	for _, h := range hazards {
		circles = append(circles, mapHazard{
			Lat: h.Center.Lat, Lon: h.Center.Lon,
			RadiusM: h.RadiusM, Level: h.Level, Name: h.Name,
			Color: hazardColor(h.Level),
		})
	}

	data := mapData{
		Title:     fmt.Sprintf("Route %s", route.ID),
		CenterLat: route.Start.Lat,
		CenterLon: route.Start.Lon,
		Waypoints: jsValue(waypoints),
		Hazards:   jsValue(circles),
		Start:     jsValue([2]float64{route.Start.Lat, route.Start.Lon}),
		End:       jsValue([2]float64{route.End.Lat, route.End.Lon}),
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render map: %w", err)
	}
	return buf.String(), nil
}

func jsValue(v interface{}) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return template.JS("null")
	}
	return template.JS(b)
}

func hazardColor(level int) string {
	switch {
	case level >= 5:
		return "darkred"
	case level >= 4:
		return "red"
	case level >= 3:
		return "orange"
	default:
		return "yellow"
	}
}

const mapTemplate = `<!DOCTYPE html>
<html>
<head>
	<title>{{.Title}}</title>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
	<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
	<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
	var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], 14);
	L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
		attribution: '&copy; OpenStreetMap contributors'
	}).addTo(map);

	var waypoints = {{.Waypoints}};
	if (waypoints.length > 1) {
		var line = L.polyline(waypoints, {color: 'blue', weight: 5, opacity: 0.8}).addTo(map);
		line.bindPopup('Safe Route (' + waypoints.length + ' waypoints)');
		map.fitBounds(line.getBounds(), {padding: [30, 30]});
	}

	var start = {{.Start}};
	var end = {{.End}};
	L.marker(start).addTo(map).bindPopup('START');
	L.marker(end).addTo(map).bindPopup('END');

	var hazards = {{.Hazards}};
	hazards.forEach(function (h) {
		L.circle([h.lat, h.lon], {
			radius: h.radius_m,
			color: h.color,
			fillColor: h.color,
			fillOpacity: 0.4
		}).addTo(map).bindPopup('<b>' + h.name + '</b><br>Level: ' + h.level +
			'<br>Radius: ' + h.radius_m + 'm');
		L.circleMarker([h.lat, h.lon], {radius: 6, color: 'black', fill: true}).addTo(map);
	});
</script>
</body>
</html>
`
