package place

import "math"

// kmPerDegree approximates the surface distance of one degree of latitude.
const kmPerDegree = 111.0

// ProjectAround repositions catalog entries in a ring around the given
// center so the demo catalog always has candidates near the requester.
// Entry i is placed at bearing i*30 degrees and at a distance that varies
// between 30% and 90% of the requested radius, so a default request sees a
// spread of near and far results.
//
// The input slice is modified and returned. Real place providers return
// genuinely nearby venues and never need this step.
func ProjectAround(places []Place, centerLat, centerLng float64, radiusMeters float64) []Place {
	for i := range places {
		angle := float64(i*30) * math.Pi / 180
		distanceKm := (radiusMeters / 1000) * (0.3 + float64(i%5)*0.15)
		latOffset := distanceKm * math.Cos(angle) / kmPerDegree
		lngOffset := distanceKm * math.Sin(angle) / (kmPerDegree * math.Cos(centerLat*math.Pi/180))

		places[i].Latitude = centerLat + latOffset
		places[i].Longitude = centerLng + lngOffset
	}
	return places
}
