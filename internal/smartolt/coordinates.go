// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package smartolt

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Coordinate resolution methods, reported by diagnostics and metrics.
const (
	MethodGPSEndpoint     = "GPS_ENDPOINT"
	MethodDetailsFallback = "DETAILS_FALLBACK"
	MethodSeededOffset    = "SEEDED_OFFSET"
)

// kmPerDegree approximates the length of one degree of latitude.
const kmPerDegree = 111.32

// DefaultOffsetRadiusKm is the scatter radius for devices without a GPS fix.
const DefaultOffsetRadiusKm = 12.0

// Point is a resolved latitude/longitude pair.
type Point struct {
	Lat float64
	Lng float64
}

// SeededOffset returns a deterministic (dlat, dlng) offset in degrees for seed,
// within radiusKm of the origin.
//
// The hash is the 32-bit signed "h*31 + c" string hash over UTF-16 code
// units. Its low 16 bits pick the angle and its high 16 bits the distance
// fraction, so the same serial always lands on the same spot.
func SeededOffset(seed string, radiusKm float64) (dlat, dlng float64) {
	var hash int32
	for _, unit := range utf16.Encode([]rune(seed)) {
		hash = (hash << 5) - hash + int32(unit)
	}

	r := radiusKm / kmPerDegree
	angle := float64(hash&0xFFFF) / 0xFFFF * math.Pi * 2
	dist := float64((uint32(hash)>>16)&0xFFFF) / 0xFFFF * r

	return dist * math.Cos(angle), dist * math.Sin(angle)
}

// ParseCoordinate parses a latitude/longitude pair of decimal strings.
// It reports false when either value is not a finite number or when both
// are zero, which SmartOLT uses for "no fix".
func ParseCoordinate(latRaw, lngRaw string) (Point, bool) {
	lat, ok := parseDegrees(latRaw)
	if !ok {
		return Point{}, false
	}
	lng, ok := parseDegrees(lngRaw)
	if !ok {
		return Point{}, false
	}
	if lat == 0 && lng == 0 {
		return Point{}, false
	}
	return Point{Lat: lat, Lng: lng}, true
}

func parseDegrees(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// detailCoordinate extracts latitude/longitude carried in a detail record's
// untyped fields. Values may be strings or numbers.
func detailCoordinate(d *OnuDetail) (Point, bool) {
	if d == nil {
		return Point{}, false
	}
	latRaw, okLat := d.ExtraValue("latitude")
	lngRaw, okLng := d.ExtraValue("longitude")
	if !okLat || !okLng {
		return Point{}, false
	}
	return ParseCoordinate(scalarString(latRaw), scalarString(lngRaw))
}

// scalarString renders a decoded JSON scalar for ParseCoordinate; anything
// else yields "" and fails to parse.
func scalarString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	default:
		return ""
	}
}

// Resolver picks a coordinate for a serial number: the GPS feed fix, else a
// seeded offset around the center. WithDetailCoordinates adds the detail
// record's own coordinates between the two. It never logs; callers report
// resolution methods.
type Resolver struct {
	center      Point
	radiusKm    float64
	gps         map[string]Point
	withDetails bool
}

// NewResolver indexes usable GPS records by serial number. Records with
// unparseable or 0/0 coordinates are dropped; on duplicate serials the last
// usable record wins.
func NewResolver(center Point, radiusKm float64, coords []OnuCoordinate) *Resolver {
	gps := make(map[string]Point, len(coords))
	for i := range coords {
		c := &coords[i]
		if p, ok := ParseCoordinate(c.Latitude.String(), c.Longitude.String()); ok {
			gps[c.SN.String()] = p
		}
	}
	return &Resolver{center: center, radiusKm: radiusKm, gps: gps}
}

// WithDetailCoordinates returns a resolver that also consults the detail
// record's latitude/longitude. Only diagnostics use it; the dashboard
// places devices from GPS fixes and seeded offsets alone.
func (r *Resolver) WithDetailCoordinates() *Resolver {
	c := *r
	c.withDetails = true
	return &c
}

// Resolve returns the coordinate for sn and the method that produced it.
// detail may be nil and is ignored unless WithDetailCoordinates was used.
func (r *Resolver) Resolve(sn string, detail *OnuDetail) (Point, string) {
	if p, ok := r.gps[sn]; ok {
		return p, MethodGPSEndpoint
	}
	if r.withDetails {
		if p, ok := detailCoordinate(detail); ok {
			return p, MethodDetailsFallback
		}
	}
	dlat, dlng := SeededOffset(sn, r.radiusKm)
	return Point{Lat: r.center.Lat + dlat, Lng: r.center.Lng + dlng}, MethodSeededOffset
}
