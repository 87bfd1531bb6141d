// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package mock

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/tomtom215/fibermap/internal/models"
)

// ScatterRadiusKm is how far mock devices spread from the map center.
const ScatterRadiusKm = 15.0

// DefaultCount is the number of devices served when live data is unavailable.
const DefaultCount = 500

// kmPerDegree is the rough length of one degree used to convert the radius.
const kmPerDegree = 111.32

// statusPool weights the mock status distribution: 16 of 20 devices are Online.
var statusPool = []models.DeviceStatus{
	models.StatusOnline, models.StatusOnline, models.StatusOnline, models.StatusOnline,
	models.StatusOnline, models.StatusOnline, models.StatusOnline, models.StatusOnline,
	models.StatusLOS, models.StatusPowerFail, models.StatusOffline,
	models.StatusOnline, models.StatusOnline, models.StatusOnline,
	models.StatusUnconfigured,
	models.StatusOnline, models.StatusOnline, models.StatusOnline, models.StatusOnline, models.StatusOnline,
}

var oltNames = []string{
	"OLT-JAKARTA-01",
	"OLT-JAKARTA-02",
	"OLT-BOGOR-01",
	"OLT-TANGERANG-01",
	"OLT-BEKASI-01",
}

var zoneNames = []string{"Zone-A", "Zone-B", "Zone-C", "Zone-D", "Zone-E"}

// Generator produces synthetic dashboard devices scattered around a center.
// It is safe for concurrent use.
type Generator struct {
	centerLat float64
	centerLng float64

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source, for reproducible output in tests.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

// NewGenerator creates a generator centered on the given map coordinate.
func NewGenerator(centerLat, centerLng float64, opts ...Option) *Generator {
	g := &Generator{
		centerLat: centerLat,
		centerLng: centerLng,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // mock data, not security sensitive
	}
	return g
}

// Generate returns count devices. Ids are ONU-00001 upward; everything else
// is random. A count below zero yields an empty slice.
func (g *Generator) Generate(count int) []models.DashboardOnu {
	if count < 0 {
		count = 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	onus := make([]models.DashboardOnu, 0, count)
	for i := 0; i < count; i++ {
		lat, lng := g.randomCoord(ScatterRadiusKm)
		status := statusPool[g.rng.Intn(len(statusPool))]
		olt := oltNames[g.rng.Intn(len(oltNames))]
		zone := zoneNames[g.rng.Intn(len(zoneNames))]

		onus = append(onus, models.DashboardOnu{
			ID:      fmt.Sprintf("ONU-%05d", i+1),
			SN:      fmt.Sprintf("ZTEG%08d", g.rng.Intn(99999999)),
			Name:    fmt.Sprintf("Customer-%d", i+1),
			Status:  status,
			Lat:     lat,
			Lng:     lng,
			OLTName: olt,
			Zone:    zone,
			Board:   strconv.Itoa(g.rng.Intn(4)),
			Port:    strconv.Itoa(g.rng.Intn(16)),
		})
	}
	return onus
}

// randomCoord picks a uniformly random angle and distance within radiusKm.
// Points cluster toward the center; that matches the demo look.
func (g *Generator) randomCoord(radiusKm float64) (lat, lng float64) {
	r := radiusKm / kmPerDegree
	angle := g.rng.Float64() * math.Pi * 2
	dist := g.rng.Float64() * r
	return g.centerLat + dist*math.Cos(angle), g.centerLng + dist*math.Sin(angle)
}
