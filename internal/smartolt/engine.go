// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package smartolt

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/fibermap/internal/logging"
	"github.com/tomtom215/fibermap/internal/metrics"
	"github.com/tomtom215/fibermap/internal/models"
)

// Feeds is the fail-soft view of the SmartOLT API the engine consumes.
// Implementations never return errors; an unavailable feed is an empty slice.
type Feeds interface {
	FetchStatuses(ctx context.Context) []OnuStatus
	FetchUnconfigured(ctx context.Context) []UnconfiguredOnu
	FetchDetails(ctx context.Context) []OnuDetail
	FetchZones(ctx context.Context) []Zone
	FetchCoordinates(ctx context.Context, oltIDs []string) []OnuCoordinate
	FetchDeviceCoordinates(ctx context.Context, oltID string) []OnuCoordinate
}

var _ Feeds = (*Client)(nil)

// Engine merges the SmartOLT feeds into one record per device.
type Engine struct {
	feeds    Feeds
	center   Point
	radiusKm float64
}

// NewEngine creates an engine. center anchors synthetic coordinates and
// radiusKm bounds their scatter.
func NewEngine(feeds Feeds, center Point, radiusKm float64) *Engine {
	return &Engine{feeds: feeds, center: center, radiusKm: radiusKm}
}

// Reconcile fetches every feed and returns the merged device list: status
// feed devices first, then unconfigured devices, each in feed order.
//
// Statuses, unconfigured, details and zones are fetched concurrently. The
// coordinate fetch waits for details because its per-OLT fallback needs the
// OLT ids found there. An empty status and unconfigured feed yields an empty
// result; whether to substitute mock data is the caller's decision.
func (e *Engine) Reconcile(ctx context.Context) []models.DashboardOnu {
	start := time.Now()

	snap := FeedSnapshot{}
	var g errgroup.Group
	g.Go(func() error { snap.Statuses = e.feeds.FetchStatuses(ctx); return nil })
	g.Go(func() error { snap.Unconfigured = e.feeds.FetchUnconfigured(ctx); return nil })
	g.Go(func() error { snap.Details = e.feeds.FetchDetails(ctx); return nil })
	g.Go(func() error { snap.Zones = e.feeds.FetchZones(ctx); return nil })
	_ = g.Wait() // feed fetches are fail-soft and never return errors

	snap.Coordinates = e.feeds.FetchCoordinates(ctx, KnownOLTIDs(snap.Details))

	logging.CtxInfo(ctx).
		Int("statuses", len(snap.Statuses)).
		Int("unconfigured", len(snap.Unconfigured)).
		Int("details", len(snap.Details)).
		Int("zones", len(snap.Zones)).
		Int("coords", len(snap.Coordinates)).
		Msg("Merging SmartOLT feeds")

	result := Merge(&snap, e.center, e.radiusKm)

	byStatus := make(map[string]int, len(models.AllStatuses))
	for i := range result.Devices {
		byStatus[string(result.Devices[i].Status)]++
	}
	for method, n := range result.Methods {
		metrics.CoordinateResolutions.WithLabelValues(method).Add(float64(n))
	}
	metrics.RecordReconcile(time.Since(start), byStatus)

	logging.CtxInfo(ctx).
		Int("devices", len(result.Devices)).
		Int("gps", result.Methods[MethodGPSEndpoint]).
		Int("seeded", result.Methods[MethodSeededOffset]).
		Dur("duration", time.Since(start)).
		Msg("Reconciliation complete")

	return result.Devices
}

// FeedSnapshot is one fetch of every feed.
type FeedSnapshot struct {
	Statuses     []OnuStatus
	Unconfigured []UnconfiguredOnu
	Details      []OnuDetail
	Zones        []Zone
	Coordinates  []OnuCoordinate
}

// MergeResult is the merged device list and how many coordinates each
// resolution method produced.
type MergeResult struct {
	Devices []models.DashboardOnu
	Methods map[string]int
}

// KnownOLTIDs returns the unique non-empty OLT ids of the details feed in
// first-seen order.
func KnownOLTIDs(details []OnuDetail) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for i := range details {
		id := details[i].OLTID.String()
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// Merge builds the device list from a feed snapshot. It is pure: no I/O and
// no logging.
//
// Field resolution for status feed devices:
//   - name: detail name, else serial
//   - OLT: detail OLT name, else the OLT id's name from details, else "OLT-<id>"
//   - zone: detail zone, else the zone feed name for zone_id, else "Zone-<zone_id>"
//   - status: coerced into Online, Power fail, LOS or Offline
//
// Unconfigured devices already in the status feed are skipped. The rest get
// status Unconfigured, OLT from their own OLT name, else the OLT id's name,
// else the detail OLT name, else "OLT-<id>", and zone from the detail or
// "Zone-unknown" (the feed carries no zone id).
func Merge(snap *FeedSnapshot, center Point, radiusKm float64) MergeResult {
	detailBySN := make(map[string]*OnuDetail, len(snap.Details))
	for i := range snap.Details {
		detailBySN[snap.Details[i].SN.String()] = &snap.Details[i]
	}

	zoneNames := make(map[string]string, len(snap.Zones))
	for _, z := range snap.Zones {
		zoneNames[z.ID.String()] = z.Name.String()
	}

	// First non-empty name per OLT id wins; later disagreeing names are ignored.
	oltNames := make(map[string]string)
	for i := range snap.Details {
		d := &snap.Details[i]
		id := d.OLTID.String()
		if id == "" || d.OLTName == "" {
			continue
		}
		if _, ok := oltNames[id]; !ok {
			oltNames[id] = d.OLTName.String()
		}
	}

	resolver := NewResolver(center, radiusKm, snap.Coordinates)
	result := MergeResult{
		Devices: make([]models.DashboardOnu, 0, len(snap.Statuses)+len(snap.Unconfigured)),
		Methods: make(map[string]int, 3),
	}

	statusSNs := make(map[string]struct{}, len(snap.Statuses))
	for i := range snap.Statuses {
		s := &snap.Statuses[i]
		sn := s.SN.String()
		statusSNs[sn] = struct{}{}
		detail := detailBySN[sn]

		point, method := resolver.Resolve(sn, detail)
		result.Methods[method]++

		oltID := s.OLTID.String()
		zoneID := s.ZoneID.String()

		result.Devices = append(result.Devices, models.DashboardOnu{
			ID:      firstNonEmpty(s.UniqueExternalID.String(), sn),
			SN:      sn,
			Name:    firstNonEmpty(detailField(detail, func(d *OnuDetail) FlexString { return d.Name }), sn),
			Status:  models.CoerceFeedStatus(s.Status.String()),
			Lat:     point.Lat,
			Lng:     point.Lng,
			OLTName: firstNonEmpty(detailField(detail, func(d *OnuDetail) FlexString { return d.OLTName }), oltNames[oltID], "OLT-"+oltID),
			Zone:    firstNonEmpty(detailField(detail, func(d *OnuDetail) FlexString { return d.Zone }), zoneNames[zoneID], "Zone-"+zoneID),
			Board:   s.Board.String(),
			Port:    s.Port.String(),
		})
	}

	for i := range snap.Unconfigured {
		u := &snap.Unconfigured[i]
		sn := u.SN.String()
		if _, ok := statusSNs[sn]; ok {
			continue
		}
		detail := detailBySN[sn]

		point, method := resolver.Resolve(sn, detail)
		result.Methods[method]++

		oltID := u.OLTID.String()
		detailOLT := detailField(detail, func(d *OnuDetail) FlexString { return d.OLTName })

		result.Devices = append(result.Devices, models.DashboardOnu{
			ID:      sn,
			SN:      sn,
			Name:    firstNonEmpty(detailField(detail, func(d *OnuDetail) FlexString { return d.Name }), sn),
			Status:  models.StatusUnconfigured,
			Lat:     point.Lat,
			Lng:     point.Lng,
			OLTName: firstNonEmpty(u.OLTName.String(), oltNames[oltID], detailOLT, "OLT-"+oltID),
			Zone:    firstNonEmpty(detailField(detail, func(d *OnuDetail) FlexString { return d.Zone }), "Zone-unknown"),
			Board:   u.Board.String(),
			Port:    u.Port.String(),
		})
	}

	return result
}

func detailField(d *OnuDetail, get func(*OnuDetail) FlexString) string {
	if d == nil {
		return ""
	}
	return get(d).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
