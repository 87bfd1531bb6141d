// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package smartolt

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/fibermap/internal/models"
)

// Diagnose reports how one serial number appears in each feed and which
// coordinate the dashboard would place it at.
//
// The GPS lookup passes the device's OLT id (from its detail record, else its
// status record) so the per-OLT fallback can run when the bulk endpoint is
// refused. That single-OLT result stays out of the shared coordinate cache.
func (e *Engine) Diagnose(ctx context.Context, sn string) models.DeviceDiagnostics {
	var details []OnuDetail
	var statuses []OnuStatus

	var g errgroup.Group
	g.Go(func() error { details = e.feeds.FetchDetails(ctx); return nil })
	g.Go(func() error { statuses = e.feeds.FetchStatuses(ctx); return nil })
	_ = g.Wait()

	detail := findDetail(details, sn)
	status := findStatus(statuses, sn)

	var oltID string
	switch {
	case detail != nil && detail.OLTID != "":
		oltID = detail.OLTID.String()
	case status != nil && status.OLTID != "":
		oltID = status.OLTID.String()
	}

	coords := e.feeds.FetchDeviceCoordinates(ctx, oltID)
	coord := findCoordinate(coords, sn)

	point, method := NewResolver(e.center, e.radiusKm, coords).WithDetailCoordinates().Resolve(sn, detail)

	diag := models.DeviceDiagnostics{
		RequestedSN: sn,
		Timestamp:   time.Now().UTC(),
		Resolution: models.ResolutionSummary{
			Lat:    point.Lat,
			Lng:    point.Lng,
			Method: method,
		},
		Summary: models.FeedPresence{
			FoundInDetails:  detail != nil,
			FoundInGPS:      coord != nil,
			FoundInStatuses: status != nil,
		},
	}

	if detail != nil {
		_, diag.Resolution.DetailHasLat = detail.ExtraValue("latitude")
		_, diag.Resolution.DetailHasLng = detail.ExtraValue("longitude")
		diag.Resolution.LatValue, _ = detail.ExtraValue("latitude")
		diag.Raw.Detail = detail
	}
	if coord != nil {
		diag.Raw.GPS = coord
	}
	if status != nil {
		diag.Raw.Status = status
	}

	return diag
}

func findDetail(details []OnuDetail, sn string) *OnuDetail {
	for i := range details {
		if details[i].SN.String() == sn {
			return &details[i]
		}
	}
	return nil
}

func findStatus(statuses []OnuStatus, sn string) *OnuStatus {
	for i := range statuses {
		if statuses[i].SN.String() == sn {
			return &statuses[i]
		}
	}
	return nil
}

func findCoordinate(coords []OnuCoordinate, sn string) *OnuCoordinate {
	for i := range coords {
		if coords[i].SN.String() == sn {
			return &coords[i]
		}
	}
	return nil
}
