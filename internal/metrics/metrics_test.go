// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	var m dto.Metric
	if err := o.(prometheus.Metric).Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordUpstreamRequest(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequests.WithLabelValues("details", "success"))

	RecordUpstreamRequest("details", "success", 150*time.Millisecond)
	RecordUpstreamRequest("details", "success", 0)

	after := testutil.ToFloat64(UpstreamRequests.WithLabelValues("details", "success"))
	if after-before != 2 {
		t.Errorf("smartolt_requests_total{details,success} delta = %v, want 2", after-before)
	}
}

func TestRecordUpstreamRequest_ObservesOnlyTimedCalls(t *testing.T) {
	before := histogramCount(t, UpstreamRequestDuration.WithLabelValues("zones"))

	RecordUpstreamRequest("zones", "success", 40*time.Millisecond)
	RecordUpstreamRequest("zones", "throttled", 0)

	if got := histogramCount(t, UpstreamRequestDuration.WithLabelValues("zones")) - before; got != 1 {
		t.Errorf("duration samples delta = %d, want 1", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("zones"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("zones"))

	RecordCacheLookup("zones", true)
	RecordCacheLookup("zones", false)
	RecordCacheLookup("zones", false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("zones")) - hits; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("zones")) - misses; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}

func TestRecordReconcile(t *testing.T) {
	RecordReconcile(time.Second, map[string]int{"Online": 3, "LOS": 1})
	if got := testutil.ToFloat64(ReconcileDevices.WithLabelValues("Online")); got != 3 {
		t.Errorf("reconcile_devices{Online} = %v, want 3", got)
	}

	// A later run replaces, not accumulates, the per-status gauges
	RecordReconcile(time.Second, map[string]int{"Offline": 2})
	if got := testutil.CollectAndCount(ReconcileDevices); got != 1 {
		t.Errorf("reconcile_devices series = %d, want 1 after reset", got)
	}
	if got := testutil.ToFloat64(ReconcileDevices.WithLabelValues("Offline")); got != 2 {
		t.Errorf("reconcile_devices{Offline} = %v, want 2", got)
	}
}

func TestRecordStoreOperation(t *testing.T) {
	before := testutil.ToFloat64(StoreOperationErrors.WithLabelValues("upsert"))

	RecordStoreOperation("upsert", 2*time.Millisecond, nil)
	RecordStoreOperation("upsert", 2*time.Millisecond, errors.New("disk full"))

	if got := testutil.ToFloat64(StoreOperationErrors.WithLabelValues("upsert")) - before; got != 1 {
		t.Errorf("store errors delta = %v, want 1", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		method, endpoint, status string
	}{
		{"GET", "/api/dashboard", "200"},
		{"GET", "/api/sync/smartolt", "401"},
		{"GET", "/api/debug-onu", "400"},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.status))
			RecordAPIRequest(tt.method, tt.endpoint, tt.status, 10*time.Millisecond)
			after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.status))
			if after-before != 1 {
				t.Errorf("api_requests_total delta = %v, want 1", after-before)
			}
		})
	}
}

func TestRecordSyncOperation(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedErrType string
	}{
		{name: "success", err: nil},
		{name: "empty upstream", err: errors.New("sync: no devices from SmartOLT"), expectedErrType: "empty_upstream"},
		{name: "store failure", err: errors.New("store upsert: disk full"), expectedErrType: "store"},
		{name: "canceled", err: errors.New("context canceled"), expectedErrType: "canceled"},
		{name: "unknown", err: errors.New("boom"), expectedErrType: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before float64
			if tt.expectedErrType != "" {
				before = testutil.ToFloat64(SyncErrors.WithLabelValues(tt.expectedErrType))
			}

			RecordSyncOperation(time.Second, 10, tt.err)

			if tt.expectedErrType == "" {
				if testutil.ToFloat64(SyncLastSuccess) == 0 {
					t.Error("sync_last_success_timestamp not set after success")
				}
				return
			}
			after := testutil.ToFloat64(SyncErrors.WithLabelValues(tt.expectedErrType))
			if after-before != 1 {
				t.Errorf("sync_errors_total{%s} delta = %v, want 1", tt.expectedErrType, after-before)
			}
		})
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)

	if got := testutil.ToFloat64(APIActiveRequests) - before; got != 1 {
		t.Errorf("active requests delta = %v, want 1", got)
	}
	TrackActiveRequest(false)
}

func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordUpstreamRequest("statuses", "success", time.Millisecond)
			RecordCacheLookup("onu_details", true)
			RecordAPIRequest("GET", "/api/onus", "200", time.Millisecond)
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()
}

func TestMetricGathering(t *testing.T) {
	CircuitBreakerState.WithLabelValues("smartolt-api").Set(0)
	WSConnections.Set(0)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Errorf("metric lint problem: %s: %s", p.Metric, p.Text)
	}
}
