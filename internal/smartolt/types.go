// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package smartolt

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// FlexString decodes a JSON string, number, boolean or null into a string.
// SmartOLT is inconsistent about quoting ids, board/port numbers and
// coordinates, so every such field accepts both forms. null and false decode
// to the empty string.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*f = ""
		return nil
	case bytes.Equal(data, []byte("true")):
		*f = "true"
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = FlexString(n.String())
		return nil
	default:
		return fmt.Errorf("FlexString: cannot unmarshal %s", truncateForError(data))
	}
}

// String returns the native string value.
func (f FlexString) String() string {
	return string(f)
}

func truncateForError(data []byte) string {
	const maxLen = 32
	if len(data) > maxLen {
		return string(data[:maxLen]) + "..."
	}
	return string(data)
}

// OnuStatus is one record of /api/onu/get_onus_statuses (not rate limited).
type OnuStatus struct {
	UniqueExternalID FlexString `json:"unique_external_id"`
	SN               FlexString `json:"sn"`
	OLTID            FlexString `json:"olt_id"`
	Board            FlexString `json:"board"`
	Port             FlexString `json:"port"`
	ONU              FlexString `json:"onu"`
	ZoneID           FlexString `json:"zone_id"`
	ODBID            FlexString `json:"odb_id"`
	Status           FlexString `json:"status"`
	LastStatusChange FlexString `json:"last_status_change"`
}

// OnuDetail is one record of /api/onu/get_all_onus_details (3 calls/hour).
//
// Only the fields the reconciliation reads are typed. Everything else the
// upstream returns is preserved in Extra so diagnostics can show it and the
// coordinate resolver can look for latitude/longitude.
type OnuDetail struct {
	UniqueExternalID FlexString `json:"unique_external_id"`
	SN               FlexString `json:"sn"`
	Name             FlexString `json:"name"`
	OLTID            FlexString `json:"olt_id"`
	OLTName          FlexString `json:"olt_name"`
	Board            FlexString `json:"board"`
	Port             FlexString `json:"port"`
	ONU              FlexString `json:"onu"`
	Zone             FlexString `json:"zone"`
	ZoneID           FlexString `json:"zone_id"`
	ODBID            FlexString `json:"odb_id"`

	Extra map[string]interface{} `json:"-"`
}

// detailKnownFields are the JSON keys decoded into typed OnuDetail fields.
var detailKnownFields = []string{
	"unique_external_id", "sn", "name", "olt_id", "olt_name",
	"board", "port", "onu", "zone", "zone_id", "odb_id",
}

// UnmarshalJSON decodes the typed fields and collects the rest into Extra.
func (d *OnuDetail) UnmarshalJSON(data []byte) error {
	type typedDetail OnuDetail
	var typed typedDetail
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}

	var all map[string]interface{}
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, key := range detailKnownFields {
		delete(all, key)
	}

	*d = OnuDetail(typed)
	d.Extra = nil
	if len(all) > 0 {
		d.Extra = all
	}
	return nil
}

// MarshalJSON emits the typed fields together with Extra.
func (d OnuDetail) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.Extra)+len(detailKnownFields))
	for k, v := range d.Extra {
		out[k] = v
	}
	out["unique_external_id"] = d.UniqueExternalID
	out["sn"] = d.SN
	out["name"] = d.Name
	out["olt_id"] = d.OLTID
	out["olt_name"] = d.OLTName
	out["board"] = d.Board
	out["port"] = d.Port
	out["onu"] = d.ONU
	out["zone"] = d.Zone
	out["zone_id"] = d.ZoneID
	out["odb_id"] = d.ODBID
	return json.Marshal(out)
}

// ExtraValue returns an untyped field and whether the upstream sent it.
func (d *OnuDetail) ExtraValue(key string) (interface{}, bool) {
	if d.Extra == nil {
		return nil, false
	}
	v, ok := d.Extra[key]
	return v, ok
}

// Zone is one record of /api/system/get_zones.
type Zone struct {
	ID              FlexString `json:"id"`
	Name            FlexString `json:"name"`
	ImportedDate    FlexString `json:"imported_date,omitempty"`
	ImportedFromOLT FlexString `json:"imported_from_olt,omitempty"`
}

// UnconfiguredOnu is one record of /api/onu/unconfigured_onus. OLTName is often empty.
type UnconfiguredOnu struct {
	SN      FlexString `json:"sn"`
	OLTID   FlexString `json:"olt_id"`
	OLTName FlexString `json:"olt_name,omitempty"`
	Board   FlexString `json:"board"`
	Port    FlexString `json:"port"`
}

// OnuCoordinate is one record of /api/onu/get_all_onus_gps_coordinates (3 calls/hour).
type OnuCoordinate struct {
	UniqueExternalID FlexString `json:"unique_external_id,omitempty"`
	SN               FlexString `json:"sn"`
	Name             FlexString `json:"name,omitempty"`
	Latitude         FlexString `json:"latitude"`
	Longitude        FlexString `json:"longitude"`
	OLTID            FlexString `json:"olt_id,omitempty"`
	OLTName          FlexString `json:"olt_name,omitempty"`
	Zone             FlexString `json:"zone,omitempty"`
}

// responseEnvelope wraps feeds that return their records under "response".
type responseEnvelope[T any] struct {
	Status   bool `json:"status"`
	Response []T  `json:"response"`
}

// onusEnvelope wraps feeds that return their records under "onus".
// A missing or null "onus" decodes to a nil slice.
type onusEnvelope[T any] struct {
	Status bool `json:"status"`
	Onus   []T  `json:"onus"`
}
