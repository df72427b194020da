// Package variables models the named-variable sets exchanged with the
// workflow engine. A set has a bounded number of known fields plus an open
// extension map, so unrecognized keys survive every transformation.
package variables

import (
	"encoding/json"
	"fmt"
)

// Sentinel is the placeholder the engine uses for a variable that was never
// supplied. It counts as "not provided" everywhere.
const Sentinel = "N/A"

// External key names for the known fields.
const (
	KeyContainerID      = "containerId"
	KeyTransportationID = "transportationId"
	KeyOperationType    = "operationType"
	KeyWeight           = "weight"
	KeyStorageStatus    = "storageStatus"
	KeyCheckIn          = "checkIn"
	KeyCheckOut         = "checkOut"
)

// VariableSet is one job's variable payload. Known fields are typed; every
// other key rides along in Extra untouched. An empty string on a known
// string field means the value was not provided.
type VariableSet struct {
	ContainerID      string
	TransportationID string
	OperationType    string
	Weight           float64
	HasWeight        bool
	StorageStatus    string
	CheckIn          string
	CheckOut         string
	Extra            map[string]any
}

// Clone returns a deep copy. Extra values are copied by reference; callers
// treat them as immutable.
func (v VariableSet) Clone() VariableSet {
	out := v
	if v.Extra != nil {
		out.Extra = make(map[string]any, len(v.Extra))
		for k, val := range v.Extra {
			out.Extra[k] = val
		}
	}
	return out
}

// Set assigns a value by external key name, routing known keys to their
// typed fields and everything else to Extra.
func (v *VariableSet) Set(key string, value any) {
	switch key {
	case KeyContainerID:
		v.ContainerID = toString(value)
	case KeyTransportationID:
		v.TransportationID = toString(value)
	case KeyOperationType:
		v.OperationType = toString(value)
	case KeyStorageStatus:
		v.StorageStatus = toString(value)
	case KeyCheckIn:
		v.CheckIn = toString(value)
	case KeyCheckOut:
		v.CheckOut = toString(value)
	case KeyWeight:
		if f, ok := toFloat(value); ok {
			v.Weight = f
			v.HasWeight = true
		}
	default:
		if v.Extra == nil {
			v.Extra = make(map[string]any)
		}
		v.Extra[key] = value
	}
}

// Get returns the value stored under an external key name and whether it was
// provided at all.
func (v VariableSet) Get(key string) (any, bool) {
	switch key {
	case KeyContainerID:
		return v.ContainerID, v.ContainerID != ""
	case KeyTransportationID:
		return v.TransportationID, v.TransportationID != ""
	case KeyOperationType:
		return v.OperationType, v.OperationType != ""
	case KeyStorageStatus:
		return v.StorageStatus, v.StorageStatus != ""
	case KeyCheckIn:
		return v.CheckIn, v.CheckIn != ""
	case KeyCheckOut:
		return v.CheckOut, v.CheckOut != ""
	case KeyWeight:
		return v.Weight, v.HasWeight
	default:
		val, ok := v.Extra[key]
		return val, ok
	}
}

// Provided reports whether a key holds a usable value: present and not the
// engine's sentinel placeholder.
func (v VariableSet) Provided(key string) bool {
	val, ok := v.Get(key)
	if !ok {
		return false
	}
	if s, isStr := val.(string); isStr && (s == "" || s == Sentinel) {
		return false
	}
	return true
}

// MarshalJSON emits the provided known fields under their external names
// plus every extension key.
func (v VariableSet) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(v.Extra)+7)
	for k, val := range v.Extra {
		out[k] = val
	}
	if v.ContainerID != "" {
		out[KeyContainerID] = v.ContainerID
	}
	if v.TransportationID != "" {
		out[KeyTransportationID] = v.TransportationID
	}
	if v.OperationType != "" {
		out[KeyOperationType] = v.OperationType
	}
	if v.HasWeight {
		out[KeyWeight] = v.Weight
	}
	if v.StorageStatus != "" {
		out[KeyStorageStatus] = v.StorageStatus
	}
	if v.CheckIn != "" {
		out[KeyCheckIn] = v.CheckIn
	}
	if v.CheckOut != "" {
		out[KeyCheckOut] = v.CheckOut
	}
	return json.Marshal(out)
}

// UnmarshalJSON fills the known fields from their external names and keeps
// the rest in Extra unchanged.
func (v *VariableSet) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("variable set must be a JSON object: %w", err)
	}
	*v = VariableSet{}
	for key, msg := range raw {
		var val any
		if err := json.Unmarshal(msg, &val); err != nil {
			return fmt.Errorf("variable %q: %w", key, err)
		}
		v.Set(key, val)
	}
	return nil
}

func toString(value any) string {
	switch s := value.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

func toFloat(value any) (float64, bool) {
	switch f := value.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	case int:
		return float64(f), true
	case int64:
		return float64(f), true
	case json.Number:
		parsed, err := f.Float64()
		return parsed, err == nil
	default:
		return 0, false
	}
}
