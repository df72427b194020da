package variables

// EntityFields is the store-side view of a variable set: known fields keyed
// by their column names, unrecognized keys passed through unchanged.
type EntityFields map[string]any

// Column names for the known fields.
const (
	FieldContainerID      = "container_id"
	FieldTransportationID = "transportation_id"
	FieldOperationType    = "operation_type"
	FieldWeight           = "weight"
	FieldStorageStatus    = "storage_status"
	FieldCheckIn          = "check_in"
	FieldCheckOut         = "check_out"
)

var internalToExternal = map[string]string{
	FieldContainerID:      KeyContainerID,
	FieldTransportationID: KeyTransportationID,
	FieldOperationType:    KeyOperationType,
	FieldWeight:           KeyWeight,
	FieldStorageStatus:    KeyStorageStatus,
	FieldCheckIn:          KeyCheckIn,
	FieldCheckOut:         KeyCheckOut,
}

// ToInternal maps a variable set to entity fields. Only provided known
// fields appear; extension keys are copied as-is.
func ToInternal(v VariableSet) EntityFields {
	out := make(EntityFields, len(v.Extra)+7)
	for k, val := range v.Extra {
		out[k] = val
	}
	if v.ContainerID != "" {
		out[FieldContainerID] = v.ContainerID
	}
	if v.TransportationID != "" {
		out[FieldTransportationID] = v.TransportationID
	}
	if v.OperationType != "" {
		out[FieldOperationType] = v.OperationType
	}
	if v.HasWeight {
		out[FieldWeight] = v.Weight
	}
	if v.StorageStatus != "" {
		out[FieldStorageStatus] = v.StorageStatus
	}
	if v.CheckIn != "" {
		out[FieldCheckIn] = v.CheckIn
	}
	if v.CheckOut != "" {
		out[FieldCheckOut] = v.CheckOut
	}
	return out
}

// ToExternal overlays entity fields onto a base variable set, translating
// column names back to their external spellings. Unrecognized keys pass
// through unchanged; nothing in the base is dropped.
func ToExternal(fields EntityFields, base VariableSet) VariableSet {
	out := base.Clone()
	for k, val := range fields {
		if ext, known := internalToExternal[k]; known {
			out.Set(ext, val)
			continue
		}
		out.Set(k, val)
	}
	return out
}
