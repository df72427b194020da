package models

import (
	"time"
)

// TimestampLayout is the fixed pattern used for check-in/check-out values
// exchanged with the workflow engine.
const TimestampLayout = "2006-01-02 15:04:05"

// Storage statuses. "complete" is terminal.
const (
	StorageIncomplete = "incomplete"
	StorageComplete   = "complete"
)

// Operation types carried on container rows.
const (
	OperationLoading   = "loading"
	OperationUnloading = "unloading"
)

// Container is a container row as seeded externally. The core never creates
// or deletes containers.
type Container struct {
	ContainerID   string  `json:"container_id"`
	OperationType string  `json:"operation_type"`
	Weight        float64 `json:"weight"`
}

// StorageRecord tracks where a container stands in the yard. One record per
// container; status only ever moves incomplete -> complete.
type StorageRecord struct {
	StorageID     string `json:"storage_id"`
	ContainerID   string `json:"container_id"`
	StorageStatus string `json:"storage_status"`
}

// TransportMean is a truck or ship assignment for a container. The
// transportation_id prefix ("truck"/"ship") decides whether the gate
// timestamps apply.
type TransportMean struct {
	TransportationID string     `json:"transportation_id"`
	ContainerID      string     `json:"container_id"`
	StorageID        string     `json:"storage_id"`
	CheckIn          *time.Time `json:"check_in,omitempty"`
	CheckOut         *time.Time `json:"check_out,omitempty"`
}

// ProcessInstance is the audit row for one workflow run, keyed by the
// engine-issued process instance key.
type ProcessInstance struct {
	ProcessInstanceKey int64  `json:"process_instance_key"`
	Description        string `json:"description"`
}

// ContainerDetail is the joined view a handler reads: the container row plus
// whatever storage and transport rows reference it.
type ContainerDetail struct {
	ContainerID      string     `json:"container_id"`
	OperationType    string     `json:"operation_type"`
	Weight           float64    `json:"weight"`
	StorageID        string     `json:"storage_id,omitempty"`
	StorageStatus    string     `json:"storage_status,omitempty"`
	TransportationID string     `json:"transportation_id,omitempty"`
	CheckIn          *time.Time `json:"check_in,omitempty"`
	CheckOut         *time.Time `json:"check_out,omitempty"`
}

// TransportAssignment is one row of the transport/container/storage join used
// to rebuild startable scenarios.
type TransportAssignment struct {
	ContainerID      string     `json:"container_id"`
	OperationType    string     `json:"operation_type"`
	Weight           float64    `json:"weight"`
	TransportationID string     `json:"transportation_id"`
	StorageStatus    string     `json:"storage_status"`
	CheckIn          *time.Time `json:"check_in,omitempty"`
	CheckOut         *time.Time `json:"check_out,omitempty"`
}

// IsTruck reports whether the transportation id names a truck.
func (a *TransportAssignment) IsTruck() bool {
	return len(a.TransportationID) >= 5 && a.TransportationID[:5] == "truck"
}

// ActiveOperation is a row of the active_operations view: a container whose
// storage is not yet complete.
type ActiveOperation struct {
	ContainerID      string  `json:"container_id"`
	OperationType    string  `json:"operation_type"`
	Weight           float64 `json:"weight"`
	StorageID        string  `json:"storage_id"`
	StorageStatus    string  `json:"storage_status"`
	TransportationID string  `json:"transportation_id"`
}
