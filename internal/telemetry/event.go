// Package telemetry builds, validates and sends the anonymized usage event
// that carries the dependency inventory.
package telemetry

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/ethanolivertroy/dep-inventory/internal/models"
)

const (
	// EventName is the usage event emitted when a data context starts
	EventName = "data_context.__init__"

	// SchemaVersion is the version field of every event
	SchemaVersion = "1.0.0"

	// salt prefixes every anonymized value
	salt = "dep-inventory"
)

// Event is the JSON document posted to the usage statistics endpoint
type Event struct {
	Event                 string  `json:"event"`
	EventPayload          Payload `json:"event_payload"`
	EventTime             string  `json:"event_time"`
	DataContextID         string  `json:"data_context_id"`
	DataContextInstanceID string  `json:"data_context_instance_id"`
	Version               string  `json:"version"`
}

// Payload is the event_payload object
type Payload struct {
	AnonymizedExecutionEnvironment ExecutionEnvironment `json:"anonymized_execution_environment"`
}

// ExecutionEnvironment lists the dependency inventory
type ExecutionEnvironment struct {
	Dependencies []Dependency `json:"dependencies"`
}

// Dependency is one inventory record as sent. Names and versions are public
// package metadata and are not hashed.
type Dependency struct {
	PackageName        string  `json:"package_name"`
	Installed          bool    `json:"installed"`
	InstallEnvironment string  `json:"install_environment"`
	Version            *string `json:"version"`
}

// NewEvent builds the usage event for deps. The data context id is anonymized;
// the instance id is derived from it and now.
func NewEvent(deps []models.PackageInfo, dataContextID string, now time.Time) *Event {
	out := make([]Dependency, 0, len(deps))
	for _, d := range deps {
		rec := Dependency{
			PackageName:        d.PackageName,
			Installed:          d.Installed,
			InstallEnvironment: d.InstallEnvironment.String(),
		}
		if d.Version != nil {
			v := d.VersionString()
			rec.Version = &v
		}
		out = append(out, rec)
	}

	now = now.UTC()
	return &Event{
		Event: EventName,
		EventPayload: Payload{
			AnonymizedExecutionEnvironment: ExecutionEnvironment{Dependencies: out},
		},
		EventTime:             now.Format("2006-01-02T15:04:05.000Z"),
		DataContextID:         Anonymize(dataContextID),
		DataContextInstanceID: Anonymize(dataContextID + "/" + strconv.FormatInt(now.UnixNano(), 10)),
		Version:               SchemaVersion,
	}
}

// Anonymize returns the salted 64-bit xxhash of value as 16 hex digits
func Anonymize(value string) string {
	h := xxhash.New()
	_, _ = h.WriteString(salt)
	_, _ = h.WriteString(value)
	return fmt.Sprintf("%016x", h.Sum64())
}
