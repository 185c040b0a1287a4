package models

import (
	"strings"

	"go.trai.ch/zerr"
)

// InstallEnvironment identifies which declared dependency list a package came from.
//
// It is a closed set: the zero value is invalid and only EnvironmentRequired and
// EnvironmentDev are ever produced by this package.
type InstallEnvironment uint8

const (
	// EnvironmentRequired marks a runtime ("required") dependency.
	EnvironmentRequired InstallEnvironment = iota + 1
	// EnvironmentDev marks a development-only dependency.
	EnvironmentDev
)

// ErrUnknownEnvironment is returned when parsing a tag other than "required" or "dev".
var ErrUnknownEnvironment = zerr.New("unknown install environment")

// InstallEnvironments lists every environment in classification order.
func InstallEnvironments() []InstallEnvironment {
	return []InstallEnvironment{EnvironmentRequired, EnvironmentDev}
}

// String returns the lower-case tag used in reports and telemetry
func (e InstallEnvironment) String() string {
	switch e {
	case EnvironmentRequired:
		return "required"
	case EnvironmentDev:
		return "dev"
	default:
		return "unknown"
	}
}

// IsValid reports whether e is one of the two defined environments
func (e InstallEnvironment) IsValid() bool {
	return e == EnvironmentRequired || e == EnvironmentDev
}

// MarshalText implements encoding.TextMarshaler
func (e InstallEnvironment) MarshalText() ([]byte, error) {
	if !e.IsValid() {
		return nil, zerr.With(zerr.Wrap(ErrUnknownEnvironment, "cannot marshal install environment"), "value", int(e))
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (e *InstallEnvironment) UnmarshalText(text []byte) error {
	parsed, err := ParseInstallEnvironment(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// ParseInstallEnvironment converts "required" or "dev" (case-insensitive) to an InstallEnvironment.
func ParseInstallEnvironment(s string) (InstallEnvironment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "required":
		return EnvironmentRequired, nil
	case "dev":
		return EnvironmentDev, nil
	default:
		return 0, zerr.With(zerr.Wrap(ErrUnknownEnvironment, "failed to parse install environment"), "value", s)
	}
}
