// Package build holds build-time information.
package build

// Version is the application version, set with -ldflags "-X".
var Version = "dev"
