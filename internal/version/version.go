// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Noise view with 3D slices, rebuild key, build event log
// 0.2.0 - Synthetic catalogs, OBJ/JSON export, noise profile plots
// 0.1.0 - Initial release: gradient noise, starfield mesh builder, sky preview, headless modes
