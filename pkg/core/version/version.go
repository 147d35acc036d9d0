// ============================================================================
// Nexus Root - Game Scripting Engine
// ============================================================================
//
// Package:     version
// Description: Central version management for the engine and its surfaces
// Author:      Nexus Root Team
// Created:     2026-03-06
// License:     MIT
// ============================================================================

package version

import "fmt"

// Version constants
const (
	// Platform version
	Platform = "0.1.0"

	// Component versions
	Engine   = "0.1.0"
	Language = "0.1.0" // NexusScript grammar
	Server   = "0.1.0"
	Shell    = "0.1.0"
)

// Set at build time with -ldflags "-X github.com/nexusroot/nexus/pkg/core/version.Commit=..."
var (
	Commit    = "dev"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a component name
func ComponentVersion(name string) string {
	switch name {
	case "engine":
		return Engine
	case "nexusscript", "language":
		return Language
	case "server":
		return Server
	case "shell":
		return Shell
	default:
		return Platform
	}
}

// String returns a one-line version banner
func String() string {
	return fmt.Sprintf("nexus %s (commit %s, built %s)", Platform, Commit, BuildDate)
}
