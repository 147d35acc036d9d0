// ============================================================================
// Nexus Root - Game Scripting Engine
// ============================================================================
//
// Package:     world
// Description: Virtual filesystem and network seen by every player
// Author:      Nexus Root Team
// Created:     2026-03-11
// License:     MIT
// ============================================================================

// Package world loads the virtual filesystem and network from YAML. The
// built-in world is embedded; a world file named in the configuration
// replaces it and is reloaded when it changes on disk.
package world

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
)

//go:embed world.yaml
var defaultWorld []byte

// File is one entry of the virtual filesystem
type File struct {
	Name    string `yaml:"name" json:"name"`
	Content string `yaml:"content" json:"content"`
	Size    int    `yaml:"size,omitempty" json:"size"`
	Mode    string `yaml:"mode,omitempty" json:"mode"`
}

// Port is an open port reported by scans
type Port struct {
	Number  int    `yaml:"port" json:"port"`
	Service string `yaml:"service" json:"service"`
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
}

// Host is a reachable machine on the virtual network
type Host struct {
	Address  string `yaml:"address" json:"address"`
	Hostname string `yaml:"hostname,omitempty" json:"hostname,omitempty"`
}

// World is an immutable view of the virtual environment
type World struct {
	Files []File `yaml:"files"`
	Ports []Port `yaml:"ports"`
	Hosts []Host `yaml:"hosts"`

	byName map[string]int
}

// Default returns the embedded world
func Default() *World {
	w, err := Parse(defaultWorld)
	if err != nil {
		panic(fmt.Sprintf("embedded world is invalid: %v", err))
	}
	return w
}

// Parse decodes and validates a YAML world definition
func Parse(data []byte) (*World, error) {
	var w World
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, nxerror.Wrap(err, "failed to parse world").WithCode(nxerror.CodeConfig)
	}
	if err := w.init(); err != nil {
		return nil, err
	}
	return &w, nil
}

// LoadFile reads a world definition from disk
func LoadFile(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nxerror.Wrap(err, "failed to read world file").WithCode(nxerror.CodeConfig)
	}
	return Parse(data)
}

func (w *World) init() error {
	w.byName = make(map[string]int, len(w.Files))
	for i := range w.Files {
		f := &w.Files[i]
		f.Name = strings.TrimSpace(f.Name)
		if f.Name == "" {
			return nxerror.Newf(nxerror.CodeConfig, "world file %d has no name", i+1)
		}
		if _, dup := w.byName[f.Name]; dup {
			return nxerror.Newf(nxerror.CodeConfig, "duplicate world file %q", f.Name)
		}
		if f.Size == 0 {
			f.Size = 1024
		}
		if f.Mode == "" {
			f.Mode = "-rw-r--r--"
		}
		w.byName[f.Name] = i
	}
	for _, p := range w.Ports {
		if p.Number < 1 || p.Number > 65535 {
			return nxerror.Newf(nxerror.CodeConfig, "invalid port %d", p.Number)
		}
	}
	return nil
}

// FileNames returns the file names in listing order
func (w *World) FileNames() []string {
	names := make([]string, len(w.Files))
	for i, f := range w.Files {
		names[i] = f.Name
	}
	return names
}

// Read returns the content of name
func (w *World) Read(name string) (string, bool) {
	i, ok := w.byName[name]
	if !ok {
		return "", false
	}
	return w.Files[i].Content, true
}

// Listing renders the filesystem the way ls does
func (w *World) Listing(long bool) string {
	if !long {
		return strings.Join(w.FileNames(), "  ")
	}
	var b strings.Builder
	b.WriteString("total 4\n")
	b.WriteString("drwxr-xr-x  2 nexus nexus  4096 Oct 17 12:00 .\n")
	b.WriteString("drwxr-xr-x  3 nexus nexus  4096 Oct 17 11:00 ..\n")
	for _, f := range w.Files {
		fmt.Fprintf(&b, "%s  1 nexus nexus  %4d Oct 17 12:00 %s\n", f.Mode, f.Size, f.Name)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Host looks up a host by address
func (w *World) Host(address string) (Host, bool) {
	for _, h := range w.Hosts {
		if h.Address == address {
			return h, true
		}
	}
	return Host{}, false
}

// ScanReport renders the open-port table for target
func (w *World) ScanReport(target string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scanning %s...\n", target)
	b.WriteString("PORT     STATE    SERVICE\n")
	for _, p := range w.Ports {
		fmt.Fprintf(&b, "%d/tcp  open     %s\n", p.Number, p.Service)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// PortNumbers returns the open port numbers
func (w *World) PortNumbers() []int {
	out := make([]int, len(w.Ports))
	for i, p := range w.Ports {
		out[i] = p.Number
	}
	return out
}
