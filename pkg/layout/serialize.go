package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Placed Graph
// =============================================================================

// Layout is the placed form of a graph, shared by every renderer and used as
// the cached and serialized layout artifact.
//
// Style selects which sizing fields are populated:
//
//	Simple ("simple"):
//	  - Radius: circle radius
//
//	Block ("block"):
//	  - BlockWidth, BlockHeight: block size
//	  - Position.TopX/TopY: block corners
//
// Shared fields (both styles):
//   - Width, Height: frame dimensions
//   - Scale, FontSize: element scaling
//   - Levels: level → node IDs in visit order
//   - Positions: node ID → center
type Layout struct {
	Style string `json:"style"`

	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Scale    float64 `json:"scale"`
	FontSize float64 `json:"font_size"`

	// Simple-specific
	Radius float64 `json:"radius,omitempty"`

	// Block-specific
	BlockWidth  float64 `json:"block_width,omitempty"`
	BlockHeight float64 `json:"block_height,omitempty"`

	Levels    LevelMap            `json:"levels"`
	Positions map[string]Position `json:"positions"`
}

// IsBlock returns true if this is a block layout.
func (l *Layout) IsBlock() bool { return l.Style == StyleBlock }

// Position returns the placement of a node.
func (l *Layout) Position(id string) (Position, bool) {
	p, ok := l.Positions[id]
	return p, ok
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates the style and that every leveled node has a position.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.Style == "" {
		l.Style = StyleSimple
	}
	if err := ValidateStyle(l.Style); err != nil {
		return Layout{}, err
	}
	if l.Levels == nil {
		l.Levels = LevelMap{}
	}
	if l.Positions == nil {
		l.Positions = map[string]Position{}
	}
	for _, ids := range l.Levels {
		for _, id := range ids {
			if _, ok := l.Positions[id]; !ok {
				return Layout{}, fmt.Errorf("layout has no position for node %q", id)
			}
		}
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
