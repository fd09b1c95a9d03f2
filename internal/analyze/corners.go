package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"chessboard-scan/pkg/geometry"
)

// Corner selection errors. Callers distinguish a bad selection from an
// abandoned one with errors.Is.
var (
	// ErrCornerCount reports a selection without exactly four points.
	ErrCornerCount = errors.New("exactly four corner points are required")

	// ErrCanceled reports an interactive selection abandoned by the user.
	ErrCanceled = errors.New("corner selection canceled")
)

// CornerSource yields the four board corners for a run. Implementations
// range from hard-coded test fixtures to the interactive picker; the
// pipeline treats them all the same. Blocking sources honor ctx.
type CornerSource interface {
	Corners(ctx context.Context) (geometry.Quad, error)
}

// FixedCorners serves a predetermined point list, in any order.
type FixedCorners []geometry.Point2D

// Corners orders the point list into a Quad.
func (f FixedCorners) Corners(_ context.Context) (geometry.Quad, error) {
	if len(f) != 4 {
		return geometry.Quad{}, fmt.Errorf("%w: got %d", ErrCornerCount, len(f))
	}
	return geometry.OrderCorners(f)
}

// cornerFile is the on-disk corner selection format.
type cornerFile struct {
	Version int                `json:"version"`
	Points  []geometry.Point2D `json:"points"`
}

// FileCorners loads a previously saved corner selection.
type FileCorners string

// Corners reads and orders the saved point list.
func (f FileCorners) Corners(_ context.Context) (geometry.Quad, error) {
	data, err := os.ReadFile(string(f))
	if err != nil {
		return geometry.Quad{}, fmt.Errorf("failed to read corner file: %w", err)
	}

	var cf cornerFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return geometry.Quad{}, fmt.Errorf("failed to parse corner file %s: %w", f, err)
	}
	if len(cf.Points) != 4 {
		return geometry.Quad{}, fmt.Errorf("%w: %s holds %d", ErrCornerCount, f, len(cf.Points))
	}
	return geometry.OrderCorners(cf.Points)
}

// ParsePoints parses a semicolon-separated point list such as
// "12,34;560,28;18,590;572,601". It does not enforce a point count;
// FixedCorners does that when the pipeline runs.
func ParsePoints(s string) ([]geometry.Point2D, error) {
	parts := strings.Split(s, ";")
	pts := make([]geometry.Point2D, 0, len(parts))
	for _, part := range parts {
		coords := strings.Split(strings.TrimSpace(part), ",")
		if len(coords) != 2 {
			return nil, fmt.Errorf("bad point %q: want x,y", part)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad x in %q: %w", part, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad y in %q: %w", part, err)
		}
		pts = append(pts, geometry.Point2D{X: x, Y: y})
	}
	return pts, nil
}

// SaveCorners writes a corner selection for later FileCorners runs.
func SaveCorners(path string, quad geometry.Quad) error {
	data, err := json.MarshalIndent(cornerFile{Version: 1, Points: quad.Points()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode corners: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write corners: %w", err)
	}
	return nil
}
