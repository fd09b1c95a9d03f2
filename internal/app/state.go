// Package app provides shared application state and lifecycle helpers
// for the scanner windows.
package app

import (
	goimage "image"
	"sync"

	"chessboard-scan/internal/analyze"
	"chessboard-scan/internal/config"
	boardimage "chessboard-scan/internal/image"
	"chessboard-scan/pkg/geometry"
)

// EventType identifies application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventCornersSelected
	EventScanComplete
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the scan session: the loaded photo, the confirmed corner
// selection, and the most recent pipeline result.
type State struct {
	mu sync.RWMutex

	imagePath string
	image     goimage.Image

	corners *geometry.Quad
	result  *analyze.Result

	// Config is rebuilt from preferences before each run.
	Config config.Config

	listeners map[EventType][]EventListener
}

// NewState creates session state with the default configuration.
func NewState() *State {
	return &State{
		Config:    config.Default(),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadImage decodes a board photo and makes it the current one. Any
// previous corner selection and result are discarded.
func (s *State) LoadImage(path string) error {
	img, err := boardimage.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.imagePath = path
	s.image = img
	s.corners = nil
	s.result = nil
	s.mu.Unlock()

	s.Emit(EventImageLoaded, path)
	return nil
}

// CurrentImage returns the loaded photo and its path, or "" and nil.
func (s *State) CurrentImage() (string, goimage.Image) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.imagePath, s.image
}

// SetCorners stores the confirmed corner selection.
func (s *State) SetCorners(quad geometry.Quad) {
	s.mu.Lock()
	s.corners = &quad
	s.mu.Unlock()

	s.Emit(EventCornersSelected, quad)
}

// Corners returns the confirmed selection, or nil before one exists.
func (s *State) Corners() *geometry.Quad {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.corners == nil {
		return nil
	}
	quad := *s.corners
	return &quad
}

// SetResult stores a completed pipeline run.
func (s *State) SetResult(res *analyze.Result) {
	s.mu.Lock()
	s.result = res
	s.mu.Unlock()

	s.Emit(EventScanComplete, res)
}

// Result returns the most recent pipeline run, or nil.
func (s *State) Result() *analyze.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}
