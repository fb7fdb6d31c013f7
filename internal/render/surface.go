package render

import (
	"errors"
	"image"
	"sync"
	"time"
)

// ErrNotMounted is returned when rasterizing a surface that has nothing
// presented, or has been torn down.
var ErrNotMounted = errors.New("render surface not mounted")

// Surface holds the last input presented for display and can paint it
// offscreen. Safe for concurrent use: the editor presents while snapshot
// captures read.
type Surface struct {
	mu      sync.RWMutex
	in      Input
	mounted bool
}

func NewSurface() *Surface {
	return &Surface{}
}

// Present replaces the displayed input. Presenting mounts the surface.
func (s *Surface) Present(in Input) {
	if in.Drag != nil {
		drag := *in.Drag
		in.Drag = &drag
	}
	in.Scene.Elements = append(in.Scene.Elements[:0:0], in.Scene.Elements...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.in = in
	s.mounted = true
}

// Unmount tears the surface down. Later rasterizations fail.
func (s *Surface) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted = false
	s.in = Input{}
}

func (s *Surface) Mounted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mounted
}

// Input returns the presented input.
func (s *Surface) Input() (Input, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.in, s.mounted
}

// Rasterize paints the presented scene at its committed values, with no
// drag overlay or animation applied.
func (s *Surface) Rasterize() (image.Image, error) {
	in, ok := s.Input()
	if !ok {
		return nil, ErrNotMounted
	}
	if in.Scene.Canvas.Width < 1 || in.Scene.Canvas.Height < 1 {
		return nil, errors.Join(ErrNotMounted, errors.New("canvas has no area"))
	}
	return Rasterize(BuildFrame(Input{Scene: in.Scene}, nil, time.Time{})), nil
}
