// Package display implements a tile screen driven by an IntCode
// program, with a joystick the program can read.
package display

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"
)

// Tile is the content of one screen cell.
type Tile byte

const (
	Empty Tile = iota
	Wall
	Block
	Paddle
	Ball
)

var tileRunes = [...]rune{' ', '#', '=', '_', 'o'}

func (t Tile) String() string {
	if int(t) < len(tileRunes) {
		return string(tileRunes[t])
	}
	return fmt.Sprintf("tile(%d)", byte(t))
}

var palette = [...]color.RGBA{
	Empty:  {0x10, 0x10, 0x18, 0xff},
	Wall:   {0x80, 0x80, 0x90, 0xff},
	Block:  {0x30, 0x90, 0xe0, 0xff},
	Paddle: {0xf0, 0xf0, 0xf0, 0xff},
	Ball:   {0xf0, 0x60, 0x30, 0xff},
}

// Screen is an intcode.IO that displays tiles. The program writes
// triples of x, y and tile; the triple -1, 0, n sets the score to n.
// A read returns the joystick position: -1 left, 0 neutral, 1 right.
type Screen struct {
	// Joystick returns the joystick position for the next read.
	// If nil, Autopilot is used.
	Joystick func(*Screen) int64

	// Frame, if set, is called before each read, once the program has
	// drawn everything it wants shown.
	Frame func(*Screen)

	mu     sync.Mutex
	tiles  map[image.Point]Tile
	score  int64
	buf    []int64
	writes int // total count of tile writes
}

// New returns an empty Screen.
func New() *Screen {
	return &Screen{tiles: make(map[image.Point]Tile)}
}

func (s *Screen) Write(v int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, v)
	if len(s.buf) < 3 {
		return nil
	}
	x, y, t := s.buf[0], s.buf[1], s.buf[2]
	s.buf = s.buf[:0]
	if x == -1 && y == 0 {
		s.score = t
		return nil
	}
	if t < 0 || t >= int64(len(tileRunes)) {
		return fmt.Errorf("invalid tile %d at (%d, %d)", t, x, y)
	}
	s.tiles[image.Pt(int(x), int(y))] = Tile(t)
	s.writes++
	return nil
}

func (s *Screen) Read() (int64, error) {
	if s.Frame != nil {
		s.Frame(s)
	}
	if s.Joystick != nil {
		return s.Joystick(s), nil
	}
	return Autopilot(s), nil
}

// Autopilot moves the paddle towards the ball.
func Autopilot(s *Screen) int64 {
	ball, ok1 := s.Find(Ball)
	paddle, ok2 := s.Find(Paddle)
	if !ok1 || !ok2 {
		return 0
	}
	switch {
	case ball.X < paddle.X:
		return -1
	case ball.X > paddle.X:
		return 1
	}
	return 0
}

// Score returns the last score written by the program.
func (s *Screen) Score() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Writes returns the number of tiles drawn so far.
func (s *Screen) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Count returns the number of cells showing t.
func (s *Screen) Count(t Tile) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.tiles {
		if v == t {
			n++
		}
	}
	return n
}

// Find returns the position of a cell showing t.
func (s *Screen) Find(t Tile) (image.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for p, v := range s.tiles {
		if v == t {
			return p, true
		}
	}
	return image.Point{}, false
}

// Bounds returns the smallest rectangle containing every drawn cell.
func (s *Screen) Bounds() image.Rectangle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds()
}

func (s *Screen) bounds() image.Rectangle {
	var r image.Rectangle
	first := true
	for p := range s.tiles {
		cell := image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))}
		if first {
			r, first = cell, false
		} else {
			r = r.Union(cell)
		}
	}
	return r
}

// Image renders the screen with each cell scale pixels square.
func (s *Screen) Image(scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	s.mu.Lock()
	b := s.bounds()
	src := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(src, src.Bounds(), image.NewUniform(palette[Empty]), image.Point{}, draw.Src)
	for p, t := range s.tiles {
		if int(t) < len(palette) {
			src.SetRGBA(p.X-b.Min.X, p.Y-b.Min.Y, palette[t])
		}
	}
	s.mu.Unlock()

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	if b.Empty() {
		return dst
	}
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func (s *Screen) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	fmt.Fprintf(&b, "score: %d\n", s.score)
	r := s.bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			b.WriteString(s.tiles[image.Pt(x, y)].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
