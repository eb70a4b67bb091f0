package display

import (
	"image"
	"testing"

	"github.com/nf/intcode/intcode"
)

func write(t *testing.T, s *Screen, vs ...int64) {
	t.Helper()
	for _, v := range vs {
		if err := s.Write(v); err != nil {
			t.Fatalf("Write(%d): %v", v, err)
		}
	}
}

func TestScreenWrite(t *testing.T) {
	s := New()
	write(t, s,
		0, 0, 1,
		1, 0, 1,
		2, 0, 1,
		1, 1, 2,
		1, 2, 3,
		2, 1, 4,
		-1, 0, 12345,
	)
	if g, w := s.Score(), int64(12345); g != w {
		t.Errorf("Score() = %d, want %d", g, w)
	}
	if g, w := s.Writes(), 6; g != w {
		t.Errorf("Writes() = %d, want %d", g, w)
	}
	for tile, want := range map[Tile]int{Wall: 3, Block: 1, Paddle: 1, Ball: 1, Empty: 0} {
		if g := s.Count(tile); g != want {
			t.Errorf("Count(%v) = %d, want %d", tile, g, want)
		}
	}
	if p, ok := s.Find(Ball); !ok || p != image.Pt(2, 1) {
		t.Errorf("Find(Ball) = %v, %v; want (2,1), true", p, ok)
	}
	if g, w := s.Bounds(), image.Rect(0, 0, 3, 3); g != w {
		t.Errorf("Bounds() = %v, want %v", g, w)
	}
	want := "score: 12345\n" +
		"###\n" +
		" =o\n" +
		" _ \n"
	if g := s.String(); g != want {
		t.Errorf("String() = %q, want %q", g, want)
	}

	// Overwriting a cell replaces its tile.
	write(t, s, 1, 1, 0)
	if g := s.Count(Block); g != 0 {
		t.Errorf("Count(Block) after clearing = %d, want 0", g)
	}
}

func TestScreenInvalidTile(t *testing.T) {
	s := New()
	write(t, s, 3, 4)
	if err := s.Write(9); err == nil {
		t.Errorf("Write of tile 9 succeeded")
	}
	// The bad triple is discarded.
	write(t, s, 0, 0, 1)
	if g := s.Count(Wall); g != 1 {
		t.Errorf("Count(Wall) = %d, want 1", g)
	}
}

func TestAutopilot(t *testing.T) {
	for _, c := range []struct {
		ball, paddle int64
		want         int64
	}{
		{1, 5, -1},
		{5, 1, 1},
		{3, 3, 0},
	} {
		s := New()
		write(t, s, c.ball, 2, int64(Ball), c.paddle, 5, int64(Paddle))
		if g := Autopilot(s); g != c.want {
			t.Errorf("ball at %d, paddle at %d: Autopilot() = %d, want %d", c.ball, c.paddle, g, c.want)
		}
	}
	if g := Autopilot(New()); g != 0 {
		t.Errorf("Autopilot() on empty screen = %d, want 0", g)
	}
}

func TestScreenRead(t *testing.T) {
	s := New()
	frames := 0
	s.Frame = func(*Screen) { frames++ }
	s.Joystick = func(*Screen) int64 { return 1 }
	if v, err := s.Read(); err != nil || v != 1 {
		t.Errorf("Read() = %d, %v; want 1", v, err)
	}
	if frames != 1 {
		t.Errorf("Frame called %d times, want 1", frames)
	}
}

func TestScreenImage(t *testing.T) {
	s := New()
	if b := s.Image(4).Bounds(); !b.Empty() {
		t.Errorf("Image of empty screen has bounds %v", b)
	}
	write(t, s, 5, 5, int64(Wall), 6, 6, int64(Ball))
	m := s.Image(4)
	if g, w := m.Bounds(), image.Rect(0, 0, 8, 8); g != w {
		t.Fatalf("Image(4).Bounds() = %v, want %v", g, w)
	}
	for _, c := range []struct {
		x, y int
		tile Tile
	}{
		{0, 0, Wall},
		{3, 3, Wall},
		{4, 0, Empty},
		{0, 7, Empty},
		{4, 4, Ball},
		{7, 7, Ball},
	} {
		if g, w := m.RGBAAt(c.x, c.y), palette[c.tile]; g != w {
			t.Errorf("pixel (%d,%d) = %v, want %v (%v)", c.x, c.y, g, w, c.tile)
		}
	}
}

// game draws a wall, a paddle and a ball, reads the joystick once,
// writes the joystick value as the score and halts.
var game = intcode.Memory{
	104, 0, 104, 0, 104, 1, // wall at (0,0)
	104, 1, 104, 1, 104, 3, // paddle at (1,1)
	104, 4, 104, 0, 104, 4, // ball at (4,0)
	3, 100, // in @100
	104, -1, 104, 0, 4, 100, // score = @100
	99,
}

func TestScreenMachine(t *testing.T) {
	s := New()
	mem := game.Clone()
	mem.Extend(101)
	m := intcode.NewMachine(s, mem)
	if err := m.Run(); err != nil {
		t.Fatal(err)
	}
	if g := s.Score(); g != 1 {
		t.Errorf("Score() = %d, want 1 (autopilot moving right)", g)
	}
	if g, w := s.Writes(), 3; g != w {
		t.Errorf("Writes() = %d, want %d", g, w)
	}
}
