package display

import (
	"errors"
	"image"
	"image/draw"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

// ErrClosed is returned by RunGUI if the window is closed before the
// program halts.
var ErrClosed = errors.New("window closed")

const (
	cellPx     = 8                     // size of a tile in texture pixels
	frameDelay = 20 * time.Millisecond // pause before each joystick read
)

// RunGUI shows s in a window while run executes the program that
// drives it, and returns the error returned by run. If manual is set
// the left and right arrow keys move the joystick; otherwise the
// Autopilot plays.
func RunGUI(s *Screen, manual bool, run func() error) error {
	var (
		runErr, guiErr error
		stick          atomic.Int64
	)
	exit := make(chan bool)
	if manual {
		s.Joystick = func(*Screen) int64 { return stick.Load() }
	}
	s.Frame = func(*Screen) { time.Sleep(frameDelay) }
	go func() {
		runErr = run()
		close(exit)
	}()

	driver.Main(func(scr screen.Screen) {
		w, err := scr.NewWindow(&screen.NewWindowOptions{Title: "intcode"})
		if err != nil {
			guiErr = err
			return
		}
		defer w.Release()

		type update struct{}
		done := make(chan bool)
		defer close(done)
		go func() {
			t := time.NewTicker(time.Second / 60)
			defer t.Stop()
			for {
				select {
				case <-t.C:
					w.Send(update{})
				case <-done:
					return
				}
			}
		}()

		g := &gui{Screen: s}
		defer g.release()

		var sz size.Event
		for {
			e := w.NextEvent()

			select {
			case <-exit:
				return
			default:
			}

			switch e := e.(type) {
			case size.Event:
				sz = e
				if sz.WidthPx+sz.HeightPx == 0 {
					return
				}
				g.dirty = true

			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}

			case key.Event:
				if e.Code == key.CodeEscape {
					return
				}
				if !manual {
					break
				}
				var dir int64
				switch e.Code {
				case key.CodeLeftArrow:
					dir = -1
				case key.CodeRightArrow:
					dir = 1
				default:
					continue
				}
				switch e.Direction {
				case key.DirPress:
					stick.Store(dir)
				case key.DirRelease:
					if stick.Load() == dir {
						stick.Store(0)
					}
				}

			case paint.Event:
				g.dirty = true

			case update:
				if err := g.update(scr); err != nil {
					guiErr = err
					return
				}
				if g.dirty && g.tex != nil {
					w.Scale(sz.Bounds(), g.tex, g.tex.Bounds(), draw.Src, nil)
					w.Publish()
					g.dirty = false
				}

			case error:
				log.Print(e)
			}
		}
	})

	select {
	case <-exit:
		return runErr
	default:
	}
	if guiErr != nil {
		return guiErr
	}
	return ErrClosed
}

type gui struct {
	*Screen

	size   image.Point
	buf    screen.Buffer
	tex    screen.Texture
	writes int // updated to match Screen.Writes after uploading
	dirty  bool
}

func (g *gui) update(s screen.Screen) (err error) {
	w := g.Writes()
	if w == g.writes && g.tex != nil {
		return nil
	}
	m := g.Image(cellPx)
	size := m.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		return nil
	}
	if g.tex == nil || g.size != size {
		g.release()
		g.size = size
		if g.buf, err = s.NewBuffer(size); err != nil {
			return err
		}
		if g.tex, err = s.NewTexture(size); err != nil {
			return err
		}
	}
	copy(g.buf.RGBA().Pix, m.Pix)
	g.tex.Upload(image.Point{}, g.buf, g.buf.Bounds())
	g.writes = w
	g.dirty = true
	return nil
}

func (g *gui) release() {
	if g.tex != nil {
		g.tex.Release()
		g.tex = nil
	}
	if g.buf != nil {
		g.buf.Release()
		g.buf = nil
	}
}
