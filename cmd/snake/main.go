// snake is the minimal host harness for the CPU core: it loads a
// program at the standard address, feeds it a random byte and the
// latest keypress through the conventional page-zero cells, and
// renders the 32x32 framebuffer the classic "snake" demo writes to
// 0x0200..0x0600.
//
// The core has no notion of any of this — addresses 0x00FE, 0x00FF and
// the framebuffer range are conventions this harness imposes from the
// outside, exactly as the teacher's VCS harness imposes TIA/PIA
// semantics on top of a CPU that only knows about a flat bus.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/draw"
	"io/ioutil"
	"log"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mkern/go6502snake/cpu"
	"github.com/mkern/go6502snake/memory"
)

var (
	program = flag.String("program", "", "Path to a raw 6502 binary to load. Defaults to a built-in snake program.")
	scale   = flag.Int("scale", 10, "Scale factor applied to the 32x32 framebuffer")
	speed   = flag.Int("speed", 1000, "Target instructions executed per second")
)

const (
	gridSize = 32

	randCellAddr = 0x00FE
	keyCellAddr  = 0x00FF
	fbStart      = 0x0200
	fbEnd        = 0x0600
)

// palette maps a framebuffer byte to a color, per the conventional
// 16-entry snake palette.
func palette(v uint8) color.RGBA {
	switch v {
	case 0:
		return color.RGBA{0, 0, 0, 255}
	case 1:
		return color.RGBA{255, 255, 255, 255}
	case 2, 9:
		return color.RGBA{128, 128, 128, 255}
	case 3, 10:
		return color.RGBA{255, 0, 0, 255}
	case 4, 11:
		return color.RGBA{0, 255, 0, 255}
	case 5, 12:
		return color.RGBA{0, 0, 255, 255}
	case 6, 13:
		return color.RGBA{255, 0, 255, 255}
	case 7, 14:
		return color.RGBA{255, 255, 0, 255}
	default:
		return color.RGBA{0, 255, 255, 255}
	}
}

// keyToASCII maps the four keys the demo understands to the ASCII byte
// the harness writes into 0x00FF, mirroring w/a/s/d = up/left/down/right.
func keyToASCII(code sdl.Keycode) (uint8, bool) {
	switch code {
	case sdl.K_w:
		return 0x77, true
	case sdl.K_a:
		return 0x61, true
	case sdl.K_s:
		return 0x73, true
	case sdl.K_d:
		return 0x64, true
	}
	return 0, false
}

// fastImage pokes pixel bytes directly into an SDL surface's backing
// buffer, the same shortcut the teacher's harness takes to avoid the
// per-pixel color.Color conversion overhead of Surface.Set.
type fastImage struct {
	surface *sdl.Surface
	data    []byte
	bpp     int32
}

func (f *fastImage) Set(x, y int, c color.Color) {
	i := int32(y)*f.surface.Pitch + int32(x)*f.bpp
	r, g, b, a := c.RGBA()
	f.data[i+0] = uint8(b >> 8)
	f.data[i+1] = uint8(g >> 8)
	f.data[i+2] = uint8(r >> 8)
	f.data[i+3] = uint8(a >> 8)
}

func (f *fastImage) ColorModel() color.Model { return f.surface.ColorModel() }
func (f *fastImage) Bounds() image.Rectangle { return f.surface.Bounds() }
func (f *fastImage) At(x, y int) color.Color { return f.surface.At(x, y) }

var _ draw.Image = (*fastImage)(nil)

func main() {
	flag.Parse()

	rom := builtinSnake
	if *program != "" {
		b, err := ioutil.ReadFile(*program)
		if err != nil {
			log.Fatalf("can't load %s: %v", *program, err)
		}
		rom = b
	}

	mem := memory.New()
	c := cpu.New(mem)
	c.Load(rom)
	c.Reset()

	face := basicfont.Face7x13

	w := int32(gridSize * *scale)
	h := int32(gridSize * *scale)

	var window *sdl.Window
	fi := &fastImage{}

	sdl.Main(func() {
		var wg sync.WaitGroup
		wg.Add(1)
		sdl.Do(func() {
			if err := sdl.Init(sdl.INIT_EVERYTHING); err != nil {
				log.Fatalf("can't init SDL: %v", err)
			}
			var err error
			window, err = sdl.CreateWindow("snake", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, w, h+int32(face.Height), sdl.WINDOW_SHOWN)
			if err != nil {
				log.Fatalf("can't create window: %v", err)
			}
			fi.surface, err = window.GetSurface()
			if err != nil {
				log.Fatalf("can't get window surface: %v", err)
			}
			fi.data = fi.surface.Pixels()
			fi.bpp = int32(fi.surface.Format.BytesPerPixel)
			wg.Done()
		})
		wg.Wait()
		defer func() {
			window.Destroy()
			sdl.Quit()
		}()

		rng := rand.New(rand.NewSource(1))
		ticks := 0
		frameInterval := time.Second / time.Duration(*speed)
		running := true
		for running {
			sdl.Do(func() {
				for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
					switch e := event.(type) {
					case *sdl.QuitEvent:
						running = false
					case *sdl.KeyboardEvent:
						if e.Type == sdl.KEYDOWN {
							if e.Keysym.Sym == sdl.K_ESCAPE {
								running = false
							} else if ascii, ok := keyToASCII(e.Keysym.Sym); ok {
								mem.Write8(keyCellAddr, ascii)
							}
						}
					}
				}
			})
			if !running {
				break
			}

			mem.Write8(randCellAddr, uint8(1+rng.Intn(15)))

			done, err := c.Step()
			if err != nil {
				log.Fatalf("step error: %v", err)
			}
			ticks++

			if done {
				running = false
				break
			}

			sdl.Do(func() {
				drawFramebuffer(mem, fi)
				drawHUD(fi, face, ticks)
				window.UpdateSurface()
			})

			time.Sleep(frameInterval)
		}
	})
}

// drawFramebuffer copies the 32x32 palette-indexed framebuffer at
// 0x0200..0x0600 onto the surface, scaled up by *scale.
func drawFramebuffer(mem *memory.Bus, fi *fastImage) {
	addr := uint16(fbStart)
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			c := palette(mem.Read8(addr))
			addr++
			for dy := 0; dy < *scale; dy++ {
				for dx := 0; dx < *scale; dx++ {
					fi.Set(x**scale+dx, y**scale+dy, c)
				}
			}
		}
	}
}

// drawHUD renders a single-line status strip below the playfield using
// a fixed-width bitmap font, purely cosmetic and independent of the
// CPU's own framebuffer conventions.
func drawHUD(fi *fastImage, face font.Face, ticks int) {
	base := gridSize * *scale
	for y := base; y < base+face.Metrics().Height.Ceil(); y++ {
		for x := 0; x < gridSize**scale; x++ {
			fi.Set(x, y, color.RGBA{0, 0, 0, 255})
		}
	}
	d := &font.Drawer{
		Dst:  fi,
		Src:  image.NewUniform(color.RGBA{0, 255, 0, 255}),
		Face: face,
		Dot:  fixed.P(2, base+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(ticksLabel(ticks))
}

func ticksLabel(ticks int) string {
	return "instructions: " + strconv.Itoa(ticks)
}
