// Package render draws a mission state as a top-down debug frame.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"sea-game/internal/mission"
)

// Weather tints the sky and sea. It has no gameplay effect.
type Weather struct {
	ID           string
	SkyTint      string
	FogTint      string
	WaveStrength float64
}

// Patterns rotate by seed and day.
var Patterns = []Weather{
	{ID: "dawn", SkyTint: "#ffc387", FogTint: "#8fa3c6", WaveStrength: 0.6},
	{ID: "noon", SkyTint: "#8fd3ff", FogTint: "#bfd6ff", WaveStrength: 0.8},
	{ID: "storm", SkyTint: "#2e3a50", FogTint: "#1f1f2b", WaveStrength: 1.15},
	{ID: "sunset", SkyTint: "#ff7a45", FogTint: "#362c3a", WaveStrength: 0.9},
}

// PickWeather returns the pattern for a seed on a given day.
func PickWeather(seed uint64, day int) Weather {
	n := uint64(len(Patterns))
	return Patterns[(seed%n+uint64(day)*3)%n]
}

var (
	sandColor   = color.RGBA{232, 208, 150, 255}
	cliffColor  = color.RGBA{120, 98, 80, 255}
	waterColor  = color.RGBA{40, 110, 170, 255}
	policeColor = color.RGBA{60, 120, 255, 90}
	playerColor = color.RGBA{255, 255, 255, 255}
	deviceColor = color.RGBA{255, 215, 0, 255}
	inkColor    = color.RGBA{20, 25, 35, 255}
)

var behaviorColors = map[mission.Behavior]color.RGBA{
	mission.BehaviorPatrol:      {70, 70, 80, 255},
	mission.BehaviorChase:       {220, 40, 40, 255},
	mission.BehaviorInvestigate: {240, 150, 30, 255},
	mission.BehaviorRecover:     {140, 140, 160, 255},
}

var toneColors = map[mission.Tone]color.RGBA{
	mission.ToneAlert:   {255, 62, 62, 255},
	mission.ToneSuccess: {83, 220, 69, 255},
	mission.ToneIntel:   {240, 240, 240, 255},
}

// Renderer draws frames at a fixed output size. The world is scaled to fit.
type Renderer struct {
	width, height int
}

// New returns a renderer for width×height frames. Non-positive sizes fall
// back to the world size.
func New(width, height int) *Renderer {
	if width <= 0 || height <= 0 {
		width, height = mission.MapWidth, mission.MapHeight
	}
	return &Renderer{width: width, height: height}
}

// Frame draws s into a new image.
func (r *Renderer) Frame(s mission.State) image.Image {
	dc := gg.NewContext(r.width, r.height)
	dc.SetFontFace(basicfont.Face7x13)

	dc.Push()
	dc.Scale(float64(r.width)/mission.MapWidth, float64(r.height)/mission.MapHeight)
	weather := PickWeather(s.Seed, s.DayIndex)
	r.drawTerrain(dc, s, weather)
	r.drawStructures(dc, s.Structures)
	r.drawPoliceZone(dc, s.PoliceZone)
	r.drawPulses(dc, s.Pulses)
	r.drawDevice(dc, s.Device)
	r.drawSuits(dc, s.Suits)
	r.drawPlayer(dc, s.Player)
	dc.Pop()

	r.drawHUD(dc, s, weather)
	return dc.Image()
}

// EncodePNG writes the frame for s as PNG.
func (r *Renderer) EncodePNG(w io.Writer, s mission.State) error {
	if err := png.Encode(w, r.Frame(s)); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	return nil
}

func (r *Renderer) drawTerrain(dc *gg.Context, s mission.State, w Weather) {
	sky := parseHexColor(w.SkyTint)

	dc.SetColor(blend(cliffColor, sky, 0.35))
	dc.DrawRectangle(0, 0, mission.MapWidth, mission.CliffLine)
	dc.Fill()

	dc.SetColor(blend(sandColor, sky, 0.15))
	dc.DrawRectangle(0, mission.CliffLine, mission.MapWidth, mission.WaterLine-mission.CliffLine)
	dc.Fill()

	dc.SetColor(blend(waterColor, parseHexColor(w.FogTint), 0.25))
	dc.DrawRectangle(0, mission.WaterLine, mission.MapWidth, mission.MapHeight-mission.WaterLine)
	dc.Fill()

	// Surf line moves with the tide
	surf := mission.WaterLine + (s.TideLevel-mission.TideMean)*40
	dc.SetColor(color.RGBA{255, 255, 255, 140})
	dc.SetLineWidth(2 * w.WaveStrength)
	dc.DrawLine(0, surf, mission.MapWidth, surf)
	dc.Stroke()
}

func (r *Renderer) drawStructures(dc *gg.Context, structures []mission.Structure) {
	for _, st := range structures {
		switch st.Kind {
		case mission.StructureRock:
			dc.SetColor(color.RGBA{105, 100, 95, 255})
			dc.DrawCircle(st.Position.X, st.Position.Y, st.Size/2)
		case mission.StructureLifeguard:
			dc.SetColor(color.RGBA{200, 60, 50, 255})
			dc.DrawRectangle(st.Position.X-st.Size/2, st.Position.Y-st.Size/2, st.Size, st.Size)
		case mission.StructureFlag:
			dc.SetColor(color.RGBA{250, 80, 80, 255})
			dc.DrawRectangle(st.Position.X-1, st.Position.Y-st.Size*2, 2, st.Size*2)
		case mission.StructureBuoy:
			dc.SetColor(color.RGBA{255, 130, 0, 255})
			dc.DrawCircle(st.Position.X, st.Position.Y, st.Size/2)
		default:
			dc.SetColor(color.RGBA{130, 95, 60, 255})
			dc.DrawRectangle(st.Position.X-st.Size/2, st.Position.Y-3, st.Size, 6)
		}
		dc.Fill()
	}
}

func (r *Renderer) drawPoliceZone(dc *gg.Context, z mission.PoliceZone) {
	dc.SetColor(policeColor)
	dc.DrawCircle(z.Position.X, z.Position.Y, z.Radius)
	dc.Fill()
	dc.SetColor(color.RGBA{60, 120, 255, 255})
	dc.SetLineWidth(2)
	dc.DrawCircle(z.Position.X, z.Position.Y, z.Radius)
	dc.Stroke()
}

func (r *Renderer) drawPulses(dc *gg.Context, pulses []mission.Pulse) {
	for _, p := range pulses {
		alpha := uint8(math.Round(255 * math.Max(0, math.Min(1, p.Strength))))
		if p.Kind == mission.PulsePing {
			dc.SetColor(color.RGBA{120, 255, 220, alpha})
		} else {
			dc.SetColor(color.RGBA{255, 255, 255, alpha})
		}
		dc.SetLineWidth(2)
		dc.DrawCircle(p.Position.X, p.Position.Y, p.Radius)
		dc.Stroke()
	}
}

// drawDevice shows the device only once it has been located and until it
// is picked up.
func (r *Renderer) drawDevice(dc *gg.Context, d mission.Device) {
	if !d.Located || d.Retrieved {
		return
	}
	dc.SetColor(deviceColor)
	dc.DrawRectangle(d.Position.X-4, d.Position.Y-7, 8, 14)
	dc.Fill()
	dc.SetColor(inkColor)
	dc.SetLineWidth(1)
	dc.DrawCircle(d.Position.X, d.Position.Y, mission.CaptureRadius)
	dc.Stroke()
}

func (r *Renderer) drawSuits(dc *gg.Context, suits []mission.Pursuer) {
	for _, s := range suits {
		c, ok := behaviorColors[s.Behavior]
		if !ok {
			c = behaviorColors[mission.BehaviorPatrol]
		}
		if s.StunnedMs > 0 {
			c.A = 110
		}
		dc.SetColor(c)
		dc.DrawCircle(s.Position.X, s.Position.Y, 9)
		dc.Fill()
	}
}

func (r *Renderer) drawPlayer(dc *gg.Context, p mission.Player) {
	// Shadow
	dc.SetColor(color.RGBA{0, 0, 0, 90})
	dc.DrawCircle(p.Position.X, p.Position.Y+3, 10)
	dc.Fill()

	body := playerColor
	if p.Diving {
		body = color.RGBA{150, 200, 255, 255}
	}
	dc.SetColor(body)
	dc.DrawCircle(p.Position.X, p.Position.Y, 10)
	dc.Fill()

	// Heading tick
	dc.SetColor(inkColor)
	dc.SetLineWidth(2)
	dc.DrawLine(p.Position.X, p.Position.Y,
		p.Position.X+math.Cos(p.Heading)*12, p.Position.Y+math.Sin(p.Heading)*12)
	dc.Stroke()

	if p.CarryingDevice {
		dc.SetColor(deviceColor)
		dc.DrawCircle(p.Position.X+8, p.Position.Y-8, 4)
		dc.Fill()
	}
}

func (r *Renderer) drawHUD(dc *gg.Context, s mission.State, w Weather) {
	dc.SetColor(color.RGBA{0, 0, 0, 150})
	dc.DrawRectangle(0, 0, float64(r.width), 22)
	dc.Fill()

	secs := int(math.Ceil(s.ClockMs / 1000))
	hud := fmt.Sprintf("%s  %02d:%02d  day %d/%d  %s  threat %.2f  suits %d",
		s.Profile.Handle, secs/60, secs%60, s.DayIndex, mission.MaxDays, w.ID, s.ThreatLevel, len(s.Suits))
	dc.SetColor(color.White)
	dc.DrawString(hud, 6, 15)

	bars := []struct {
		label string
		value float64
		c     color.RGBA
	}{
		{"FOC", s.Player.Focus, color.RGBA{120, 180, 255, 255}},
		{"INT", s.Player.Integrity, color.RGBA{83, 255, 69, 255}},
		{"STA", s.Player.Stamina, color.RGBA{255, 200, 60, 255}},
		{"GAD", s.Player.GadgetCharge, color.RGBA{120, 255, 220, 255}},
	}
	y := float64(r.height) - 14
	for i, b := range bars {
		x := 6 + float64(i)*110
		dc.SetColor(color.RGBA{51, 51, 51, 200})
		dc.DrawRectangle(x+28, y-9, 70, 8)
		dc.Fill()
		dc.SetColor(b.c)
		dc.DrawRectangle(x+28, y-9, 70*b.value/mission.VitalMax, 8)
		dc.Fill()
		dc.SetColor(color.White)
		dc.DrawString(b.label, x, y)
	}

	if len(s.Intel) > 0 {
		msg := s.Intel[0]
		dc.SetColor(toneColors[msg.Tone])
		dc.DrawString(msg.Text, 6, y-16)
	}

	if s.Phase.Terminal() {
		dc.SetColor(color.RGBA{0, 0, 0, 170})
		dc.DrawRectangle(0, float64(r.height)/2-20, float64(r.width), 40)
		dc.Fill()
		banner := "MISSION FAILED"
		if s.Phase == mission.PhaseWon {
			banner = fmt.Sprintf("DELIVERED in %.1fs", s.ScoreMs/1000)
		}
		dc.SetColor(color.White)
		dc.DrawStringAnchored(banner, float64(r.width)/2, float64(r.height)/2-4, 0.5, 0.5)
		if s.Reason != "" {
			dc.DrawStringAnchored(s.Reason, float64(r.width)/2, float64(r.height)/2+10, 0.5, 0.5)
		}
	}
}

func parseHexColor(hex string) color.RGBA {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{255, 255, 255, 255}
	}

	var r, g, b uint8
	fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	return color.RGBA{r, g, b, 255}
}

// blend mixes t of b into a.
func blend(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x)*(1-t) + float64(y)*t)) }
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}
