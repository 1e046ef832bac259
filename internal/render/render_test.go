package render

import (
	"bytes"
	"image/png"
	"testing"

	"sea-game/internal/mission"
)

func TestPickWeather(t *testing.T) {
	tests := []struct {
		seed uint64
		day  int
		want string
	}{
		{0, 0, "dawn"},
		{0, 1, "sunset"},
		{1, 1, "dawn"},
		{2, 5, "noon"},
		{2, 0, "storm"},
	}
	for _, tt := range tests {
		if got := PickWeather(tt.seed, tt.day).ID; got != tt.want {
			t.Errorf("PickWeather(%d, %d) = %s, want %s", tt.seed, tt.day, got, tt.want)
		}
	}
}

func TestFrameSize(t *testing.T) {
	s := mission.New("painter", 0, 3)

	tests := []struct {
		name string
		w, h int
		ww   int
		wh   int
	}{
		{"world size", 0, 0, int(mission.MapWidth), int(mission.MapHeight)},
		{"half size", 480, 260, 480, 260},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := New(tt.w, tt.h).Frame(s)
			b := img.Bounds()
			if b.Dx() != tt.ww || b.Dy() != tt.wh {
				t.Errorf("bounds = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.ww, tt.wh)
			}
		})
	}
}

func TestFrameBands(t *testing.T) {
	s := mission.New("painter", 0, 3)
	s.Structures = nil // keep sample points clear
	img := New(0, 0).Frame(s)

	// Deep water is bluer than it is red
	r, _, b, _ := img.At(20, int(mission.MapHeight)-60).RGBA()
	if b <= r {
		t.Errorf("water pixel r=%d b=%d", r>>8, b>>8)
	}

	// Sand is redder than it is blue
	r, _, b, _ = img.At(20, int(mission.CliffLine)+40).RGBA()
	if r <= b {
		t.Errorf("sand pixel r=%d b=%d", r>>8, b>>8)
	}
}

func TestEncodePNG(t *testing.T) {
	s := mission.New("painter", 0, 9)
	s.Device.Located = true
	s.Suits = []mission.Pursuer{{ID: 1, Position: mission.Vector2{X: 300, Y: 250}, Behavior: mission.BehaviorChase}}
	s.Phase = mission.PhaseWon
	s.ScoreMs = 12345

	var buf bytes.Buffer
	if err := New(320, 180).EncodePNG(&buf, s); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 320 {
		t.Errorf("width = %d", img.Bounds().Dx())
	}
}

func TestParseHexColor(t *testing.T) {
	if c := parseHexColor("#ff7a45"); c.R != 0xff || c.G != 0x7a || c.B != 0x45 {
		t.Errorf("got %+v", c)
	}
	if c := parseHexColor("bad"); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("fallback = %+v", c)
	}
}
