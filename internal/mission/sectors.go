package mission

// Hazard grades how dangerous a sector is.
type Hazard string

const (
	HazardCalm   Hazard = "calm"
	HazardWatch  Hazard = "watch"
	HazardDanger Hazard = "danger"
)

// Rect is an axis-aligned box given by its min and max corners.
type Rect struct {
	Min Vector2 `json:"min"`
	Max Vector2 `json:"max"`
}

// Contains is inclusive on every edge.
func (r Rect) Contains(p Vector2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Sector is a named stretch of beach with its own briefing.
type Sector struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Bounds Rect   `json:"bounds"`
	Hazard Hazard `json:"hazard"`
	Hint   string `json:"hint"`
}

// Sectors overlap; the first match wins.
var Sectors = []Sector{
	{
		ID:     "north-dunes",
		Label:  "North Dunes",
		Bounds: Rect{Vector2{MapWidth * 0.05, CliffLine - 40}, Vector2{MapWidth * 0.55, CliffLine + 120}},
		Hazard: HazardWatch,
		Hint:   "The dunes hide side routes, but the suits read footprints.",
	},
	{
		ID:     "tidal-belt",
		Label:  "Tidal Belt",
		Bounds: Rect{Vector2{MapWidth * 0.1, WaterLine - 80}, Vector2{MapWidth * 0.9, WaterLine + 80}},
		Hazard: HazardDanger,
		Hint:   "The tide uncovers treasure and threats alike. Report anything shiny.",
	},
	{
		ID:     "reef-shelf",
		Label:  "Reef Shelf",
		Bounds: Rect{Vector2{MapWidth * 0.2, WaterLine + 40}, Vector2{MapWidth * 0.95, MapHeight - 120}},
		Hazard: HazardCalm,
		Hint:   "Divers out deep hide drop markers. Watch for suits working in pairs.",
	},
}

// SectorAt returns the first sector containing p.
func SectorAt(p Vector2) (Sector, bool) {
	for _, sec := range Sectors {
		if sec.Bounds.Contains(p) {
			return sec, true
		}
	}
	return Sector{}, false
}

// enterSector briefs the player when they cross into a different sector.
func (s *State) enterSector(now float64) {
	sec, ok := SectorAt(s.Player.Position)
	if sec.ID == s.Sector {
		return
	}
	s.Sector = sec.ID
	if !ok {
		return
	}
	tone := ToneIntel
	if sec.Hazard == HazardDanger {
		tone = ToneAlert
	}
	s.pushIntel(tone, sec.Label+": "+sec.Hint, now)
}
