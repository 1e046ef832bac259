package mission

import "math"

// Vector2 is a plain 2D point or velocity, copied by value.
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vector2) Add(o Vector2) Vector2 { return Vector2{v.X + o.X, v.Y + o.Y} }
func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{v.X - o.X, v.Y - o.Y} }
func (v Vector2) Scale(k float64) Vector2 {
	return Vector2{v.X * k, v.Y * k}
}

func (v Vector2) Length() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns the unit vector, or zero for a zero vector.
func (v Vector2) Normalize() Vector2 {
	l := v.Length()
	if l == 0 {
		return Vector2{}
	}
	return Vector2{v.X / l, v.Y / l}
}

// ClampLength shortens v to at most max, keeping its direction.
func (v Vector2) ClampLength(max float64) Vector2 {
	l := v.Length()
	if l <= max || l == 0 {
		return v
	}
	return v.Scale(max / l)
}

// Lerp moves v toward target by t (0..1).
func (v Vector2) Lerp(target Vector2, t float64) Vector2 {
	return Vector2{v.X + (target.X-v.X)*t, v.Y + (target.Y-v.Y)*t}
}

// Distance between two points.
func Distance(a, b Vector2) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampAxis limits each component of v to [-limit, limit].
func clampAxis(v Vector2, limit float64) Vector2 {
	return Vector2{clamp(v.X, -limit, limit), clamp(v.Y, -limit, limit)}
}

// clampToField keeps a body inside the playable rectangle. The top edge
// sits a little above the cliff line.
func clampToField(p Vector2) Vector2 {
	return Vector2{
		X: clamp(p.X, FieldMargin, MapWidth-FieldMargin),
		Y: clamp(p.Y, CliffLine-CliffOvershoot, MapHeight-FieldMargin),
	}
}
