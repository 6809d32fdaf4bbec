// Package robotnav holds the navigation state and algorithm for a single
// robot: its confirmed grid positions, facing direction, and the
// obstacle-evasion heuristic that flips axis priority after a blocked move.
package robotnav

// Position is a signed grid coordinate. The origin is the navigation target.
type Position struct {
	X, Y int
}

// Robot tracks one session's navigation state. The zero value is not valid;
// use New.
type Robot struct {
	Pos     Position
	LastPos Position

	Direction       Direction
	NeededDirection Direction

	// InverseNavigation toggles on every obstacle encounter, flipping which
	// axis (Y then X, or X then Y) is checked first when computing the next
	// desired direction.
	InverseNavigation bool
}

// New returns a Robot with the sentinel initial positions: Pos and LastPos
// differ so the very first reported position is never mistaken for "no
// movement".
func New() *Robot {
	return &Robot{
		Pos:     Position{X: 1000, Y: 1000},
		LastPos: Position{X: -1000, Y: -1000},
	}
}

// SetLocation records a newly reported position, sliding the previous Pos
// into LastPos first.
func (r *Robot) SetLocation(x, y int) {
	r.LastPos = r.Pos
	r.Pos = Position{X: x, Y: y}
}

// IsOnLocation reports whether Pos equals (x, y).
func (r *Robot) IsOnLocation(x, y int) bool {
	return r.Pos.X == x && r.Pos.Y == y
}

// IsAtOrigin reports whether Pos is (0, 0).
func (r *Robot) IsAtOrigin() bool {
	return r.IsOnLocation(0, 0)
}

// PositionChanged reports whether Pos differs from LastPos.
func (r *Robot) PositionChanged() bool {
	return r.Pos != r.LastPos
}

// InferDirection sets Direction from the delta between LastPos and Pos:
// an X-axis move takes priority over a Y-axis move, matching the source.
func (r *Robot) InferDirection() {
	switch {
	case r.Pos.X > r.LastPos.X:
		r.Direction = East
	case r.Pos.X < r.LastPos.X:
		r.Direction = West
	case r.Pos.Y > r.LastPos.Y:
		r.Direction = North
	case r.Pos.Y < r.LastPos.Y:
		r.Direction = South
	}
}

// FacingNeeded reports whether Direction already equals NeededDirection.
func (r *Robot) FacingNeeded() bool {
	return r.Direction == r.NeededDirection
}

// ComputeNeeded recomputes NeededDirection from the current position,
// honoring InverseNavigation's axis-priority flip.
func (r *Robot) ComputeNeeded() {
	if r.InverseNavigation {
		r.NeededDirection = r.computeNeededXFirst()
		return
	}
	r.NeededDirection = r.computeNeededYFirst()
}

func (r *Robot) computeNeededYFirst() Direction {
	switch {
	case r.Pos.Y < 0:
		return North
	case r.Pos.Y > 0:
		return South
	case r.Pos.X < 0:
		return East
	case r.Pos.X > 0:
		return West
	default:
		return Unknown
	}
}

func (r *Robot) computeNeededXFirst() Direction {
	switch {
	case r.Pos.X < 0:
		return East
	case r.Pos.X > 0:
		return West
	case r.Pos.Y < 0:
		return North
	case r.Pos.Y > 0:
		return South
	default:
		return Unknown
	}
}

// TurnRight rotates Direction one step clockwise.
func (r *Robot) TurnRight() {
	r.Direction = r.Direction.Next()
}

// ToggleInverse flips InverseNavigation, called once per obstacle
// encounter.
func (r *Robot) ToggleInverse() {
	r.InverseNavigation = !r.InverseNavigation
}
