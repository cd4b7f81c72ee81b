package pic

import (
	"fmt"
	"strings"
)

// Axis is the canonical identifier of a spatial dimension.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

var axisNames = [...]string{"x", "y", "z"}

// AxisFromIndex returns the axis with index i (0, 1 or 2).
func AxisFromIndex(i int) (Axis, error) {
	if i < 0 || i >= len(axisNames) {
		return X, NewError(ErrFormat, "", "AxisFromIndex", "no axis with index %d", i)
	}
	return Axis(i), nil
}

// AxisFromName returns the axis named s ("x", "y" or "z", in any case).
func AxisFromName(s string) (Axis, error) {
	ls := strings.ToLower(strings.TrimSpace(s))
	for i, v := range axisNames {
		if v == ls {
			return Axis(i), nil
		}
	}
	return X, NewError(ErrFormat, "", "AxisFromName", "no axis named %q", s)
}

// ParseAxis accepts either form of axis identifier: an integer index
// or a name. Any other type is an error.
func ParseAxis(id interface{}) (Axis, error) {
	switch v := id.(type) {
	case Axis:
		return AxisFromIndex(int(v))
	case int:
		return AxisFromIndex(v)
	case int64:
		return AxisFromIndex(int(v))
	case string:
		return AxisFromName(v)
	default:
		return X, NewError(ErrFormat, "", "ParseAxis", "can't use %T as an axis identifier", id)
	}
}

// Index returns the 0-based index of the axis.
func (A Axis) Index() int { return int(A) }

// Valid returns true if A is one of X, Y and Z.
func (A Axis) Valid() bool { return A >= X && A <= Z }

func (A Axis) String() string {
	if !A.Valid() {
		return fmt.Sprintf("Axis(%d)", int(A))
	}
	return axisNames[A]
}

// Upper returns the upper case name of the axis, as used in grid keys.
func (A Axis) Upper() string {
	return strings.ToUpper(A.String())
}

// Attrib identifies one per-particle attribute.
type Attrib int

const (
	AttribX Attrib = iota
	AttribY
	AttribZ
	AttribPx
	AttribPy
	AttribPz
	AttribWeight
	AttribID
)

var attribNames = [...]string{"x", "y", "z", "px", "py", "pz", "weight", "id"}

// Attribs returns every particle attribute, in canonical order.
func Attribs() []Attrib {
	return []Attrib{AttribX, AttribY, AttribZ, AttribPx, AttribPy, AttribPz, AttribWeight, AttribID}
}

// ParseAttrib returns the attribute named s. Names are case-insensitive,
// and "w" is accepted for the weight.
func ParseAttrib(s string) (Attrib, error) {
	ls := strings.ToLower(strings.TrimSpace(s))
	if ls == "w" {
		return AttribWeight, nil
	}
	for i, v := range attribNames {
		if v == ls {
			return Attrib(i), nil
		}
	}
	return AttribX, NewError(ErrFormat, "", "ParseAttrib", "unknown particle attribute %q", s)
}

func (A Attrib) String() string {
	if A < AttribX || A > AttribID {
		return fmt.Sprintf("Attrib(%d)", int(A))
	}
	return attribNames[A]
}

// Position returns the attribute for the position along ax.
func Position(ax Axis) Attrib { return AttribX + Attrib(ax) }

// Momentum returns the attribute for the momentum along ax.
func Momentum(ax Axis) Attrib { return AttribPx + Attrib(ax) }
