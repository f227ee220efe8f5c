package grid

import (
	"fmt"
	"math"
	"sort"
)

type keyKind int

const (
	keyIndex keyKind = iota
	keyPos
	keyList
	keyRange
	keyAll
)

// Key selects cells along one grid axis. A Key is either an integer index,
// a physical distance, a list of either, a range, or the whole axis. Physical
// values are converted to indices with round-half-up against that axis's
// spacing during normalization.
type Key struct {
	kind  keyKind
	index int
	pos   float64
	items []Key
	start *Key
	stop  *Key
	step  *Key
}

// Index selects a single cell by integer index.
func Index(i int) Key { return Key{kind: keyIndex, index: i} }

// Pos selects the cell nearest to a physical distance along the axis.
func Pos(d float64) Key { return Key{kind: keyPos, pos: d} }

// List selects an explicit set of cell indices.
func List(is ...int) Key {
	k := Key{kind: keyList}
	for _, i := range is {
		k.items = append(k.items, Index(i))
	}
	return k
}

// Points selects the cells nearest to a set of physical distances.
func Points(ds ...float64) Key {
	k := Key{kind: keyList}
	for _, d := range ds {
		k.items = append(k.items, Pos(d))
	}
	return k
}

// Range selects the half-open span [start, stop). Either bound may itself be
// an index or a physical distance.
func Range(start, stop Key) Key {
	return Key{kind: keyRange, start: &start, stop: &stop}
}

// RangeStep is Range with an explicit stride.
func RangeStep(start, stop, step Key) Key {
	return Key{kind: keyRange, start: &start, stop: &stop, step: &step}
}

// All selects the entire axis.
func All() Key { return Key{kind: keyAll} }

type selKind int

const (
	selSingle selKind = iota
	selList
	selRange
)

// Selection is a normalized axis key: a single index, an index list, or an
// integer range. It is the closed variant every region request is reduced to
// before any grid mutation.
type Selection struct {
	kind              selKind
	index             int
	list              []int
	start, stop, step int
}

// Single returns the selected index and true when the selection holds
// exactly one explicitly requested cell.
func (s Selection) Single() (int, bool) {
	if s.kind == selSingle {
		return s.index, true
	}
	return 0, false
}

// Indices materializes the selection as a sorted-order index slice.
func (s Selection) Indices() []int {
	switch s.kind {
	case selSingle:
		return []int{s.index}
	case selList:
		return append([]int(nil), s.list...)
	default:
		var is []int
		for i := s.start; i < s.stop; i += s.step {
			is = append(is, i)
		}
		return is
	}
}

// Len returns the number of selected cells.
func (s Selection) Len() int {
	switch s.kind {
	case selSingle:
		return 1
	case selList:
		return len(s.list)
	default:
		if s.stop <= s.start {
			return 0
		}
		return (s.stop - s.start + s.step - 1) / s.step
	}
}

// Bounds returns the closed-open extent covered by the selection.
func (s Selection) Bounds() (lo, hi int) {
	switch s.kind {
	case selSingle:
		return s.index, s.index + 1
	case selList:
		if len(s.list) == 0 {
			return 0, 0
		}
		lo, hi = s.list[0], s.list[0]+1
		for _, i := range s.list {
			if i < lo {
				lo = i
			}
			if i+1 > hi {
				hi = i + 1
			}
		}
		return lo, hi
	default:
		return s.start, s.stop
	}
}

func (s Selection) String() string {
	switch s.kind {
	case selSingle:
		return fmt.Sprintf("%d", s.index)
	case selList:
		return fmt.Sprintf("%v", s.list)
	default:
		if s.step != 1 {
			return fmt.Sprintf("%d:%d:%d", s.start, s.stop, s.step)
		}
		return fmt.Sprintf("%d:%d", s.start, s.stop)
	}
}

// Converter maps physical lengths and times onto the integer grid.
type Converter struct {
	shape    [3]int
	spacing  [3]float64
	timeStep float64
}

// DistanceToIndex converts a single-valued key to a cell index on the given
// axis. Integer keys pass through unchanged; physical distances divide by the
// axis spacing and round half up.
func (c Converter) DistanceToIndex(k Key, axis int) (int, error) {
	switch k.kind {
	case keyIndex:
		return k.index, nil
	case keyPos:
		return roundHalfUp(k.pos / c.spacing[axis]), nil
	default:
		return 0, fmt.Errorf("key %v is not a single coordinate", k.kind)
	}
}

// TimeToSteps converts a physical duration to a whole number of timesteps,
// rounding half up.
func (c Converter) TimeToSteps(t float64) int {
	return roundHalfUp(t / c.timeStep)
}

// TimeStep returns the timestep the converter divides durations by.
func (c Converter) TimeStep() float64 { return c.timeStep }

// NormalizeKey reduces any key to a Selection of integer indices on the given
// axis, validating bounds against the axis length.
func (c Converter) NormalizeKey(k Key, axis int) (Selection, error) {
	n := c.shape[axis]
	check := func(i int) error {
		if i < 0 || i >= n {
			return fmt.Errorf("index %d out of range for axis %d of size %d", i, axis, n)
		}
		return nil
	}

	switch k.kind {
	case keyIndex, keyPos:
		i, err := c.DistanceToIndex(k, axis)
		if err != nil {
			return Selection{}, err
		}
		if err := check(i); err != nil {
			return Selection{}, err
		}
		return Selection{kind: selSingle, index: i}, nil

	case keyList:
		is := make([]int, 0, len(k.items))
		for _, item := range k.items {
			i, err := c.DistanceToIndex(item, axis)
			if err != nil {
				return Selection{}, err
			}
			if err := check(i); err != nil {
				return Selection{}, err
			}
			is = append(is, i)
		}
		sort.Ints(is)
		return Selection{kind: selList, list: is}, nil

	case keyRange:
		start, stop, step := 0, n, 1
		var err error
		if k.start != nil {
			if start, err = c.DistanceToIndex(*k.start, axis); err != nil {
				return Selection{}, err
			}
		}
		if k.stop != nil {
			if stop, err = c.DistanceToIndex(*k.stop, axis); err != nil {
				return Selection{}, err
			}
		}
		if k.step != nil {
			if step, err = c.DistanceToIndex(*k.step, axis); err != nil {
				return Selection{}, err
			}
		}
		if step < 1 {
			return Selection{}, fmt.Errorf("range step must be positive, got %d", step)
		}
		if start < 0 || stop > n || start > stop {
			return Selection{}, fmt.Errorf("range %d:%d out of bounds for axis %d of size %d", start, stop, axis, n)
		}
		return Selection{kind: selRange, start: start, stop: stop, step: step}, nil

	default: // keyAll
		return Selection{kind: selRange, start: 0, stop: n, step: 1}, nil
	}
}

func roundHalfUp(v float64) int { return int(math.Floor(v + 0.5)) }
