package node

import "github.com/prollykv/prollytree/internal/pkey"

// BoundKind tags whether a Range endpoint is open, inclusive, or
// exclusive.
type BoundKind uint8

const (
	// Unbounded means the range has no limit on this side.
	Unbounded BoundKind = iota
	// Included means the endpoint key itself is part of the range.
	Included
	// Excluded means the endpoint key is just outside the range.
	Excluded
)

// Bound is one endpoint (start or end) of a Range.
type Bound struct {
	Kind BoundKind
	Key  pkey.Key
}

// Range describes a key range for GetRange, mirroring Rust's
// std::ops::RangeBounds used by the reference implementation.
type Range struct {
	Start Bound
	End   Bound
}

// UnboundedRange returns a Range covering every key.
func UnboundedRange() Range {
	return Range{}
}

// From returns a Range with an inclusive lower bound and no upper bound.
func From(key pkey.Key) Range {
	return Range{Start: Bound{Kind: Included, Key: key}}
}

// To returns a Range with no lower bound and an exclusive upper bound.
func To(key pkey.Key) Range {
	return Range{End: Bound{Kind: Excluded, Key: key}}
}

// Between returns a Range inclusive of both start and end.
func Between(start, end pkey.Key) Range {
	return Range{Start: Bound{Kind: Included, Key: start}, End: Bound{Kind: Included, Key: end}}
}

// Contains reports whether key falls within r.
func (r Range) Contains(key pkey.Key) bool {
	if r.Start.Kind != Unbounded {
		cmp := pkey.Compare(key, r.Start.Key)
		if r.Start.Kind == Included && cmp < 0 {
			return false
		}
		if r.Start.Kind == Excluded && cmp <= 0 {
			return false
		}
	}
	if r.End.Kind != Unbounded {
		cmp := pkey.Compare(key, r.End.Key)
		if r.End.Kind == Included && cmp > 0 {
			return false
		}
		if r.End.Kind == Excluded && cmp >= 0 {
			return false
		}
	}
	return true
}

// startKey returns the key used to descend to the first potentially
// matching child, treating Included and Excluded starts identically (the
// reference implementation does the same). An Excluded start key is
// filtered out afterwards by Contains.
func (r Range) startKey() (pkey.Key, bool) {
	if r.Start.Kind == Unbounded {
		return nil, false
	}
	return r.Start.Key, true
}
