package types

import "fmt"

const (
	// MinFrozenBalance is the smallest stake a single freeze may lock.
	MinFrozenBalance int64 = 1_000_000
	// WeightUnit converts frozen base units into resource weight.
	WeightUnit int64 = 1_000_000
	// MillisecondsPerDay converts freeze durations (days) into timestamps.
	MillisecondsPerDay int64 = 86_400_000
)

// ResourceCode identifies the resource earned by freezing stake.
type ResourceCode int32

const (
	ResourceBandwidth ResourceCode = 0
	ResourceEnergy    ResourceCode = 1
)

// Valid reports whether r is a supported resource kind.
func (r ResourceCode) Valid() bool {
	return r == ResourceBandwidth || r == ResourceEnergy
}

func (r ResourceCode) String() string {
	switch r {
	case ResourceBandwidth:
		return "BANDWIDTH"
	case ResourceEnergy:
		return "ENERGY"
	default:
		return fmt.Sprintf("ResourceCode(%d)", int32(r))
	}
}

// ParseResourceCode maps the wire names back to a ResourceCode.
func ParseResourceCode(name string) (ResourceCode, error) {
	switch name {
	case "BANDWIDTH", "bandwidth":
		return ResourceBandwidth, nil
	case "ENERGY", "energy":
		return ResourceEnergy, nil
	default:
		return 0, fmt.Errorf("unknown resource %q", name)
	}
}
