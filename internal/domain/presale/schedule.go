// Package presale holds the sale model shared by every node: the sale schedule,
// static registries, per-chain purchase records, deposit locks and the cap engine.
package presale

import (
	"time"

	vo "github.com/mrc20-presale/presale-node/internal/domain/presale/valueobjects"
)

const (
	dayMillis = int64(24 * time.Hour / time.Millisecond)

	// Days after the start at which the tiered and public phases open.
	tieredPhaseOffsetDays = 3
	publicPhaseOffsetDays = 5
)

// Boundaries are the three instants that delimit the sale phases.
type Boundaries struct {
	Start       time.Time
	TieredStart time.Time
	PublicStart time.Time
}

// Schedule derives the sale day and phase from wall-clock time.
type Schedule struct {
	startMillis int64
}

// NewSchedule builds a schedule from the start time in unix seconds, the unit
// the presale contracts store it in.
func NewSchedule(startUnix int64) Schedule {
	return Schedule{startMillis: startUnix * 1000}
}

func (s Schedule) StartTime() time.Time {
	return time.UnixMilli(s.startMillis).UTC()
}

// TieredStart is the first instant of the tiered phase.
func (s Schedule) TieredStart() time.Time {
	return time.UnixMilli(s.startMillis + tieredPhaseOffsetDays*dayMillis).UTC()
}

// PublicStart is the first instant of the public phase.
func (s Schedule) PublicStart() time.Time {
	return time.UnixMilli(s.startMillis + publicPhaseOffsetDays*dayMillis).UTC()
}

func (s Schedule) Boundaries() Boundaries {
	return Boundaries{
		Start:       s.StartTime(),
		TieredStart: s.TieredStart(),
		PublicStart: s.PublicStart(),
	}
}

// Day returns the 1-indexed sale day. Zero or negative means the sale has not started.
func (s Schedule) Day(now time.Time) int {
	return int(floorDiv(now.UnixMilli()-s.startMillis, dayMillis)) + 1
}

func (s Schedule) Phase(now time.Time) vo.Phase {
	switch {
	case now.Before(s.TieredStart()):
		return vo.PhaseAllocation
	case now.Before(s.PublicStart()):
		return vo.PhaseTiered
	default:
		return vo.PhasePublic
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
