package valueobjects

// Phase is the temporal regime of the sale.
type Phase int

const (
	// PhaseAllocation: only addresses with a per-day allocation may deposit.
	PhaseAllocation Phase = iota
	// PhaseTiered: the public per-day schedule replaces per-address allocations.
	PhaseTiered
	// PhasePublic: any address may deposit up to the global ceiling.
	PhasePublic
)

func (p Phase) String() string {
	switch p {
	case PhaseAllocation:
		return "allocation"
	case PhaseTiered:
		return "tiered"
	case PhasePublic:
		return "public"
	default:
		return "unknown"
	}
}
