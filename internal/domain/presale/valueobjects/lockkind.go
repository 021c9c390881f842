package valueobjects

// LockKind tells a polling client why its address cannot deposit right now.
type LockKind string

const (
	// LockKindAllocation: the address has no allocation until the tiered phase opens.
	LockKindAllocation LockKind = "ALLOCATION"
	// LockKindCoolDown: a deposit validation for the address is in flight.
	LockKindCoolDown LockKind = "COOL_DOWN"
)

func (k LockKind) String() string {
	return string(k)
}
