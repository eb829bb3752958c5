package order

type Status string

// The intended progression is linear:
//
//	Pending → Confirmed → Being Cooked → Ready For Pickup → Completed
//
// with Cancelled reachable from any non-terminal state. The update path does
// not enforce this ordering; any status in a patch is written as-is, which
// doubles as a staff override.
const (
	StatusPending        Status = "Pending"
	StatusConfirmed      Status = "Confirmed"
	StatusBeingCooked    Status = "Being Cooked"
	StatusReadyForPickup Status = "Ready For Pickup"
	StatusCompleted      Status = "Completed"
	StatusCancelled      Status = "Cancelled"
)

// Next returns the designed successor of s, or s itself when terminal or
// unknown. Informational only; writes are not gated on it.
func (s Status) Next() Status {
	switch s {
	case StatusPending:
		return StatusConfirmed
	case StatusConfirmed:
		return StatusBeingCooked
	case StatusBeingCooked:
		return StatusReadyForPickup
	case StatusReadyForPickup:
		return StatusCompleted
	default:
		return s
	}
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
