package order

import "fmt"

type Status string

const (
	StatusNew            Status = "new"
	StatusAccepted       Status = "accepted"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCanceled       Status = "canceled"

	errInvalidStatusFmt = "invalid order status: %s"
)

// transitions lists every allowed (current -> requested) edge. Anything
// absent is rejected, so terminal states simply have no entry.
var transitions = map[Status]map[Status]bool{
	StatusNew:            {StatusAccepted: true, StatusCanceled: true},
	StatusAccepted:       {StatusPreparing: true, StatusCanceled: true},
	StatusPreparing:      {StatusOutForDelivery: true, StatusCanceled: true},
	StatusOutForDelivery: {StatusDelivered: true},
}

// Validate validates the status
func (s Status) Validate() error {
	switch s {
	case StatusNew, StatusAccepted, StatusPreparing, StatusOutForDelivery, StatusDelivered, StatusCanceled:
		return nil
	default:
		return fmt.Errorf(errInvalidStatusFmt, s)
	}
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCanceled
}

// CanTransitionTo reports whether staff may move an order from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	return transitions[s][next]
}

// Requestable reports whether next may be asked for by staff at all. New is
// only ever assigned at creation.
func Requestable(next Status) bool {
	return next.Validate() == nil && next != StatusNew
}
