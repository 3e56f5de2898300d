package controller

// DisplayKind is what the rendering layer shows for a state. Exactly one kind
// is active at a time, so a payload and an error never appear together.
type DisplayKind int

const (
	DisplayEmpty DisplayKind = iota
	DisplayPending
	DisplayError
	DisplayPayload
)

func (d DisplayKind) String() string {
	switch d {
	case DisplayEmpty:
		return "empty"
	case DisplayPending:
		return "pending"
	case DisplayError:
		return "error"
	case DisplayPayload:
		return "payload"
	default:
		return "unknown"
	}
}

// Display maps a state to its display kind. Loading never carries a payload,
// so the pending indicator is shown for the whole request.
func Display(s State) DisplayKind {
	switch s.Status {
	case StatusLoading:
		return DisplayPending
	case StatusError:
		return DisplayError
	case StatusSuccess:
		return DisplayPayload
	default:
		return DisplayEmpty
	}
}
