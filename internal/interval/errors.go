package interval

import "errors"

var (
	ErrIncomplete        = errors.New("selection incomplete")
	ErrEndBeforeStart    = errors.New("end time must be after start time")
	ErrBeforeWindowStart = errors.New("start is before the availability window")
	ErrAfterWindowEnd    = errors.New("end is after the availability window")
)

type Kind int

const (
	KindIncomplete Kind = iota + 1
	KindEndBeforeStart
	KindBeforeWindowStart
	KindAfterWindowEnd
)

func (k Kind) String() string {
	switch k {
	case KindIncomplete:
		return "incomplete"
	case KindEndBeforeStart:
		return "end_before_start"
	case KindBeforeWindowStart:
		return "before_window_start"
	case KindAfterWindowEnd:
		return "after_window_end"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindIncomplete:
		return ErrIncomplete
	case KindEndBeforeStart:
		return ErrEndBeforeStart
	case KindBeforeWindowStart:
		return ErrBeforeWindowStart
	case KindAfterWindowEnd:
		return ErrAfterWindowEnd
	default:
		return nil
	}
}

// ValidationError describes why a candidate interval was rejected. Message is
// meant for display next to the time pickers.
type ValidationError struct {
	Kind           Kind
	Message        string
	Boundary       string
	SuggestNextDay bool
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// Silent reports errors that should suppress the preview without showing text.
func (e *ValidationError) Silent() bool {
	return e.Kind == KindIncomplete
}
