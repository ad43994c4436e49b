package leads

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/HerbHall/fullstock/pkg/models"
)

// FailureAlert is shown when a submission fails.
const FailureAlert = "There was an error submitting the form. Please try again."

// State is the lead form's UI state.
type State int

const (
	StateIdle State = iota
	StateOpen
	StateSubmitting
	StateSuccess
	StateFailure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpen:
		return "open"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// EventKind identifies a form event.
type EventKind int

const (
	EventOpen EventKind = iota
	EventClose
	EventSubmit
	EventDismiss
)

func (k EventKind) String() string {
	switch k {
	case EventOpen:
		return "open"
	case EventClose:
		return "close"
	case EventSubmit:
		return "submit"
	case EventDismiss:
		return "dismiss"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one user action on the form. Values is only read for submit.
type Event struct {
	Kind   EventKind
	Values models.Lead
}

// Open shows the form.
func Open() Event { return Event{Kind: EventOpen} }

// Close hides the form, keeping entered values.
func Close() Event { return Event{Kind: EventClose} }

// Submit sends values.
func Submit(values models.Lead) Event { return Event{Kind: EventSubmit, Values: values} }

// Dismiss closes the success screen and resets the form.
func Dismiss() Event { return Event{Kind: EventDismiss} }

// Form is the demo-request form state machine. All transitions go through
// Dispatch. The submitter call runs without holding the lock, so a second
// submit during it is rejected with ErrSubmissionInFlight.
type Form struct {
	mu        sync.Mutex
	state     State
	values    models.Lead
	record    Record
	alert     string
	err       error
	submitter Submitter
	logger    *zap.Logger
}

// NewForm creates an idle form that submits through sub.
func NewForm(sub Submitter, logger *zap.Logger) *Form {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Form{submitter: sub, logger: logger}
}

// Dispatch applies ev. Rejected events return ErrInvalidTransition,
// ErrSubmissionInFlight or an invalid-lead error and leave the form
// unchanged. A failed submission is a valid transition: Dispatch returns
// nil and the cause is available from Err.
func (f *Form) Dispatch(ctx context.Context, ev Event) error {
	f.mu.Lock()

	switch ev.Kind {
	case EventOpen:
		defer f.mu.Unlock()
		if f.state != StateIdle && f.state != StateFailure {
			return f.invalid(ev)
		}
		f.state = StateOpen
		f.alert = ""
		return nil

	case EventClose:
		defer f.mu.Unlock()
		if f.state != StateOpen && f.state != StateFailure {
			return f.invalid(ev)
		}
		f.state = StateIdle
		f.alert = ""
		return nil

	case EventDismiss:
		defer f.mu.Unlock()
		if f.state != StateSuccess {
			return f.invalid(ev)
		}
		f.state = StateIdle
		f.values = models.Lead{}
		f.record = Record{}
		f.err = nil
		return nil

	case EventSubmit:
		if f.state == StateSubmitting {
			f.mu.Unlock()
			return ErrSubmissionInFlight
		}
		if f.state != StateOpen && f.state != StateFailure {
			defer f.mu.Unlock()
			return f.invalid(ev)
		}
		lead := ev.Values.Normalize()
		if err := lead.Validate(); err != nil {
			f.mu.Unlock()
			return err
		}
		f.state = StateSubmitting
		f.values = ev.Values
		f.alert = ""
		f.err = nil
		f.mu.Unlock()

		rec, err := f.submitter.Submit(ctx, lead)

		f.mu.Lock()
		defer f.mu.Unlock()
		if err != nil {
			f.state = StateFailure
			f.alert = FailureAlert
			f.err = err
			f.logger.Error("lead submission failed",
				zap.String("company", lead.Company),
				zap.String("reason", Reason(err)),
				zap.Error(err),
			)
			return nil
		}
		f.state = StateSuccess
		f.record = rec
		f.logger.Info("lead submitted", zap.String("record_id", rec.ID))
		return nil

	default:
		defer f.mu.Unlock()
		return f.invalid(ev)
	}
}

func (f *Form) invalid(ev Event) error {
	return fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, ev.Kind, f.state)
}

// State returns the current state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Values returns the entered values.
func (f *Form) Values() models.Lead {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// RecordID returns the remote record id after a successful submission.
func (f *Form) RecordID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record.ID
}

// Record returns the remote record after a successful submission.
func (f *Form) Record() Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record
}

// Alert returns the alert text shown in the failure state.
func (f *Form) Alert() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alert
}

// Err returns the cause of the last failed submission.
func (f *Form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
