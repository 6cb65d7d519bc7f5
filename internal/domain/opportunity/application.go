package opportunity

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound            = errors.New("opportunity not found")
	ErrAlreadyApplied      = errors.New("already applied to this opportunity")
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidTransition   = errors.New("invalid application status transition")
	ErrUnknownStatus       = errors.New("unknown application status")
)

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusPending:  {StatusAccepted, StatusRejected},
	StatusAccepted: nil,
	StatusRejected: nil,
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	if _, ok := applicationTransitions[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

func (s ApplicationStatus) Terminal() bool {
	return len(applicationTransitions[s]) == 0
}

// TransitionError reports a disallowed application status change.
type TransitionError struct {
	From ApplicationStatus
	To   ApplicationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("application status cannot change from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to ApplicationStatus) error {
	for _, next := range applicationTransitions[from] {
		if next == to {
			return nil
		}
	}
	return &TransitionError{From: from, To: to}
}

func NewApplication(userID, coverLetter string, now time.Time) Application {
	return Application{
		UserID:      userID,
		Status:      StatusPending,
		CoverLetter: coverLetter,
		AppliedAt:   now.UTC(),
	}
}

func (o *Opportunity) FindApplication(userID string) int {
	for i := range o.Applications {
		if o.Applications[i].UserID == userID {
			return i
		}
	}
	return -1
}

func (o *Opportunity) HasApplied(userID string) bool {
	return o.FindApplication(userID) >= 0
}

// Apply appends a pending application unless userID already applied.
func (o *Opportunity) Apply(a Application) error {
	if o.HasApplied(a.UserID) {
		return ErrAlreadyApplied
	}
	o.Applications = append(o.Applications, a)
	return nil
}

// Review moves userID's application to status, enforcing the transition table.
func (o *Opportunity) Review(userID string, status ApplicationStatus) error {
	i := o.FindApplication(userID)
	if i < 0 {
		return ErrApplicationNotFound
	}
	if err := CanTransition(o.Applications[i].Status, status); err != nil {
		return err
	}
	o.Applications[i].Status = status
	return nil
}
