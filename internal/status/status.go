package status

import (
	"fmt"
	"time"
)

// Status is a server-reported wash request status.
type Status string

const (
	Pending   Status = "pending"
	Accepted  Status = "accepted"
	Washing   Status = "washing"
	Completed Status = "completed"
	Cancelled Status = "cancelled"
)

// Progression is the linear order a wash request moves through.
var Progression = []Status{Pending, Accepted, Washing, Completed}

var allowed = map[Status]map[Status]bool{
	Pending:   {Accepted: true, Cancelled: true},
	Accepted:  {Washing: true, Cancelled: true},
	Washing:   {Completed: true},
	Completed: {},
	Cancelled: {},
}

var labels = map[Status]string{
	Pending:   "Request received",
	Accepted:  "Accepted by outlet",
	Washing:   "Washing in progress",
	Completed: "Ready for pickup",
	Cancelled: "Cancelled",
}

// ParseStatus rejects anything outside the known set.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := allowed[st]; !ok {
		return "", fmt.Errorf("unknown status: %q", s)
	}
	return st, nil
}

// CanTransition checks if from->to is allowed.
func CanTransition(from, to Status) bool {
	nexts := allowed[from]
	return nexts != nil && nexts[to]
}

// IsTerminal reports whether no further transition is possible.
func IsTerminal(s Status) bool {
	return s == Completed || s == Cancelled
}

// Label is the human-readable caption of a status.
func (s Status) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// Event records when a request entered a status.
type Event struct {
	Status     Status    `json:"status"`
	ObservedAt time.Time `json:"observedAt"`
}

// Step is one entry of the visual progress display.
type Step struct {
	Status  Status     `json:"status"`
	Label   string     `json:"label"`
	Reached bool       `json:"reached"`
	Current bool       `json:"current"`
	At      *time.Time `json:"at,omitempty"`
}

// Timeline maps the current status and its history onto the progression.
type Timeline struct {
	Current   Status  `json:"current"`
	Steps     []Step  `json:"steps"`
	Progress  float64 `json:"progress"`
	Cancelled bool    `json:"cancelled"`
}

// BuildTimeline derives the progress display. History may be partial or
// unordered; the latest event per status wins. For a cancelled request the
// steps reached before cancellation stay marked and no step is current.
func BuildTimeline(current Status, history []Event) Timeline {
	seen := make(map[Status]time.Time, len(history))
	for _, ev := range history {
		if at, ok := seen[ev.Status]; !ok || ev.ObservedAt.After(at) {
			seen[ev.Status] = ev.ObservedAt
		}
	}

	// Index of the furthest progression step reached.
	reachedIdx := -1
	for i, st := range Progression {
		if st == current {
			reachedIdx = i
		}
	}
	if current == Cancelled {
		for i, st := range Progression {
			if _, ok := seen[st]; ok && i > reachedIdx {
				reachedIdx = i
			}
		}
		if reachedIdx < 0 {
			reachedIdx = 0
		}
	}

	tl := Timeline{
		Current:   current,
		Steps:     make([]Step, 0, len(Progression)),
		Cancelled: current == Cancelled,
	}
	for i, st := range Progression {
		step := Step{
			Status:  st,
			Label:   st.Label(),
			Reached: i <= reachedIdx,
			Current: st == current,
		}
		if at, ok := seen[st]; ok && step.Reached {
			at := at
			step.At = &at
		}
		tl.Steps = append(tl.Steps, step)
	}
	if reachedIdx >= 0 {
		tl.Progress = float64(reachedIdx+1) / float64(len(Progression))
	}
	return tl
}
