package orchestrator

import (
	"sync"

	"reelgrab/pkg/errors"
)

// Kind is the severity of a notification
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

const (
	MsgStarted = "Download started!"
	MsgSuccess = "Reel downloaded successfully!"
)

// Notification is one toast shown to the user
type Notification struct {
	Kind    Kind
	Message string

	// ErrorType is set for KindError
	ErrorType errors.ErrorType

	// Location and Size are set for KindSuccess
	Location string
	Size     int
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// MultiNotifier fans a notification out to several notifiers
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(n Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(n)
		}
	}
}

// Recorder keeps every notification it receives
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

// All returns a copy of the recorded notifications
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// Errors returns the recorded error notifications
func (r *Recorder) Errors() []Notification {
	var out []Notification
	for _, n := range r.All() {
		if n.Kind == KindError {
			out = append(out, n)
		}
	}
	return out
}

// Last returns the most recent notification
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return Notification{}, false
	}
	return r.notifications[len(r.notifications)-1], true
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}
