package layout

import (
	"strings"
	"sync"
)

// Severity colours a toast.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityError   Severity = "error"
)

// ParseSeverity maps s to a known severity; anything else is info.
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeveritySuccess:
		return SeveritySuccess
	case SeverityError:
		return SeverityError
	default:
		return SeverityInfo
	}
}

// Toast is a transient notification.
type Toast struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Toaster holds at most one active toast. Showing a new toast replaces the old one.
type Toaster struct {
	mu      sync.Mutex
	current *Toast
}

// Show makes message the active toast. An empty message hides the toast.
func (t *Toaster) Show(message string, severity Severity) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if strings.TrimSpace(message) == "" {
		t.current = nil
		return
	}
	t.current = &Toast{Message: message, Severity: ParseSeverity(string(severity))}
}

// Hide clears the active toast.
func (t *Toaster) Hide() {
	t.mu.Lock()
	t.current = nil
	t.mu.Unlock()
}

// Current returns the active toast.
func (t *Toaster) Current() (Toast, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return Toast{}, false
	}
	return *t.current, true
}
