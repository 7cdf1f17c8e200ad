package store

import "time"

// DefaultAlertDuration is how long an alert stays visible without dismissal.
const DefaultAlertDuration = 5 * time.Second

// Severity is the visual class of an alert.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Alert is the single notification slot.
type Alert struct {
	Message  string
	Severity Severity
	Visible  bool
}

// ShowAlert replaces the current alert and restarts the auto-hide timer.
// Alerts never queue: the last one shown wins.
func (s *Store) ShowAlert(message string, sev Severity) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.alertTimer != nil {
		s.alertTimer.Stop()
	}
	s.alertGen++
	gen := s.alertGen
	s.alert = Alert{Message: message, Severity: sev, Visible: true}
	if s.alertTTL > 0 {
		s.alertTimer = time.AfterFunc(s.alertTTL, func() { s.expireAlert(gen) })
	}
	s.mu.Unlock()
	s.changed()
}

// DismissAlert hides the current alert immediately.
func (s *Store) DismissAlert() {
	s.mu.Lock()
	if s.alertTimer != nil {
		s.alertTimer.Stop()
		s.alertTimer = nil
	}
	wasVisible := s.alert.Visible
	s.alert.Visible = false
	s.mu.Unlock()
	if wasVisible {
		s.changed()
	}
}

// Alert returns a copy of the current alert.
func (s *Store) Alert() Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alert
}

// expireAlert hides the alert only if no newer alert replaced it.
func (s *Store) expireAlert(gen uint64) {
	s.mu.Lock()
	if gen != s.alertGen || !s.alert.Visible {
		s.mu.Unlock()
		return
	}
	s.alert.Visible = false
	s.alertTimer = nil
	s.mu.Unlock()
	s.changed()
}
