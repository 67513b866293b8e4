package automation

import (
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/books_automation/models"
	"github.com/google/uuid"
)

// LogRing keeps the most recent automation log entries for external display.
// Process-lifetime only; the cap bounds memory across long uptimes.
type LogRing struct {
	mu      sync.Mutex
	cap     int
	entries []models.AutomationLogEntry
}

func NewLogRing(capacity int) *LogRing {
	if capacity <= 0 {
		capacity = 200
	}
	return &LogRing{cap: capacity}
}

func (r *LogRing) Append(entries ...models.AutomationLogEntry) {
	if len(entries) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entries...)
	if over := len(r.entries) - r.cap; over > 0 {
		r.entries = append([]models.AutomationLogEntry(nil), r.entries[over:]...)
	}
}

// Entries returns a copy, oldest first.
func (r *LogRing) Entries() []models.AutomationLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.AutomationLogEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *LogRing) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func NewLogEntry(ruleName string, detail string, status models.AutomationRunStatus) models.AutomationLogEntry {
	return models.AutomationLogEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		RuleName:  ruleName,
		Detail:    detail,
		Status:    status,
	}
}
