package sync

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/eberechi/shopsync-backend/pkg/logger"
)

type ConflictType string

const (
	ConflictDataMismatch    ConflictType = "data_mismatch"
	ConflictTimestamp       ConflictType = "timestamp_conflict"
	ConflictDuplicateRecord ConflictType = "duplicate_record"
	ConflictValidation      ConflictType = "validation_error"
)

type ConflictSeverity string

const (
	SeverityLow    ConflictSeverity = "low"
	SeverityMedium ConflictSeverity = "medium"
	SeverityHigh   ConflictSeverity = "high"
)

// Conflict is one discrepancy noticed between local and remote data. Purely
// advisory: conflicts never block a sync cycle, they queue up for an
// operator to review.
type Conflict struct {
	ID            string           `json:"id"`
	Type          ConflictType     `json:"type"`
	Severity      ConflictSeverity `json:"severity"`
	Description   string           `json:"description"`
	AffectedTable string           `json:"affected_table"`
	CreatedAt     time.Time        `json:"created_at"`
	Resolved      bool             `json:"resolved"`
	Resolution    string           `json:"resolution,omitempty"`
	ResolvedAt    *time.Time       `json:"resolved_at,omitempty"`
}

// ConflictTracker is a process-lifetime registry of detected conflicts.
type ConflictTracker struct {
	mu        sync.RWMutex
	conflicts map[string]*Conflict
}

func NewConflictTracker() *ConflictTracker {
	return &ConflictTracker{
		conflicts: make(map[string]*Conflict),
	}
}

// Record adds a new unresolved conflict and returns its id.
func (t *ConflictTracker) Record(ctype ConflictType, severity ConflictSeverity, table, description string) string {
	c := &Conflict{
		ID:            uuid.NewString(),
		Type:          ctype,
		Severity:      severity,
		Description:   description,
		AffectedTable: table,
		CreatedAt:     time.Now(),
	}

	t.mu.Lock()
	t.conflicts[c.ID] = c
	t.mu.Unlock()

	logger.Warn("Sync conflict recorded", map[string]interface{}{
		"conflict_id": c.ID,
		"type":        ctype,
		"table":       table,
		"description": description,
	})
	return c.ID
}

// Active returns unresolved conflicts, oldest first.
func (t *ConflictTracker) Active() []Conflict {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]Conflict, 0, len(t.conflicts))
	for _, c := range t.conflicts {
		if !c.Resolved {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// All returns every tracked conflict including resolved ones, oldest first.
func (t *ConflictTracker) All() []Conflict {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]Conflict, 0, len(t.conflicts))
	for _, c := range t.conflicts {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Resolve marks the conflict resolved with the given note and drops it from
// the active list. Returns false if no such conflict exists.
func (t *ConflictTracker) Resolve(id, resolution string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.conflicts[id]
	if !ok || c.Resolved {
		return false
	}

	now := time.Now()
	c.Resolved = true
	c.Resolution = resolution
	c.ResolvedAt = &now

	logger.Info("Sync conflict resolved", map[string]interface{}{
		"conflict_id": id,
		"resolution":  resolution,
	})
	return true
}
