package dashboard

import (
	"sync"

	dashboarderrors "hris-admin/internal/dashboard/errors"
)

type ModalState string

const (
	StateIdle        ModalState = "idle"
	StateMenuOpen    ModalState = "menu_open"
	StateConfirmOpen ModalState = "confirm_open"
)

// maxPhraseAttempts membatasi regenerasi kalau token kebetulan sama dengan
// frasa sebelumnya untuk record yang sama.
const maxPhraseAttempts = 8

// SelectionSnapshot is a read-only copy of the controller state.
type SelectionSnapshot struct {
	State   ModalState
	RowID   string
	Pending *PendingDeletion
}

// Selection tracks which row menu is open and which row the delete
// confirmation targets. Rows are addressed by record id only.
type Selection struct {
	mu         sync.Mutex
	gate       *Gate
	state      ModalState
	rowID      string
	pending    *PendingDeletion
	claimed    bool
	lastPhrase map[string]string
}

func NewSelection(gate *Gate) *Selection {
	if gate == nil {
		gate = NewGate()
	}
	return &Selection{
		gate:       gate,
		state:      StateIdle,
		lastPhrase: make(map[string]string),
	}
}

// OpenMenu collapses any other menu or modal and opens the menu of rowID.
func (s *Selection) OpenMenu(rowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	s.claimed = false
	s.state = StateMenuOpen
	s.rowID = rowID
}

// OpenDeleteConfirmation moves from MenuOpen(r.ID) to ConfirmOpen(r.ID) and
// issues a fresh phrase. The new phrase never equals the previous one issued
// for the same record.
func (s *Selection) OpenDeleteConfirmation(r EmployeeRecord, permanent bool) (PendingDeletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateMenuOpen || s.rowID != r.ID {
		return PendingDeletion{}, dashboarderrors.ErrNoMenuOpen
	}

	var phrase string
	for attempt := 0; attempt < maxPhraseAttempts; attempt++ {
		p, err := s.gate.Phrase(r)
		if err != nil {
			return PendingDeletion{}, err
		}
		phrase = p
		if phrase != s.lastPhrase[r.ID] {
			break
		}
	}
	s.lastPhrase[r.ID] = phrase

	s.claimed = false
	s.pending = &PendingDeletion{
		RecordID:  r.ID,
		Label:     r.Label(),
		Permanent: permanent,
		Phrase:    phrase,
	}
	s.state = StateConfirmOpen
	s.rowID = r.ID
	return *s.pending, nil
}

// Enter records the user's typed text and reports whether the gate is open.
func (s *Selection) Enter(text string) (PendingDeletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateConfirmOpen || s.pending == nil || s.claimed {
		return PendingDeletion{}, dashboarderrors.ErrNoPendingDeletion
	}
	s.pending.Entered = text
	return *s.pending, nil
}

// Pending returns the current pending deletion, if any.
func (s *Selection) Pending() (PendingDeletion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return PendingDeletion{}, false
	}
	return *s.pending, true
}

// Close returns to Idle and discards any pending deletion.
func (s *Selection) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// CloseIfTargets closes the controller when it points at rowID.
// Used when a record disappears while its menu or modal is open.
func (s *Selection) CloseIfTargets(rowID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle || s.rowID != rowID {
		return false
	}
	s.reset()
	return true
}

// Claim checks the gate and marks the pending deletion as in flight. A phrase
// can be claimed once; other callers get ErrNoPendingDeletion until Release.
func (s *Selection) Claim() (PendingDeletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateConfirmOpen || s.pending == nil || s.claimed {
		return PendingDeletion{}, dashboarderrors.ErrNoPendingDeletion
	}
	if !s.pending.Confirmed() {
		return *s.pending, dashboarderrors.ErrConfirmationMismatch
	}
	s.claimed = true
	return *s.pending, nil
}

// Release gives a failed claim back so the user can retry the same phrase.
func (s *Selection) Release(p PendingDeletion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.samePending(p) {
		s.claimed = false
	}
}

// CompleteIf resets to Idle only if the pending deletion still targets rowID
// with the same phrase. A newer confirmation opened meanwhile is kept.
// The record is gone either way, so its last phrase is dropped.
func (s *Selection) CompleteIf(p PendingDeletion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lastPhrase, p.RecordID)
	if s.samePending(p) {
		s.reset()
	}
}

// Forget drops the remembered phrase of records that no longer exist.
func (s *Selection) Forget(rowIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range rowIDs {
		delete(s.lastPhrase, id)
	}
}

// Prune keeps remembered phrases only for ids where keep returns true.
func (s *Selection) Prune(keep func(rowID string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.lastPhrase {
		if !keep(id) {
			delete(s.lastPhrase, id)
		}
	}
}

// Remembered returns how many records still have a remembered phrase.
func (s *Selection) Remembered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lastPhrase)
}

func (s *Selection) samePending(p PendingDeletion) bool {
	return s.pending != nil && s.pending.RecordID == p.RecordID && s.pending.Phrase == p.Phrase
}

func (s *Selection) Snapshot() SelectionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := SelectionSnapshot{State: s.state, RowID: s.rowID}
	if s.pending != nil {
		p := *s.pending
		snap.Pending = &p
	}
	return snap
}

func (s *Selection) reset() {
	s.state = StateIdle
	s.rowID = ""
	s.pending = nil
	s.claimed = false
}
