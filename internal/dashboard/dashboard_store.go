package dashboard

import "sync"

// Store memegang koleksi karyawan yang otoritatif beserta view hasil filter.
// View selalu dihitung ulang dari (records, criteria) dan tidak pernah diubah
// secara langsung.
type Store struct {
	mu       sync.RWMutex
	records  []EmployeeRecord
	criteria FilterCriteria
	view     []EmployeeRecord
	loaded   bool
}

func NewStore() *Store {
	return &Store{
		criteria: FilterCriteria{Status: StatusAll, Lock: LockAll},
		view:     []EmployeeRecord{},
	}
}

// Load replaces the whole collection.
func (s *Store) Load(records []EmployeeRecord) {
	cp := make([]EmployeeRecord, len(records))
	for i, r := range records {
		cp[i] = r.clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = cp
	s.loaded = true
	s.onCollectionChanged()
}

// Clear empties the collection and marks the store as not loaded.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.loaded = false
	s.onCollectionChanged()
}

// ApplyFilter stores the criteria and recomputes the view.
func (s *Store) ApplyFilter(c FilterCriteria) []EmployeeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = c
	s.onCriteriaChanged()
	return cloneAll(s.view)
}

// Reconcile applies fn to the record with the given id. It returns false and
// does nothing when the id is no longer in the collection.
func (s *Store) Reconcile(id string, fn func(r *EmployeeRecord)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	rec := s.records[i].clone()
	fn(&rec)
	rec.ID = id
	s.records[i] = rec
	s.onCollectionChanged()
	return true
}

// Remove deletes the record by id. Missing ids are ignored.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.records = append(s.records[:i:i], s.records[i+1:]...)
	s.onCollectionChanged()
	return true
}

func (s *Store) Get(id string) (EmployeeRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return EmployeeRecord{}, false
	}
	return s.records[i].clone(), true
}

func (s *Store) Records() []EmployeeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.records)
}

func (s *Store) View() []EmployeeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.view)
}

func (s *Store) Criteria() FilterCriteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.criteria
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// caller must hold mu
func (s *Store) onCollectionChanged() {
	s.view = Filter(s.records, s.criteria)
}

// caller must hold mu
func (s *Store) onCriteriaChanged() {
	s.view = Filter(s.records, s.criteria)
}

func (s *Store) indexOf(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(in []EmployeeRecord) []EmployeeRecord {
	out := make([]EmployeeRecord, len(in))
	for i, r := range in {
		out[i] = r.clone()
	}
	return out
}
