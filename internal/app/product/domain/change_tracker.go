package domain

import "sort"

// ChangeTracker records which Product fields were touched since the last load,
// so the repository writes only those columns.
type ChangeTracker struct {
	dirty map[string]bool
}

func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{dirty: make(map[string]bool)}
}

func (ct *ChangeTracker) MarkDirty(field string) {
	ct.dirty[field] = true
}

func (ct *ChangeTracker) Dirty(field string) bool {
	return ct.dirty[field]
}

// Clear forgets all recorded changes.
func (ct *ChangeTracker) Clear() {
	ct.dirty = make(map[string]bool)
}

func (ct *ChangeTracker) HasChanges() bool {
	return len(ct.dirty) > 0
}

// DirtyFields returns the touched field names in sorted order.
func (ct *ChangeTracker) DirtyFields() []string {
	fields := make([]string, 0, len(ct.dirty))
	for field := range ct.dirty {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
