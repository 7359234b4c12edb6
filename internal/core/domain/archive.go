package domain

import "time"

// ArchiveState is the soft-delete tag of projects, groups and tasks.
// It persists as a nullable archived_at column.
type ArchiveState struct {
	archivedAt *time.Time
}

// ActiveState returns the state of a row that has never been archived.
func ActiveState() ArchiveState {
	return ArchiveState{}
}

// ArchiveStateFrom rebuilds the state from its stored column value.
func ArchiveStateFrom(archivedAt *time.Time) ArchiveState {
	if archivedAt == nil {
		return ArchiveState{}
	}
	t := *archivedAt
	return ArchiveState{archivedAt: &t}
}

func (s ArchiveState) IsArchived() bool { return s.archivedAt != nil }

func (s ArchiveState) IsActive() bool { return s.archivedAt == nil }

// ArchivedAt returns the stored column value, nil while active.
func (s ArchiveState) ArchivedAt() *time.Time {
	if s.archivedAt == nil {
		return nil
	}
	t := *s.archivedAt
	return &t
}

// Archive moves the state to Archived. Archiving twice keeps the first timestamp.
func (s ArchiveState) Archive(now time.Time) ArchiveState {
	if s.archivedAt != nil {
		return s
	}
	return ArchiveState{archivedAt: &now}
}

// Restore moves the state back to Active.
func (s ArchiveState) Restore() ArchiveState {
	return ArchiveState{}
}

func (s ArchiveState) String() string {
	if s.IsArchived() {
		return "archived"
	}
	return "active"
}
