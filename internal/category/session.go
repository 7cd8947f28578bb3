package category

import (
	"context"
	"fmt"
	"slices"
)

// Placeholder item content for categories saved before they have any real
// item. A zero-price placeholder keeps the category visible and persisted.
const (
	PlaceholderNamePrefix  = "Novo Item em "
	PlaceholderDescription = "Descrição do item"
)

// Direction selects the neighbor for Move.
type Direction string

// Move directions
const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Store is the slice of the menu item store the session needs. It is
// satisfied by *store.ItemStore.
type Store interface {
	// CountByCategory returns how many items reference the category.
	CountByCategory(ctx context.Context, name string) (int64, error)
	// ItemIDsByCategory returns the ids of all items in the category.
	ItemIDsByCategory(ctx context.Context, name string) ([]string, error)
	// CreatePlaceholder inserts a zero-price placeholder item so an
	// otherwise empty category stays persisted.
	CreatePlaceholder(ctx context.Context, category, name, description string) error
	// Delete removes a single item; its variations go with it.
	Delete(ctx context.Context, id string) error
	// RetargetCategory moves every item from one category string to
	// another and returns the number of rows touched.
	RetargetCategory(ctx context.Context, oldName, newName string) (int64, error)
}

// Session is one category editing session. It is constructed from a
// snapshot of the persisted category list when editing starts and discarded
// when editing ends; Add, Move and delete confirmation mutate only the
// working list, while Rename persists immediately and Save reconciles
// everything else. Not safe for concurrent use; a session belongs to a
// single editing flow.
type Session struct {
	store    Store
	original []string
	working  []string

	// pendingDelete holds at most one category name staged by
	// RequestDelete and resolved by ConfirmDelete or CancelDelete.
	pendingDelete    string
	hasPendingDelete bool
}

// NewSession starts an editing session over the given snapshot of the
// persisted category list.
func NewSession(st Store, categories []string) *Session {
	return &Session{
		store:    st,
		original: slices.Clone(categories),
		working:  slices.Clone(categories),
	}
}

// ResumeSession rebuilds an editing session from externally held original
// and working lists, typically shipped back by a client that ran the edit
// flow on its side. The usual entry point after resuming is Save.
func ResumeSession(st Store, original, working []string) *Session {
	return &Session{
		store:    st,
		original: slices.Clone(original),
		working:  slices.Clone(working),
	}
}

// Working returns a copy of the current working list.
func (s *Session) Working() []string {
	return slices.Clone(s.working)
}

// Original returns a copy of the snapshot the session reconciles against.
func (s *Session) Original() []string {
	return slices.Clone(s.original)
}

// PendingDelete returns the category staged for deletion, if any.
func (s *Session) PendingDelete() (string, bool) {
	return s.pendingDelete, s.hasPendingDelete
}

// Add appends a new category to the working list. Purely in memory; the
// category reaches the store on Save via a placeholder item.
func (s *Session) Add(name string) error {
	name = normalizeName(name)
	if name == "" {
		return ErrEmptyName
	}
	if slices.Contains(s.working, name) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	s.working = append(s.working, name)
	return nil
}

// Rename validates like Add but allows renaming an entry to its current
// value as a no-op. On success it persists immediately by retargeting every
// item of the old name, then updates the working list. A store failure
// leaves both lists untouched.
//
// The snapshot is updated alongside the working list: the rename already
// landed in the store, so leaving the old name in the snapshot would make a
// later Save treat it as a removal and cascade-delete the renamed items.
func (s *Session) Rename(ctx context.Context, index int, newName string) error {
	if index < 0 || index >= len(s.working) {
		return fmt.Errorf("%w: %d", ErrIndexRange, index)
	}
	newName = normalizeName(newName)
	if newName == "" {
		return ErrEmptyName
	}
	oldName := s.working[index]
	if newName == oldName {
		return nil
	}
	if slices.Contains(s.working, newName) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, newName)
	}

	if _, err := s.store.RetargetCategory(ctx, oldName, newName); err != nil {
		return fmt.Errorf("renaming category %q: %w", oldName, err)
	}

	s.working[index] = newName
	for i, n := range s.original {
		if n == oldName {
			s.original[i] = newName
		}
	}
	return nil
}

// RequestDelete stages the category at index for deletion. The list is not
// touched until ConfirmDelete.
func (s *Session) RequestDelete(index int) error {
	if index < 0 || index >= len(s.working) {
		return fmt.Errorf("%w: %d", ErrIndexRange, index)
	}
	s.pendingDelete = s.working[index]
	s.hasPendingDelete = true
	return nil
}

// CancelDelete drops the staged deletion.
func (s *Session) CancelDelete() {
	s.pendingDelete = ""
	s.hasPendingDelete = false
}

// ConfirmDelete resolves the staged deletion. A category that still has
// items is never removed: the call fails with a NotEmptyError carrying the
// blocking count so the user can move or delete those items first. Either
// way the staged deletion is cleared.
func (s *Session) ConfirmDelete(ctx context.Context) error {
	if !s.hasPendingDelete {
		return ErrNoPending
	}
	name := s.pendingDelete
	s.CancelDelete()

	count, err := s.store.CountByCategory(ctx, name)
	if err != nil {
		return fmt.Errorf("counting items in category %q: %w", name, err)
	}
	if count > 0 {
		return &NotEmptyError{Name: name, Count: count}
	}

	if i := slices.Index(s.working, name); i >= 0 {
		s.working = slices.Delete(s.working, i, i+1)
	}
	return nil
}

// Move swaps the entry at index with its neighbor in the given direction.
// A move past either end is a no-op. Purely in memory.
func (s *Session) Move(index int, dir Direction) error {
	if index < 0 || index >= len(s.working) {
		return fmt.Errorf("%w: %d", ErrIndexRange, index)
	}
	j := index - 1
	if dir == Down {
		j = index + 1
	}
	if j < 0 || j >= len(s.working) {
		return nil
	}
	s.working[index], s.working[j] = s.working[j], s.working[index]
	return nil
}

// Save reconciles the working list against the snapshot:
//
//   - categories added this session get a placeholder item unless items
//     already reference them
//   - categories removed this session have every item deleted, without the
//     ConfirmDelete guard
//   - if the sequence changed at all, every category's items are rewritten
//     through the order codec: first retargeted to the prefixed form, then
//     stripped back
//
// Steps run sequentially and are not rolled back. Any failure surfaces as
// ErrPartialSave: steps before the failing one have landed, later ones
// never started, and the caller must re-fetch authoritative state because
// the session no longer mirrors the store. A working list identical to the
// snapshot in membership and order issues no store calls.
func (s *Session) Save(ctx context.Context) error {
	if slices.Equal(s.working, s.original) {
		return nil
	}

	toAdd := diff(s.working, s.original)
	toRemove := diff(s.original, s.working)

	// Encode up front so a capacity overflow fails before any write.
	encoded, err := EncodeOrder(s.working)
	if err != nil {
		return err
	}

	for _, name := range toAdd {
		count, err := s.store.CountByCategory(ctx, name)
		if err != nil {
			return &partialSaveError{step: fmt.Sprintf("counting items in %q", name), err: err}
		}
		if count > 0 {
			continue
		}
		if err := s.store.CreatePlaceholder(ctx, name, PlaceholderNamePrefix+name, PlaceholderDescription); err != nil {
			return &partialSaveError{step: fmt.Sprintf("creating placeholder in %q", name), err: err}
		}
	}

	for _, name := range toRemove {
		ids, err := s.store.ItemIDsByCategory(ctx, name)
		if err != nil {
			return &partialSaveError{step: fmt.Sprintf("listing items in %q", name), err: err}
		}
		for _, id := range ids {
			if err := s.store.Delete(ctx, id); err != nil {
				return &partialSaveError{step: fmt.Sprintf("deleting item %s in %q", id, name), err: err}
			}
		}
	}

	// Two-phase order rewrite: prefix-assign, then strip. The prefixed
	// names are globally unique, so no two categories ever hold the same
	// name mid-rewrite. Rows stranded in prefixed form by a failure
	// between the phases still render via StripPrefix on the read path.
	for _, name := range s.working {
		if _, err := s.store.RetargetCategory(ctx, name, encoded[name]); err != nil {
			return &partialSaveError{step: fmt.Sprintf("prefixing category %q", name), err: err}
		}
	}
	for _, name := range s.working {
		if _, err := s.store.RetargetCategory(ctx, encoded[name], name); err != nil {
			return &partialSaveError{step: fmt.Sprintf("stripping category %q", name), err: err}
		}
	}

	s.original = slices.Clone(s.working)
	return nil
}

// diff returns the entries of a that are not in b, preserving a's order.
func diff(a, b []string) []string {
	var out []string
	for _, n := range a {
		if !slices.Contains(b, n) {
			out = append(out, n)
		}
	}
	return out
}
