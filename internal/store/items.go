package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"cardapio-go/internal/category"
	"cardapio-go/internal/model"
)

// ErrNotFound is returned when an item id does not exist.
var ErrNotFound = errors.New("store: item not found")

// ValidationError rejects an item whose required fields are missing or
// whose numeric values are out of range. No state is mutated.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, reason := range e.Fields {
		parts = append(parts, field+": "+reason)
	}
	sort.Strings(parts)
	return "invalid menu item: " + strings.Join(parts, "; ")
}

// ItemStore provides row access for menu items and their variations.
// Persistence errors are wrapped with the operation and entity id; retries
// are a caller concern.
type ItemStore struct {
	db *sql.DB
}

// NewItemStore creates an ItemStore over the given database.
func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

// List returns all menu items ordered by their stored category value, so
// order-prefixed rows come out in encoded order. Category names are
// returned stripped. A variation fetch failure degrades to an item without
// variations rather than blocking the whole listing.
func (s *ItemStore) List(ctx context.Context) ([]model.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, price_cents, category, image_url,
		       is_promotion, is_popular, created_at, updated_at
		FROM menu_items
		ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("store: listing items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.MenuItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("store: listing items: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: listing items: %w", err)
	}

	for i := range items {
		variations, err := s.ListVariations(ctx, items[i].ID)
		if err != nil {
			// Non-critical read path: show the item without its
			// variations instead of failing the listing.
			continue
		}
		items[i].Variations = variations
	}
	return items, nil
}

// ListByCategory returns the items referencing the given category name.
// Rows stranded in order-prefixed form by an interrupted save are matched
// as well, so the projection stays consistent with what List displays.
func (s *ItemStore) ListByCategory(ctx context.Context, name string) ([]model.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, price_cents, category, image_url,
		       is_promotion, is_popular, created_at, updated_at
		FROM menu_items
		WHERE category = ? OR category LIKE ? ESCAPE '\'
		ORDER BY name`, name, prefixedPattern(name))
	if err != nil {
		return nil, fmt.Errorf("store: listing items in category %q: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.MenuItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("store: listing items in category %q: %w", name, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: listing items in category %q: %w", name, err)
	}

	for i := range items {
		variations, err := s.ListVariations(ctx, items[i].ID)
		if err != nil {
			continue
		}
		items[i].Variations = variations
	}
	return items, nil
}

// CountByCategory returns how many items reference the category.
func (s *ItemStore) CountByCategory(ctx context.Context, name string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM menu_items
		WHERE category = ? OR category LIKE ? ESCAPE '\'`,
		name, prefixedPattern(name)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("store: counting items in category %q: %w", name, err)
	}
	return count, nil
}

// ItemIDsByCategory returns the ids of all items in the category.
func (s *ItemStore) ItemIDsByCategory(ctx context.Context, name string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM menu_items
		WHERE category = ? OR category LIKE ? ESCAPE '\'`,
		name, prefixedPattern(name))
	if err != nil {
		return nil, fmt.Errorf("store: listing item ids in category %q: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: listing item ids in category %q: %w", name, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: listing item ids in category %q: %w", name, err)
	}
	return ids, nil
}

// Get returns a single item with its variations.
func (s *ItemStore) Get(ctx context.Context, id string) (model.MenuItem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, price_cents, category, image_url,
		       is_promotion, is_popular, created_at, updated_at
		FROM menu_items WHERE id = ?`, id)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MenuItem{}, fmt.Errorf("store: getting item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("store: getting item %s: %w", id, err)
	}

	variations, err := s.ListVariations(ctx, id)
	if err != nil {
		return model.MenuItem{}, err
	}
	item.Variations = variations
	return item, nil
}

// Create inserts a new item and its variations, assigning ids. The input
// item's id is ignored.
func (s *ItemStore) Create(ctx context.Context, item model.MenuItem) (model.MenuItem, error) {
	if err := validateItem(item); err != nil {
		return model.MenuItem{}, err
	}

	item.ID = uuid.NewString()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("store: creating item: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO menu_items (id, name, description, price_cents, category,
			image_url, is_promotion, is_popular, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Description, item.PriceCents, item.Category,
		item.ImageURL, item.IsPromotion, item.IsPopular, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("store: creating item %s: %w", item.ID, err)
	}

	saved, err := insertVariations(ctx, tx, item.ID, item.Variations, now)
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("store: creating item %s: %w", item.ID, err)
	}
	item.Variations = saved

	if err := tx.Commit(); err != nil {
		return model.MenuItem{}, fmt.Errorf("store: creating item %s: %w", item.ID, err)
	}
	return item, nil
}

// CreatePlaceholder inserts a zero-price placeholder item that keeps an
// otherwise empty category persisted.
func (s *ItemStore) CreatePlaceholder(ctx context.Context, categoryName, name, description string) error {
	_, err := s.Create(ctx, model.MenuItem{
		Name:        name,
		Description: description,
		PriceCents:  0,
		Category:    categoryName,
	})
	return err
}

// Update replaces all scalar fields of the item. A non-nil variations
// slice replaces the persisted variations wholesale: existing rows are
// deleted and the provided list reinserted, so a variation omitted from
// the list is gone even if it was unchanged. A nil slice leaves the
// persisted variations alone.
func (s *ItemStore) Update(ctx context.Context, item model.MenuItem) (model.MenuItem, error) {
	if item.ID == "" {
		return model.MenuItem{}, fmt.Errorf("store: updating item: %w", ErrNotFound)
	}
	if err := validateItem(item); err != nil {
		return model.MenuItem{}, err
	}

	now := time.Now().UTC()
	item.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("store: updating item %s: %w", item.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE menu_items
		SET name = ?, description = ?, price_cents = ?, category = ?,
		    image_url = ?, is_promotion = ?, is_popular = ?, updated_at = ?
		WHERE id = ?`,
		item.Name, item.Description, item.PriceCents, item.Category,
		item.ImageURL, item.IsPromotion, item.IsPopular, item.UpdatedAt, item.ID)
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("store: updating item %s: %w", item.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("store: updating item %s: %w", item.ID, err)
	}
	if affected == 0 {
		return model.MenuItem{}, fmt.Errorf("store: updating item %s: %w", item.ID, ErrNotFound)
	}

	if item.Variations != nil {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM menu_item_variations WHERE menu_item_id = ?`, item.ID); err != nil {
			return model.MenuItem{}, fmt.Errorf("store: updating item %s: %w", item.ID, err)
		}
		saved, err := insertVariations(ctx, tx, item.ID, item.Variations, now)
		if err != nil {
			return model.MenuItem{}, fmt.Errorf("store: updating item %s: %w", item.ID, err)
		}
		item.Variations = saved
	}

	if err := tx.Commit(); err != nil {
		return model.MenuItem{}, fmt.Errorf("store: updating item %s: %w", item.ID, err)
	}
	return item, nil
}

// Delete removes the item. Its variations are removed with it: after
// Delete returns, ListVariations for the id yields nothing.
func (s *ItemStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: deleting item %s: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM menu_item_variations WHERE menu_item_id = ?`, id); err != nil {
		return fmt.Errorf("store: deleting item %s: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: deleting item %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: deleting item %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("store: deleting item %s: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: deleting item %s: %w", id, err)
	}
	return nil
}

// RetargetCategory moves every item from one category string to another
// and returns the number of rows touched. When oldName is a clean name,
// rows stranded in its order-prefixed form by an interrupted save are
// retargeted too, so a later save or rename heals them.
func (s *ItemStore) RetargetCategory(ctx context.Context, oldName, newName string) (int64, error) {
	query := `UPDATE menu_items SET category = ?, updated_at = ? WHERE category = ?`
	args := []any{newName, time.Now().UTC(), oldName}
	if category.StripPrefix(oldName) == oldName {
		query = `UPDATE menu_items SET category = ?, updated_at = ?
			WHERE category = ? OR category LIKE ? ESCAPE '\'`
		args = append(args, prefixedPattern(oldName))
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("store: retargeting category %q to %q: %w", oldName, newName, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: retargeting category %q to %q: %w", oldName, newName, err)
	}
	return affected, nil
}

// Categories returns the distinct category names referenced by items, in
// stored order with prefixes stripped. De-duplication after stripping
// keeps a clean name and its stranded prefixed twin from showing twice.
func (s *ItemStore) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM menu_items ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("store: listing categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	seen := make(map[string]bool)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("store: listing categories: %w", err)
		}
		name := category.StripPrefix(raw)
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: listing categories: %w", err)
	}
	return names, nil
}

// ImageURLs returns the distinct non-empty image URLs referenced by
// items. Used by the upload cleanup job to find orphaned files.
func (s *ItemStore) ImageURLs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT image_url FROM menu_items WHERE image_url != ''`)
	if err != nil {
		return nil, fmt.Errorf("store: listing image urls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("store: listing image urls: %w", err)
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: listing image urls: %w", err)
	}
	return urls, nil
}

// ListVariations returns the persisted variations for an item in stored
// order.
func (s *ItemStore) ListVariations(ctx context.Context, itemID string) ([]model.Variation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price_cents FROM menu_item_variations
		WHERE menu_item_id = ? ORDER BY position`, itemID)
	if err != nil {
		return nil, fmt.Errorf("store: listing variations for item %s: %w", itemID, err)
	}
	defer func() { _ = rows.Close() }()

	var variations []model.Variation
	for rows.Next() {
		var id string
		var v model.Variation
		if err := rows.Scan(&id, &v.Name, &v.PriceCents); err != nil {
			return nil, fmt.Errorf("store: listing variations for item %s: %w", itemID, err)
		}
		v.Ref = model.SavedVariation(id)
		variations = append(variations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: listing variations for item %s: %w", itemID, err)
	}
	return variations, nil
}

// insertVariations inserts the given variations for an item, assigning
// fresh ids. Used by Create and by Update's wholesale replace.
func insertVariations(ctx context.Context, tx *sql.Tx, itemID string, variations []model.Variation, now time.Time) ([]model.Variation, error) {
	saved := make([]model.Variation, 0, len(variations))
	for i, v := range variations {
		id := uuid.NewString()
		_, err := tx.ExecContext(ctx, `
			INSERT INTO menu_item_variations (id, menu_item_id, name, price_cents, position, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			id, itemID, v.Name, v.PriceCents, i, now)
		if err != nil {
			return nil, fmt.Errorf("inserting variation %q: %w", v.Name, err)
		}
		v.Ref = model.SavedVariation(id)
		saved = append(saved, v)
	}
	return saved, nil
}

// scanItem reads one menu_items row.
func scanItem(row interface{ Scan(...any) error }) (model.MenuItem, error) {
	var item model.MenuItem
	var rawCategory string
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.PriceCents,
		&rawCategory, &item.ImageURL, &item.IsPromotion, &item.IsPopular,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return model.MenuItem{}, err
	}
	item.Category = category.StripPrefix(rawCategory)
	return item, nil
}

// validateItem enforces the adapter's field constraints: name, description
// and category are required; prices must be non-negative (zero is allowed,
// placeholder items rely on it).
func validateItem(item model.MenuItem) error {
	fields := make(map[string]string)
	if strings.TrimSpace(item.Name) == "" {
		fields["name"] = "required"
	}
	if strings.TrimSpace(item.Description) == "" {
		fields["description"] = "required"
	}
	if strings.TrimSpace(item.Category) == "" {
		fields["category"] = "required"
	}
	if item.PriceCents < 0 {
		fields["price_cents"] = "must not be negative"
	}
	for i, v := range item.Variations {
		if strings.TrimSpace(v.Name) == "" {
			fields[fmt.Sprintf("variations[%d].name", i)] = "required"
		}
		if v.PriceCents < 0 {
			fields[fmt.Sprintf("variations[%d].price_cents", i)] = "must not be negative"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// prefixedPattern builds the LIKE pattern matching any 3-digit order
// prefix of the given category name, escaping LIKE metacharacters in the
// name itself.
func prefixedPattern(name string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(name)
	return "___:" + escaped
}
