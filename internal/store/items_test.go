package store_test

import (
	"context"
	"errors"
	"testing"

	"cardapio-go/internal/model"
	"cardapio-go/internal/store"
	"cardapio-go/internal/testutil"
)

func newItem(name, category string) model.MenuItem {
	return model.MenuItem{
		Name:        name,
		Description: "descrição de teste",
		PriceCents:  1250,
		Category:    category,
	}
}

func TestItemCreateAndGet(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	items := store.NewItemStore(db)
	ctx := context.Background()

	in := newItem("X-Salada", "Lanches")
	in.Variations = []model.Variation{
		{Ref: model.UnsavedVariation(), Name: "Simples", PriceCents: 1800},
		{Ref: model.UnsavedVariation(), Name: "Duplo", PriceCents: 2400},
	}

	created, err := items.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Error("expected an assigned id")
	}
	for i, v := range created.Variations {
		if !v.Ref.Saved() {
			t.Errorf("variation %d not marked saved", i)
		}
	}

	got, err := items.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "X-Salada" || got.Category != "Lanches" {
		t.Errorf("got %q in %q, want X-Salada in Lanches", got.Name, got.Category)
	}
	if len(got.Variations) != 2 {
		t.Fatalf("got %d variations, want 2", len(got.Variations))
	}
	if got.Variations[0].Name != "Simples" || got.Variations[1].Name != "Duplo" {
		t.Errorf("variations out of order: %q, %q", got.Variations[0].Name, got.Variations[1].Name)
	}
}

func TestItemGetNotFound(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	items := store.NewItemStore(db)

	_, err := items.Get(context.Background(), "no-such-id")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestItemCreateValidation(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	items := store.NewItemStore(db)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*model.MenuItem)
		field  string
	}{
		{"empty name", func(m *model.MenuItem) { m.Name = " " }, "name"},
		{"empty description", func(m *model.MenuItem) { m.Description = "" }, "description"},
		{"empty category", func(m *model.MenuItem) { m.Category = "" }, "category"},
		{"negative price", func(m *model.MenuItem) { m.PriceCents = -1 }, "price_cents"},
		{"empty variation name", func(m *model.MenuItem) {
			m.Variations = []model.Variation{{Name: "", PriceCents: 100}}
		}, "variations[0].name"},
		{"negative variation price", func(m *model.MenuItem) {
			m.Variations = []model.Variation{{Name: "Grande", PriceCents: -5}}
		}, "variations[0].price_cents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := newItem("Pastel", "Salgados")
			tt.mutate(&item)

			_, err := items.Create(ctx, item)
			var verr *store.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("got %v, want ValidationError", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Errorf("fields %v missing %q", verr.Fields, tt.field)
			}
		})
	}
}

func TestItemUpdateReplacesVariationsWholesale(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	items := store.NewItemStore(db)
	ctx := context.Background()

	in := newItem("Açaí", "Sobremesas")
	in.Variations = []model.Variation{
		{Name: "300ml", PriceCents: 1200},
		{Name: "500ml", PriceCents: 1800},
	}
	created, err := items.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A present list replaces everything, even variations that were
	// unchanged but omitted.
	created.Variations = []model.Variation{
		{Ref: model.UnsavedVariation(), Name: "700ml", PriceCents: 2400},
	}
	updated, err := items.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Variations) != 1 || updated.Variations[0].Name != "700ml" {
		t.Fatalf("got variations %v, want only 700ml", updated.Variations)
	}

	persisted, err := items.ListVariations(ctx, created.ID)
	if err != nil {
		t.Fatalf("ListVariations: %v", err)
	}
	if len(persisted) != 1 || persisted[0].Name != "700ml" {
		t.Errorf("persisted %v, want only 700ml", persisted)
	}
}

func TestItemUpdateNilVariationsLeavesThem(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	items := store.NewItemStore(db)
	ctx := context.Background()

	in := newItem("Suco de Laranja", "Bebidas")
	in.Variations = []model.Variation{{Name: "Copo", PriceCents: 800}}
	created, err := items.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	created.PriceCents = 900
	created.Variations = nil
	if _, err := items.Update(ctx, created); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := items.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.PriceCents != 900 {
		t.Errorf("price = %d, want 900", got.PriceCents)
	}
	if len(got.Variations) != 1 || got.Variations[0].Name != "Copo" {
		t.Errorf("variations = %v, want untouched Copo", got.Variations)
	}
}

func TestItemDeleteCascadesVariations(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	items := store.NewItemStore(db)
	ctx := context.Background()

	in := newItem("Pizza Margherita", "Pizzas")
	in.Variations = []model.Variation{
		{Name: "Média", PriceCents: 3500},
		{Name: "Grande", PriceCents: 4500},
	}
	created, err := items.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := items.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := items.Get(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get after delete: got %v, want ErrNotFound", err)
	}
	variations, err := items.ListVariations(ctx, created.ID)
	if err != nil {
		t.Fatalf("ListVariations: %v", err)
	}
	if len(variations) != 0 {
		t.Errorf("got %d variations after delete, want 0", len(variations))
	}
}

func TestItemDeleteNotFound(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	items := store.NewItemStore(db)

	if err := items.Delete(context.Background(), "no-such-id"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestCategoriesStripPrefixesAndDedup(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	items := store.NewItemStore(db)
	ctx := context.Background()

	// Stored values carry order prefixes; one row was stranded in clean
	// form by an interrupted save.
	for _, cat := range []string{"000:Entradas", "001:Pratos", "Pratos"} {
		if _, err := items.Create(ctx, newItem("Item em "+cat, cat)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := items.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	want := []string{"Entradas", "Pratos"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("category %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestListStripsCategoryPrefix(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	items := store.NewItemStore(db)
	ctx := context.Background()

	if _, err := items.Create(ctx, newItem("Caipirinha", "002:Drinks")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := items.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Category != "Drinks" {
		t.Errorf("got %v, want one item in Drinks", list)
	}
}

func TestListByCategoryMatchesPrefixedRows(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	items := store.NewItemStore(db)
	ctx := context.Background()

	if _, err := items.Create(ctx, newItem("Brigadeiro", "003:Doces")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := items.Create(ctx, newItem("Beijinho", "Doces")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := items.ListByCategory(ctx, "Doces")
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d items, want 2", len(list))
	}

	count, err := items.CountByCategory(ctx, "Doces")
	if err != nil {
		t.Fatalf("CountByCategory: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestRetargetCategoryHealsPrefixedRows(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	items := store.NewItemStore(db)
	ctx := context.Background()

	a, err := items.Create(ctx, newItem("Água", "005:Bebidas"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := items.Create(ctx, newItem("Refrigerante", "Bebidas"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	affected, err := items.RetargetCategory(ctx, "Bebidas", "Sucos")
	if err != nil {
		t.Fatalf("RetargetCategory: %v", err)
	}
	if affected != 2 {
		t.Errorf("affected = %d, want 2", affected)
	}

	for _, id := range []string{a.ID, b.ID} {
		got, err := items.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Category != "Sucos" {
			t.Errorf("item %s category = %q, want Sucos", id, got.Category)
		}
	}
}

func TestImageURLs(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	items := store.NewItemStore(db)
	ctx := context.Background()

	withImage := newItem("Feijoada", "Pratos")
	withImage.ImageURL = "/uploads/menu_images/originals/abc/feijoada.jpg"
	if _, err := items.Create(ctx, withImage); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := items.Create(ctx, newItem("Arroz", "Pratos")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	urls, err := items.ImageURLs(ctx)
	if err != nil {
		t.Fatalf("ImageURLs: %v", err)
	}
	if len(urls) != 1 || urls[0] != withImage.ImageURL {
		t.Errorf("got %v, want just the feijoada URL", urls)
	}
}
