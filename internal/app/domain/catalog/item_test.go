package catalog

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestCollectionValid(t *testing.T) {
	if !Skins.Valid() || !Agents.Valid() {
		t.Fatal("known collections must be valid")
	}
	if Collection("stickers").Valid() {
		t.Fatal("unknown collection must be invalid")
	}
}

func TestValidate(t *testing.T) {
	price := 10.0
	negative := -1.0

	cases := []struct {
		name      string
		item      Item
		wantField string
	}{
		{"ok", Item{Name: "AK-47 | Asiimov", Price: &price}, ""},
		{"ok without price", Item{Name: "Agent"}, ""},
		{"missing name", Item{Price: &price}, "name"},
		{"negative price", Item{Name: "X", Price: &negative}, "price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.item.Validate()
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.wantField {
				t.Fatalf("field = %q, want %q", verr.Field, tc.wantField)
			}
		})
	}
}

func TestImageURL(t *testing.T) {
	cases := []struct {
		image string
		want  bool
	}{
		{"", false},
		{"not a url at all\x7f", false},
		{"relative/path.png", false},
		{"https://example.com/skin.png", true},
	}
	for _, tc := range cases {
		got := Item{Image: tc.image}.ImageURL()
		if (got != nil) != tc.want {
			t.Fatalf("ImageURL(%q) = %v, want present=%v", tc.image, got, tc.want)
		}
	}
}

func TestPatchApply(t *testing.T) {
	price := 35.75
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	base := Item{
		ID:        "ak47_asiimov",
		Name:      "AK-47 | Asiimov",
		Category:  "Rifle",
		Price:     &price,
		Rarity:    &Rarity{Name: "Classified", Color: "#d32ce6"},
		CreatedAt: &created,
	}

	newName := "AK-47 | Asiimov (Field-Tested)"
	newPrice := 32.10
	patched := Patch{Name: &newName, Price: &newPrice}.Apply(base)

	if patched.Name != newName || *patched.Price != newPrice {
		t.Fatalf("patched fields not applied: %+v", patched)
	}
	if patched.ID != base.ID || patched.Category != "Rifle" || patched.Rarity.Name != "Classified" {
		t.Fatalf("untouched fields changed: %+v", patched)
	}
	if patched.CreatedAt != base.CreatedAt {
		t.Fatal("createdAt must never be patched")
	}

	// The original is untouched and the patch does not alias its pointers.
	if base.Name != "AK-47 | Asiimov" || *base.Price != 35.75 {
		t.Fatalf("base mutated: %+v", base)
	}
	*patched.Price = 1
	if *base.Price != 35.75 {
		t.Fatal("patched price aliases the base item")
	}
}

func TestEmptyPatchIsIdentity(t *testing.T) {
	price := 1850.0
	base := Item{ID: "awp_dragon_lore", Name: "AWP | Dragon Lore", Price: &price}

	patched := Patch{}.Apply(base)
	if patched.Name != base.Name || patched.Price != base.Price || patched.ID != base.ID {
		t.Fatalf("empty patch changed the item: %+v", patched)
	}
}

func TestItemJSONShape(t *testing.T) {
	price := 35.75
	item := Item{ID: "x", Name: "X", Price: &price}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, unwanted := range []string{"rarity", "team", "createdAt", "updatedAt", "description"} {
		if containsField(t, data, unwanted) {
			t.Fatalf("nil field %q leaked into JSON: %s", unwanted, data)
		}
	}
}

func containsField(t *testing.T, data []byte, field string) bool {
	t.Helper()
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	_, ok := m[field]
	return ok
}
