package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	domain "github.com/cswatch/catalog/internal/app/domain/catalog"
	catalogsvc "github.com/cswatch/catalog/internal/app/services/catalog"
	"github.com/cswatch/catalog/internal/app/storage/memory"
)

func price(v float64) *float64 { return &v }

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	store := memory.New()
	store.Seed(domain.Skins, []domain.Item{
		{ID: "ak47_asiimov", Name: "AK-47 | Asiimov", Category: "Rifle", Price: price(35.75), Rarity: &domain.Rarity{Name: "Classified", Color: "#d32ce6"}},
		{ID: "awp_dragon_lore", Name: "AWP | Dragon Lore", Category: "Sniper Rifle", Price: price(1850.00), Rarity: &domain.Rarity{Name: "Covert", Color: "#eb4b4b"}},
		{ID: "m4a4_howl", Name: "M4A4 | Howl", Category: "Rifle", Price: price(2100.00), Rarity: &domain.Rarity{Name: "Contraband", Color: "#e4ae39"}},
	})
	store.Seed(domain.Agents, []domain.Item{
		{ID: "agent_ava", Name: "Special Agent Ava | FBI", Rarity: &domain.Rarity{Name: "Distinguished", Color: "#4b69ff"}, Team: &domain.Team{Name: "Counter-Terrorists"}},
		{ID: "agent_sabre", Name: "Dragomir | Sabre", Rarity: &domain.Rarity{Name: "Exceptional", Color: "#8847ff"}, Team: &domain.Team{Name: "Terrorists"}},
	})

	r := mux.NewRouter()
	Register(r, catalogsvc.New(store, nil), nil)
	return r
}

func doRequest(t *testing.T, r *mux.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) listEnvelope {
	t.Helper()
	var env listEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return env
}

func TestListSkinsUnfiltered(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(t, r, http.MethodGet, "/skins", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q", got)
	}

	env := decodeEnvelope(t, rec)
	if env.Count != 3 || len(env.Data) != 3 {
		t.Fatalf("expected 3 skins, got count=%d len=%d", env.Count, len(env.Data))
	}
}

func TestListSkinsFilters(t *testing.T) {
	r := newTestRouter(t)

	cases := []struct {
		name   string
		target string
		want   []string
	}{
		{"name substring", "/skins?name=asii", []string{"ak47_asiimov"}},
		{"category exact", "/skins?category=Rifle", []string{"ak47_asiimov", "m4a4_howl"}},
		{"rarity all sentinel", "/skins?rarity=all", []string{"ak47_asiimov", "awp_dragon_lore", "m4a4_howl"}},
		{"min price", "/skins?minPrice=1000", []string{"awp_dragon_lore", "m4a4_howl"}},
		{"price band", "/skins?minPrice=30&maxPrice=40", []string{"ak47_asiimov"}},
		{"limit", "/skins?limit=2", []string{"ak47_asiimov", "awp_dragon_lore"}},
		{"offset then limit", "/skins?offset=1&limit=1", []string{"awp_dragon_lore"}},
		{"no match", "/skins?name=kitten", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, r, http.MethodGet, tc.target, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			env := decodeEnvelope(t, rec)
			if env.Count != len(tc.want) {
				t.Fatalf("count = %d, want %d (body %s)", env.Count, len(tc.want), rec.Body.String())
			}
			for i, id := range tc.want {
				if env.Data[i].ID != id {
					t.Fatalf("data[%d] = %s, want %s", i, env.Data[i].ID, id)
				}
			}
		})
	}
}

func TestListAgentsTeamFilter(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(t, r, http.MethodGet, "/agents?team=terror", "")
	env := decodeEnvelope(t, rec)
	// "terror" is a substring of both team names.
	if env.Count != 2 {
		t.Fatalf("count = %d, body %s", env.Count, rec.Body.String())
	}

	rec = doRequest(t, r, http.MethodGet, "/agents?team=counter", "")
	env = decodeEnvelope(t, rec)
	if env.Count != 1 || env.Data[0].ID != "agent_ava" {
		t.Fatalf("unexpected result: %s", rec.Body.String())
	}
}

func TestGetSkin(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(t, r, http.MethodGet, "/skins/ak47_asiimov", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var item domain.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &item); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if item.Name != "AK-47 | Asiimov" {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestGetSkinNotFound(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(t, r, http.MethodGet, "/skins/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["code"] != "not_found" || body["error"] == "" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestCreateSkin(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/skins", `{"name":"Glock-18 | Fade","category":"Pistol","price":900.00}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created domain.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.CreatedAt == nil || created.UpdatedAt == nil {
		t.Fatalf("server fields not stamped: %+v", created)
	}

	// The new skin is visible to a follow-up read.
	rec = doRequest(t, r, http.MethodGet, "/skins/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("created skin not readable: %d", rec.Code)
	}
}

func TestCreateSkinValidation(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/skins", `{"category":"Pistol"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["code"] != "validation_error" || body["field"] != "name" {
		t.Fatalf("unexpected validation body: %v", body)
	}
}

func TestCreateSkinRejectsUnknownFields(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/skins", `{"name":"X","bogus":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateSkinPartialPatch(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPut, "/skins/ak47_asiimov", `{"price":40.00}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var updated domain.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Price == nil || *updated.Price != 40.00 {
		t.Fatalf("price not patched: %+v", updated)
	}
	if updated.Name != "AK-47 | Asiimov" || updated.Category != "Rifle" {
		t.Fatalf("untouched fields were lost: %+v", updated)
	}
	if updated.UpdatedAt == nil {
		t.Fatal("updatedAt not restamped")
	}
}

func TestUpdateSkinNotFound(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPut, "/skins/nope", `{"price":1}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteSkin(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(t, r, http.MethodDelete, "/skins/m4a4_howl", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Message     string      `json:"message"`
		DeletedSkin domain.Item `json:"deletedSkin"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(body.Message, "m4a4_howl") || body.DeletedSkin.Name != "M4A4 | Howl" {
		t.Fatalf("unexpected delete body: %+v", body)
	}

	// Deleting again is a 404.
	rec = doRequest(t, r, http.MethodDelete, "/skins/m4a4_howl", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", rec.Code)
	}
}

func TestLookupSkin(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/skins/lookup", `{"id":"awp_dragon_lore"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, r, http.MethodPost, "/skins/lookup", `{"id":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank id status = %d", rec.Code)
	}

	rec = doRequest(t, r, http.MethodPost, "/skins/lookup", `{"id":"nope"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id status = %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(t, r, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
