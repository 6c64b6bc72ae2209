package wsapi

import (
	"math/rand"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cswatch/catalog/internal/app/domain/catalog"
	"github.com/cswatch/catalog/internal/app/services/market"
)

func price(v float64) *float64 { return &v }

func newTestServer(t *testing.T) (*httptest.Server, *market.Feed) {
	t.Helper()
	feed := market.NewFeed([]catalog.Item{
		{ID: "awp_dragon_lore", Name: "AWP | Dragon Lore", Price: price(1850.00)},
		{ID: "ak47_asiimov", Name: "AK-47 | Asiimov", Price: price(35.75)},
	}, market.Config{
		SeedDays: 2,
		Rand:     rand.New(rand.NewSource(5)),
	})
	srv := httptest.NewServer(NewHandler(feed, nil))
	t.Cleanup(srv.Close)
	return srv, feed
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/prices" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readUpdate(t *testing.T, conn *websocket.Conn) wireUpdate {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var update wireUpdate
	if err := conn.ReadJSON(&update); err != nil {
		t.Fatalf("read update: %v", err)
	}
	return update
}

func TestSnapshotOnConnect(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv, "?ids=awp_dragon_lore")

	update := readUpdate(t, conn)
	if update.SkinID != "awp_dragon_lore" || update.SkinName != "AWP | Dragon Lore" {
		t.Fatalf("unexpected snapshot: %+v", update)
	}
	if update.ChangePercentage != 0 {
		t.Fatalf("snapshot must carry zero change: %+v", update)
	}
	if update.Price != 1850.00 {
		t.Fatalf("snapshot price = %v", update.Price)
	}
	if _, err := time.Parse(time.RFC3339, update.Timestamp); err != nil {
		t.Fatalf("timestamp %q not RFC3339: %v", update.Timestamp, err)
	}
}

func TestTickUpdatesPushed(t *testing.T) {
	srv, feed := newTestServer(t)
	conn := dial(t, srv, "?ids=ak47_asiimov")
	readUpdate(t, conn) // snapshot

	feed.Tick()

	update := readUpdate(t, conn)
	if update.SkinID != "ak47_asiimov" {
		t.Fatalf("update for unrequested skin: %+v", update)
	}
	if update.ChangePercentage == 0 {
		t.Fatalf("tick update should carry a change: %+v", update)
	}
}

func TestNoIDsStreamsAllSkins(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv, "")

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		seen[readUpdate(t, conn).SkinID] = true
	}
	if !seen["awp_dragon_lore"] || !seen["ak47_asiimov"] {
		t.Fatalf("snapshot incomplete: %v", seen)
	}
}

func TestIDsParamToleratesWhitespace(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv, "?ids=%20awp_dragon_lore%20,%20")

	update := readUpdate(t, conn)
	if update.SkinID != "awp_dragon_lore" {
		t.Fatalf("unexpected snapshot: %+v", update)
	}
}
