package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"tapdash/internal/broadcast"
	"tapdash/internal/clock"
	"tapdash/internal/db"
	"tapdash/internal/events"
	"tapdash/internal/profile"
	"tapdash/internal/session"
	"tapdash/internal/store"
	"tapdash/internal/wshub"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	bus := events.NewBus()
	srv := &Server{
		Profile:     profile.Load(st),
		Tuning:      session.DefaultTuning(),
		Clock:       clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Bus:         bus,
		Broadcaster: broadcast.NewBroadcaster(bus),
		Hub:         wshub.NewHub(),
	}

	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return srv, ts
}

func postForm(t *testing.T, url string, values urlValues) *http.Response {
	t.Helper()
	resp, err := http.PostForm(url, values.values())
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

type urlValues map[string]string

func (v urlValues) values() url.Values {
	out := url.Values{}
	for k, val := range v {
		out.Set(k, val)
	}
	return out
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestHandleEnter_StartsIdleSession(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postForm(t, ts.URL+"/game/enter", urlValues{"mode": "classic"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var snap events.RenderState
	decodeBody(t, resp, &snap)
	if snap.Mode != "classic" || snap.State != "idle" {
		t.Errorf("snapshot = mode %q state %q, want classic idle", snap.Mode, snap.State)
	}
	if snap.TimeLeft != 10.0 {
		t.Errorf("TimeLeft = %v, want 10", snap.TimeLeft)
	}
}

func TestHandleEnter_UnknownMode(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postForm(t, ts.URL+"/game/enter", urlValues{"mode": "turbo"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestHandleEnter_ReplacesRunningSession(t *testing.T) {
	srv, ts := newTestServer(t)

	postForm(t, ts.URL+"/game/enter", urlValues{"mode": "classic"}).Body.Close()
	postForm(t, ts.URL+"/game/tap", nil).Body.Close()
	old := srv.currentSession()
	if old.State() != session.StateRunning {
		t.Fatalf("old session state = %v, want running", old.State())
	}

	postForm(t, ts.URL+"/game/enter", urlValues{"mode": "survival"}).Body.Close()
	if old.State() != session.StateEnded {
		t.Errorf("old session state = %v, want ended after re-enter", old.State())
	}
	if srv.currentSession().Mode() != session.ModeSurvival {
		t.Errorf("current mode = %v, want survival", srv.currentSession().Mode())
	}
}

func TestHandleTap_NoSession(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postForm(t, ts.URL+"/game/tap", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
}

func TestTapFlow_ScoresThroughAPI(t *testing.T) {
	_, ts := newTestServer(t)

	postForm(t, ts.URL+"/game/enter", urlValues{"mode": "classic"}).Body.Close()
	postForm(t, ts.URL+"/game/tap", nil).Body.Close() // starts
	resp := postForm(t, ts.URL+"/game/tap", nil)

	var snap events.RenderState
	decodeBody(t, resp, &snap)
	if snap.State != "running" {
		t.Errorf("State = %q, want running", snap.State)
	}
	if snap.Score != 1.0 {
		t.Errorf("Score = %v, want 1", snap.Score)
	}
}

func TestTapRecording_OnlyWhileRunning(t *testing.T) {
	srv, ts := newTestServer(t)
	srv.TapBuffer = make(chan db.TapEvent, 16)

	postForm(t, ts.URL+"/game/enter", urlValues{"mode": "classic"}).Body.Close()
	postForm(t, ts.URL+"/game/tap", nil).Body.Close() // starting tap
	if n := len(srv.TapBuffer); n != 0 {
		t.Fatalf("%d tap events after the starting tap, want 0", n)
	}

	postForm(t, ts.URL+"/game/tap", nil).Body.Close()
	postForm(t, ts.URL+"/game/foe", nil).Body.Close()
	if n := len(srv.TapBuffer); n != 2 {
		t.Fatalf("%d tap events while running, want 2", n)
	}

	postForm(t, ts.URL+"/game/quit", nil).Body.Close()
	postForm(t, ts.URL+"/game/tap", nil).Body.Close()
	postForm(t, ts.URL+"/game/powerup", nil).Body.Close()
	if n := len(srv.TapBuffer); n != 2 {
		t.Errorf("%d tap events after the session ended, want 2", n)
	}
}

func TestHandleQuit_AbortsSession(t *testing.T) {
	srv, ts := newTestServer(t)

	postForm(t, ts.URL+"/game/enter", urlValues{"mode": "classic"}).Body.Close()
	postForm(t, ts.URL+"/game/tap", nil).Body.Close()

	resp := postForm(t, ts.URL+"/game/quit", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if srv.currentSession().State() != session.StateEnded {
		t.Error("session should be ended after quit")
	}
	if srv.Profile.Stats().TotalGamesPlayed != 0 {
		t.Error("a quit game must not count as played")
	}
}

func TestHandleShop_ListsCatalog(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/shop")
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Coins int            `json:"coins"`
		Items []shopItemView `json:"items"`
	}
	decodeBody(t, resp, &body)

	if body.Coins != 0 {
		t.Errorf("coins = %d, want 0", body.Coins)
	}
	var upgrade *shopItemView
	for i := range body.Items {
		if body.Items[i].ID == "up_click1" {
			upgrade = &body.Items[i]
		}
	}
	if upgrade == nil {
		t.Fatal("up_click1 missing from shop listing")
	}
	if upgrade.Price != 150 || upgrade.MaxLevel != 5 {
		t.Errorf("up_click1 = %+v, want price 150 and max level 5", upgrade)
	}
}

func TestHandlePurchase_InsufficientFunds(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postForm(t, ts.URL+"/shop/purchase", urlValues{"item_id": "bg_blue"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["error"] != "insufficient_funds" {
		t.Errorf("error = %q, want insufficient_funds", body["error"])
	}
}

func TestHandlePurchase_UpgradeScalesPrice(t *testing.T) {
	srv, ts := newTestServer(t)
	srv.Profile.AddCoins(450)

	// Level 1 costs 150, level 2 costs 300.
	resp := postForm(t, ts.URL+"/shop/purchase", urlValues{"item_id": "up_click1"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first purchase status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp = postForm(t, ts.URL+"/shop/purchase", urlValues{"item_id": "up_click1"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second purchase status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	if srv.Profile.Coins() != 0 {
		t.Errorf("coins = %d, want 0 after 150+300 spent", srv.Profile.Coins())
	}
	if srv.Profile.UpgradeLevel("up_click1") != 2 {
		t.Errorf("level = %d, want 2", srv.Profile.UpgradeLevel("up_click1"))
	}
}

func TestHandlePurchase_UnknownItem(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postForm(t, ts.URL+"/shop/purchase", urlValues{"item_id": "bg_nope"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestHandleEquip_RequiresUnlock(t *testing.T) {
	srv, ts := newTestServer(t)

	resp := postForm(t, ts.URL+"/theme/equip", urlValues{"theme_id": "bg_red"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}

	srv.Profile.AddCoins(75)
	postForm(t, ts.URL+"/shop/purchase", urlValues{"item_id": "bg_red"}).Body.Close()

	resp = postForm(t, ts.URL+"/theme/equip", urlValues{"theme_id": "bg_red"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("equip after purchase status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if srv.Profile.CurrentTheme() != "bg_red" {
		t.Errorf("current theme = %q, want bg_red", srv.Profile.CurrentTheme())
	}
}

func TestHandleDailyClaim_OncePerDay(t *testing.T) {
	srv, ts := newTestServer(t)

	resp := postForm(t, ts.URL+"/daily/claim", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var res struct {
		CoinsGranted int `json:"coins_granted"`
		StreakDay    int `json:"streak_day"`
	}
	decodeBody(t, resp, &res)
	if res.CoinsGranted != 20 || res.StreakDay != 1 {
		t.Errorf("claim = %+v, want 20 coins on day 1", res)
	}
	if srv.Profile.Coins() != 20 {
		t.Errorf("coins = %d, want 20", srv.Profile.Coins())
	}

	resp = postForm(t, ts.URL+"/daily/claim", nil)
	var errBody map[string]string
	decodeBody(t, resp, &errBody)
	if resp.StatusCode != http.StatusConflict || errBody["error"] != "already_claimed_today" {
		t.Errorf("second claim = %d %q, want 409 already_claimed_today",
			resp.StatusCode, errBody["error"])
	}
}

func TestHandleDaily_Status(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/daily")
	if err != nil {
		t.Fatal(err)
	}
	var st struct {
		CanClaimToday bool `json:"can_claim_today"`
		NextReward    int  `json:"next_reward"`
	}
	decodeBody(t, resp, &st)
	if !st.CanClaimToday || st.NextReward != 20 {
		t.Errorf("status = %+v, want claimable with 20 next", st)
	}
}

func TestHandleStats(t *testing.T) {
	srv, ts := newTestServer(t)
	srv.Profile.AddCoins(33)

	resp, err := http.Get(ts.URL + "/stats")
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Coins        int    `json:"coins"`
		CurrentTheme string `json:"current_theme"`
	}
	decodeBody(t, resp, &body)
	if body.Coins != 33 {
		t.Errorf("coins = %d, want 33", body.Coins)
	}
	if body.CurrentTheme != "default" {
		t.Errorf("current_theme = %q, want default", body.CurrentTheme)
	}
}

func TestHandleAchievements_AllLockedInitially(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/achievements")
	if err != nil {
		t.Fatal(err)
	}
	var views []achievementView
	decodeBody(t, resp, &views)
	if len(views) != 3 {
		t.Fatalf("got %d achievements, want 3", len(views))
	}
	for _, v := range views {
		if v.Unlocked {
			t.Errorf("achievement %s unlocked on a fresh profile", v.ID)
		}
	}
}

func TestHandleAnalytics_WithoutDatabase(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/analytics/summary")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}
}

func TestHandleHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}
