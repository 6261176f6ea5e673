package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"tapdash/internal/achievements"
	"tapdash/internal/broadcast"
	"tapdash/internal/clock"
	"tapdash/internal/db"
	"tapdash/internal/economy"
	"tapdash/internal/events"
	"tapdash/internal/profile"
	"tapdash/internal/session"
	"tapdash/internal/streak"
	"tapdash/internal/wshub"
)

type Server struct {
	Profile     *profile.Profile
	Tuning      session.Tuning
	Clock       clock.Clock
	Bus         *events.Bus
	Broadcaster *broadcast.Broadcaster
	Hub         *wshub.Hub
	DB          *db.DB           // nil if no database configured
	TapBuffer   chan db.TapEvent // nil if no database configured

	mu      sync.Mutex
	current *session.Session
}

// currentSession returns the active session, or nil before the first
// game is entered.
func (s *Server) currentSession() *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println(err)
	}
}

func writeError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, map[string]string{"error": reason})
}

// reasonFor maps domain errors onto stable reason codes for clients.
func reasonFor(err error) (int, string) {
	switch {
	case errors.Is(err, economy.ErrUnknownItem):
		return http.StatusNotFound, "unknown_item"
	case errors.Is(err, economy.ErrInsufficientFunds):
		return http.StatusConflict, "insufficient_funds"
	case errors.Is(err, economy.ErrMaxLevelReached):
		return http.StatusConflict, "max_level_reached"
	case errors.Is(err, economy.ErrThemeNotUnlocked):
		return http.StatusConflict, "theme_not_unlocked"
	case errors.Is(err, streak.ErrAlreadyClaimedToday):
		return http.StatusConflict, "already_claimed_today"
	}
	return http.StatusInternalServerError, "internal_error"
}

// handleEnter starts a fresh session in the requested mode, replacing
// whatever was running. Replaying a mode is just entering it again.
func (s *Server) handleEnter(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:Enter] Request Received")

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_form")
		return
	}
	mode, err := session.ParseMode(r.FormValue("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_mode")
		return
	}

	s.mu.Lock()
	if s.current != nil {
		s.current.Abort()
	}
	s.current = session.New(mode, s.Profile, s.Bus, s.Clock, s.Tuning)
	sess := s.current
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession()
	if sess == nil {
		writeError(w, http.StatusConflict, "no_active_session")
		return
	}
	// The starting tap and taps after the end are not gameplay; keep
	// them out of the analytics stream.
	running := sess.State() == session.StateRunning
	sess.PrimaryTap()
	if running {
		s.recordTap(sess.ID(), "tap", true)
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleFoe(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession()
	if sess == nil {
		writeError(w, http.StatusConflict, "no_active_session")
		return
	}
	running := sess.State() == session.StateRunning
	sess.FoeTap()
	if running {
		s.recordTap(sess.ID(), "foe", false)
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handlePowerup(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession()
	if sess == nil {
		writeError(w, http.StatusConflict, "no_active_session")
		return
	}
	running := sess.State() == session.StateRunning
	sess.PowerupTap()
	if running {
		s.recordTap(sess.ID(), "powerup", true)
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// handleQuit abandons the current session without scoring, as happens
// when the player backs out to the menu.
func (s *Server) handleQuit(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession()
	if sess == nil {
		writeError(w, http.StatusConflict, "no_active_session")
		return
	}
	sess.Abort()
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession()
	if sess == nil {
		writeError(w, http.StatusConflict, "no_active_session")
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// recordTap queues a tap for the analytics writer. Dropping under
// pressure is fine: gameplay state never depends on this stream.
func (s *Server) recordTap(sessionID, kind string, correct bool) {
	if s.TapBuffer == nil {
		return
	}
	select {
	case s.TapBuffer <- db.TapEvent{
		SessionID:  sessionID,
		Kind:       kind,
		Correct:    correct,
		OccurredAt: time.Now(),
	}:
	default:
		log.Println("[DB] Tap buffer full, dropping event")
	}
}

type shopItemView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int    `json:"price"`
	Level    int    `json:"level,omitempty"`
	MaxLevel int    `json:"max_level,omitempty"`
	Owned    bool   `json:"owned"`
	Equipped bool   `json:"equipped,omitempty"`
}

func (s *Server) handleShop(w http.ResponseWriter, r *http.Request) {
	items := make([]shopItemView, 0, len(economy.Catalog))
	for _, item := range economy.Catalog {
		v := shopItemView{
			ID:       item.ID,
			Name:     item.Name,
			Category: string(item.Category),
			Price:    item.Price,
			MaxLevel: item.MaxLevel,
		}
		switch item.Category {
		case economy.CategoryTheme:
			v.Owned = s.Profile.HasTheme(item.ID)
			v.Equipped = s.Profile.CurrentTheme() == item.ID
		case economy.CategoryUpgrade:
			lvl := s.Profile.UpgradeLevel(item.ID)
			v.Level = lvl
			v.Owned = lvl > 0
			v.Price = economy.UpgradePrice(item, lvl)
		}
		items = append(items, v)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"coins": s.Profile.Coins(),
		"items": items,
	})
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:Purchase] Request Received")

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_form")
		return
	}
	itemID := r.FormValue("item_id")

	res, err := economy.Purchase(s.Profile, itemID)
	if err != nil {
		status, reason := reasonFor(err)
		writeError(w, status, reason)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"coins":      s.Profile.Coins(),
		"item_id":    res.ItemID,
		"price_paid": res.PricePaid,
		"new_level":  res.NewLevel,
		"equipped":   res.Equipped,
	})
}

func (s *Server) handleEquip(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_form")
		return
	}
	themeID := r.FormValue("theme_id")

	if err := economy.Equip(s.Profile, themeID); err != nil {
		status, reason := reasonFor(err)
		writeError(w, status, reason)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme_id": themeID})
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	eng := s.newStreakEngine()
	writeJSON(w, http.StatusOK, eng.Status())
}

func (s *Server) handleDailyClaim(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:DailyClaim] Request Received")

	eng := s.newStreakEngine()
	res, err := eng.Claim()
	if err != nil {
		status, reason := reasonFor(err)
		writeError(w, status, reason)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) newStreakEngine() *streak.Engine {
	return streak.NewAt(s.Profile, s.Clock.Now)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st := s.Profile.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"coins":         s.Profile.Coins(),
		"high_score":    s.Profile.HighScore(),
		"current_theme": s.Profile.CurrentTheme(),
		"stats":         st,
	})
}

type achievementView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	views := make([]achievementView, 0, len(achievements.All))
	for id, a := range achievements.All {
		views = append(views, achievementView{
			ID:          string(id),
			Name:        a.Name,
			Description: a.Description,
			Unlocked:    s.Profile.AchievementUnlocked(id),
		})
	}
	writeJSON(w, http.StatusOK, views)
}

// handleEvents streams render snapshots over SSE. Every state change
// the core publishes arrives here as one JSON event.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	msgChan := s.Broadcaster.Subscribe()
	defer s.Broadcaster.Unsubscribe(msgChan)

	for {
		select {
		case <-r.Context().Done():
			return
		case rs := <-msgChan:
			data, err := json.Marshal(rs)
			if err != nil {
				log.Println(err)
				continue
			}
			fmt.Fprintf(w, "event: render\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			status = "db_error"
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"%s","error":"%s"}`, status, err.Error())
			return
		}
	}
	fmt.Fprintf(w, `{"status":"%s"}`, status)
}
