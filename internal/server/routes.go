package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"tapdash/internal/broadcast"
	"tapdash/internal/clock"
	"tapdash/internal/config"
	"tapdash/internal/db"
	"tapdash/internal/events"
	"tapdash/internal/profile"
	"tapdash/internal/session"
	"tapdash/internal/store"
	"tapdash/internal/wshub"
)

func Run() error {
	appCfg := config.Load()

	st, err := store.Open(appCfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening save store: %w", err)
	}
	prof := profile.Load(st)

	tuning, err := session.LoadTuning(appCfg.TuningFile)
	if err != nil {
		return fmt.Errorf("loading tuning: %w", err)
	}

	bus := events.NewBus()
	srv := &Server{
		Profile:     prof,
		Tuning:      tuning,
		Clock:       clock.New(),
		Bus:         bus,
		Broadcaster: broadcast.NewBroadcaster(bus),
		Hub:         wshub.NewHub(),
	}

	// Optional database connection
	if appCfg.DatabaseURL != "" {
		database, err := db.Connect(appCfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without database)\n", err)
		} else {
			if err := database.Migrate(); err != nil {
				log.Printf("[DB] Migration failed: %v\n", err)
			}
			srv.DB = database
			srv.TapBuffer = make(chan db.TapEvent, appCfg.TapBuffer)
			go tapBatchWriter(database, srv.TapBuffer)
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] DATABASE_URL not set, running without database")
	}

	go srv.relaySnapshots()

	mux := srv.routes()
	addr := "0.0.0.0:" + appCfg.Port
	fmt.Printf("Server listening on http://localhost:%s\n", appCfg.Port)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /game/enter", s.handleEnter)
	mux.HandleFunc("POST /game/tap", s.handleTap)
	mux.HandleFunc("POST /game/foe", s.handleFoe)
	mux.HandleFunc("POST /game/powerup", s.handlePowerup)
	mux.HandleFunc("POST /game/quit", s.handleQuit)
	mux.HandleFunc("GET /game/state", s.handleState)
	mux.HandleFunc("GET /shop", s.handleShop)
	mux.HandleFunc("POST /shop/purchase", s.handlePurchase)
	mux.HandleFunc("POST /theme/equip", s.handleEquip)
	mux.HandleFunc("GET /daily", s.handleDaily)
	mux.HandleFunc("POST /daily/claim", s.handleDailyClaim)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /achievements", s.handleAchievements)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /analytics/summary", s.handleAnalyticsSummary)
	mux.HandleFunc("GET /analytics/recent", s.handleAnalyticsRecent)
	mux.HandleFunc("GET /analytics/session/", s.handleAnalyticsSession)
	return mux
}

// relaySnapshots fans every published snapshot to websocket clients and
// records finished sessions once their final snapshot goes by.
func (s *Server) relaySnapshots() {
	ch := s.Broadcaster.Subscribe()
	for rs := range ch {
		s.Hub.Broadcast(rs)

		if rs.Results != nil && s.DB != nil {
			res := rs.Results
			if err := s.DB.RecordSession(db.SessionRecord{
				ID:          rs.SessionID,
				Mode:        res.Mode,
				FinalScore:  res.FinalScore,
				CoinsGained: res.CoinsGained,
				WrongTaps:   res.WrongTaps,
				NewRecord:   res.NewRecord,
				StartedAt:   res.StartedAt,
				EndedAt:     res.EndedAt,
			}); err != nil {
				log.Printf("[DB] RecordSession error: %v\n", err)
			}
		}
	}
}

func tapBatchWriter(database *db.DB, buffer chan db.TapEvent) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	batch := make([]db.TapEvent, 0, 50)

	for {
		select {
		case ev := <-buffer:
			batch = append(batch, ev)
			if len(batch) >= 50 {
				if err := database.BatchRecordTaps(batch); err != nil {
					log.Printf("[DB] BatchRecordTaps error: %v\n", err)
				}
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				if err := database.BatchRecordTaps(batch); err != nil {
					log.Printf("[DB] BatchRecordTaps error: %v\n", err)
				}
				batch = batch[:0]
			}
		}
	}
}
