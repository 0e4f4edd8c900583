package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/kardianos/service"
	"golang.org/x/time/rate"

	"github.com/nguyenvanduocit/rag-cost-calculator/internal/pricing"
	"github.com/nguyenvanduocit/rag-cost-calculator/server/internal/auth"
	"github.com/nguyenvanduocit/rag-cost-calculator/server/internal/database"
	"github.com/nguyenvanduocit/rag-cost-calculator/server/internal/handlers"
	"github.com/nguyenvanduocit/rag-cost-calculator/server/internal/metrics"
	"github.com/nguyenvanduocit/rag-cost-calculator/server/internal/middleware"
	"github.com/nguyenvanduocit/rag-cost-calculator/server/internal/templates"
)

func main() {
	svcCommand := flag.String("service", "", "Control the system service: install, start, stop, uninstall, status")
	flag.Parse()

	svcConfig := &service.Config{
		Name:        "ragcost-server",
		DisplayName: "RAG Cost Calculator Server",
		Description: "Serves the browser-based RAG cost estimator",
	}

	svc := &webService{}
	s, err := service.New(svc, svcConfig)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}

	switch *svcCommand {
	case "install":
		if err := s.Install(); err != nil {
			log.Fatalf("Failed to install service: %v", err)
		}
		log.Println("Service installed.")
	case "start":
		if err := s.Start(); err != nil {
			log.Fatalf("Failed to start service: %v", err)
		}
		log.Println("Service started.")
	case "stop":
		if err := s.Stop(); err != nil {
			log.Fatalf("Failed to stop service: %v", err)
		}
		log.Println("Service stopped.")
	case "uninstall":
		s.Stop() // ignore error
		if err := s.Uninstall(); err != nil {
			log.Fatalf("Failed to uninstall service: %v", err)
		}
		log.Println("Service uninstalled.")
	case "status":
		status, err := s.Status()
		if err != nil {
			log.Printf("Service status: not installed or error (%v)", err)
			return
		}
		switch status {
		case service.StatusRunning:
			log.Println("Service status: running")
		case service.StatusStopped:
			log.Println("Service status: stopped")
		default:
			log.Println("Service status: unknown")
		}
	case "":
		// Run in the foreground, or under the service manager when
		// launched by it
		if err := s.Run(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	default:
		log.Fatalf("Unknown service command: %s", *svcCommand)
	}
}

// webService runs the HTTP server under service.Interface
type webService struct {
	server *http.Server
}

func (s *webService) Start(svc service.Service) error {
	handler, err := buildHandler()
	if err != nil {
		return err
	}

	addr := ":" + getEnv("PORT", "8080")
	s.server = &http.Server{Addr: addr, Handler: handler}

	go func() {
		log.Printf("Starting ragcost-server on %s", addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()
	return nil
}

func (s *webService) Stop(svc service.Service) error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// buildHandler wires the database, sessions, templates, and routes
func buildHandler() (http.Handler, error) {
	dbPath := getEnv("DB_PATH", "./ragcost.db")
	pricingPath := getEnv("PRICING_PATH", "")

	db, err := database.Open(dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		return nil, err
	}

	table := pricing.Load(pricingPath)
	log.Printf("Database: %s", dbPath)
	log.Printf("Pricing table: %d models", len(table))

	// Setup session manager with SQLite store
	sessionMgr := scs.New()
	sessionMgr.Store = sqlite3store.New(db.DB)
	sessionMgr.Lifetime = 7 * 24 * time.Hour
	sessionMgr.Cookie.Secure = false // Set to true in production with HTTPS
	sessionMgr.Cookie.SameSite = http.SameSiteLaxMode

	tmpl, err := templates.Parse()
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	h := handlers.New(db, sessionMgr, tmpl, table, m)
	authMiddleware := auth.NewMiddleware(db, sessionMgr)
	limiter := middleware.NewIPRateLimiter(rate.Limit(10), 30)

	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("/", h.Index)
	mux.HandleFunc("/share/", h.ShareOpen)
	mux.HandleFunc("/partial/estimate", h.PartialEstimate)
	mux.HandleFunc("/partial/convert", h.PartialConvert)
	mux.HandleFunc("/partial/share", h.PartialShare)
	mux.HandleFunc("/login", h.Login)
	mux.HandleFunc("/register", h.Register)

	// Protected routes (session-based)
	mux.Handle("/logout", authMiddleware.RequireAuth(http.HandlerFunc(h.Logout)))
	mux.Handle("/scenarios/save", authMiddleware.RequireAuth(http.HandlerFunc(h.ScenarioSave)))
	mux.Handle("/scenarios/load", authMiddleware.RequireAuth(http.HandlerFunc(h.ScenarioLoad)))
	mux.Handle("/scenarios/delete", authMiddleware.RequireAuth(http.HandlerFunc(h.ScenarioDelete)))

	// JSON API routes
	mux.HandleFunc("/api/estimate", h.APIEstimate)
	mux.HandleFunc("/api/models", h.APIModels)
	mux.HandleFunc("/api/convert", h.APIConvert)
	mux.HandleFunc("/api/sample-text", h.APISampleText)

	// Operational endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.Handle("/metrics", m.Handler())

	// Session middleware innermost, then rate limiting, counters, and
	// security headers on everything
	handler := sessionMgr.LoadAndSave(mux)
	handler = limiter.Limit(handler)
	handler = m.CountRequests(handler)
	handler = middleware.SecurityHeaders(handler)

	return handler, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
