package server

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"medledger/core/audit"
	"medledger/core/contract"
	"medledger/core/verify"

	"log"

	// Load env vars from .env for local/dev
	_ "github.com/joho/godotenv/autoload"
)

// --- Environment Variable Config ---
// All sensitive/configurable values are loaded from environment variables.
// See .env.example for variable names and dummy values.

var (
	apiKey    = os.Getenv("API_KEY")    // API key for the record submission endpoint
	jwtSecret = os.Getenv("JWT_SECRET") // JWT secret for identity tokens
)

type Server struct {
	store      *contract.Store
	generator  *audit.Generator
	verifier   *verify.Verifier
	ListenAddr string
}

func NewServer(store *contract.Store, generator *audit.Generator, verifier *verify.Verifier, listenAddr string) *Server {
	return &Server{
		store:      store,
		generator:  generator,
		verifier:   verifier,
		ListenAddr: listenAddr,
	}
}

func (s *Server) Start() error {
	mux := http.NewServeMux()

	// Audit query surface: one route, action selects the flow.
	mux.HandleFunc("GET /userid/{userid}/action/{action}/role/{role}/recid/{recid}", s.HandleAuditQuery)

	// Direct record submission (authenticated).
	mux.Handle("POST /api/v1/records", authMiddleware(http.HandlerFunc(s.HandleCreateRecord)))

	// Health/status endpoints
	mux.HandleFunc("GET /nodehealth", s.HandleNodeHealth)
	mux.HandleFunc("GET /health/liveness", s.HandleLiveness)
	mux.HandleFunc("GET /health/readiness", s.HandleReadiness)
	mux.HandleFunc("GET /status", s.HandleStatus)

	fmt.Println("API server listening at", s.ListenAddr)

	enableHTTPS := os.Getenv("ENABLE_HTTPS")
	certPath := os.Getenv("TLS_CERT_PATH")
	keyPath := os.Getenv("TLS_KEY_PATH")

	if enableHTTPS == "true" {
		fmt.Println("[HTTPS] Enabled. Using cert:", certPath, "key:", keyPath)
		return http.ListenAndServeTLS(s.ListenAddr, certPath, keyPath, mux)
	}
	return http.ListenAndServe(s.ListenAddr, mux)
}

// authMiddleware enforces either a bearer JWT or an API key on write
// endpoints.
func authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		xApiKey := r.Header.Get("X-API-Key")

		jwtValid := false
		if strings.HasPrefix(authHeader, "Bearer ") {
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if _, err := identityFromBearer(token); err == nil {
				jwtValid = true
			} else {
				log.Printf("[WARN] Invalid JWT on write endpoint: %v", err)
			}
		}
		apiKeyValid := xApiKey != "" && apiKey != "" && xApiKey == apiKey

		if !jwtValid && !apiKeyValid {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
