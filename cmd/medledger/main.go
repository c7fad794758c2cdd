package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"medledger/api/server"
	"medledger/core/audit"
	"medledger/core/cipher"
	"medledger/core/contract"
	"medledger/core/genesis"
	"medledger/core/ledger"
	"medledger/core/verify"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load(".env")
}

func main() {
	// Log to file as well as stdout when a log path is configured
	if logPath := os.Getenv("LOG_FILE"); logPath != "" {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	}

	fmt.Println("Starting medledger node")

	// === Config ===
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./medledger_db"
	}
	apiListenAddr := ":" + strings.TrimPrefix(os.Getenv("SERVER_PORT"), ":")
	if apiListenAddr == ":" {
		apiListenAddr = ":8080"
	}

	// === Payload cipher ===
	// The key is process-wide configuration, loaded once at startup. It is
	// injected into the cipher, never read ambiently by the core.
	dek, err := cipher.LoadKey()
	if err != nil {
		log.Fatalf("Failed to load data encryption key: %v", err)
	}
	payloadCipher, err := cipher.New(dek)
	if err != nil {
		log.Fatalf("Failed to initialize payload cipher: %v", err)
	}

	// === Ledger + contract ===
	l, err := ledger.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open ledger: %v", err)
	}
	defer l.Close()
	store := contract.NewStore(l)

	auditLogger := audit.NewStdoutAuditLogger()
	generator := audit.NewGenerator(store, payloadCipher, auditLogger)
	verifier := verify.NewVerifier(store)

	// === Seed records ===
	seeded, err := genesis.IsSeeded(store)
	if err != nil {
		log.Fatalf("Failed to check seed state: %v", err)
	}
	if !seeded {
		fmt.Println("Empty ledger, committing seed records")
		if err := genesis.Seed(store, payloadCipher, auditLogger); err != nil {
			log.Fatalf("Failed to seed ledger: %v", err)
		}
	} else {
		fmt.Println("Seed records already present")
	}

	// === API Server ===
	apiServer := server.NewServer(store, generator, verifier, apiListenAddr)
	if err := apiServer.Start(); err != nil {
		log.Fatalf("API server failed: %v", err)
	}
}
