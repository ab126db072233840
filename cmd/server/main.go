package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"covalence/internal/config"
	"covalence/internal/handlers/analysis"
	"covalence/internal/handlers/reports"
	"covalence/internal/handlers/sectors"
	httputil "covalence/internal/http"
	"covalence/internal/services/advisory"
	"covalence/internal/services/cbam"
	"covalence/internal/services/refdata"
	"covalence/internal/services/storage"
	"covalence/internal/version"
)

var (
	cfg     *config.Config
	store   *storage.Storage
	table   *refdata.Table
	catalog *advisory.Catalog
)

func main() {
	encryptData := flag.Bool("encrypt-data", false, "Encrypt the reference data directory and exit")
	decryptData := flag.Bool("decrypt-data", false, "Decrypt the reference data directory and exit")
	showVersion := flag.Bool("version", false, "Print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get().String())
		return
	}

	// Optional .env for local development
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	cfg = config.Load()
	info := version.Get()
	log.Printf("Starting Covalence CBAM advisory service (%s)", info.String())
	if warning := info.Check(); warning != "" {
		log.Printf("%s", warning)
	}
	log.Printf("Data directory: %s", cfg.DataDirectory)

	var err error
	store, err = storage.New(cfg.DataDirectory)
	if err != nil {
		log.Fatalf("Failed to open data directory: %v", err)
	}

	if *encryptData {
		runEncryptData()
		return
	}
	if *decryptData {
		runDecryptData()
		return
	}

	if store.IsEncrypted() && !store.IsUnlocked() {
		unlockStorage()
	}

	if err := SetupDependencies(cfg); err != nil {
		log.Fatalf("Failed to set up dependencies: %v", err)
	}

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      SetupRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalf("Server error: %v", err)
	case sig := <-quit:
		log.Printf("Received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}
}

// SetupDependencies loads the reference table and advisory catalog and
// wires every handler package. Split out from main so tests can bring
// the server up against a test data directory.
func SetupDependencies(c *config.Config) error {
	cfg = c

	if store == nil {
		var err error
		store, err = storage.New(c.DataDirectory)
		if err != nil {
			return fmt.Errorf("opening data directory: %w", err)
		}
	}

	var err error
	catalog, err = advisory.Load(c.AdvisoryFile)
	if err != nil {
		return fmt.Errorf("loading advisory catalog: %w", err)
	}

	loader := refdata.New(c.DataDirectory, store)
	loader.Filename = c.SectorFile
	table, err = loader.Load()
	if err != nil {
		return fmt.Errorf("loading reference table: %w", err)
	}

	calc := cbam.NewCalculator(catalog.Policy)
	sectors.Initialize(table, catalog)
	analysis.Initialize(table, catalog, calc)
	reports.Initialize(catalog)

	return nil
}

// SetupRouter builds the chi router with all routes registered
func SetupRouter() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Routes
	r.Get("/", handleIndex)
	r.Get("/api/health", handleHealth)
	r.Get("/api/version", handleVersion)

	sectors.RegisterRoutes(r)
	analysis.RegisterRoutes(r)
	reports.RegisterRoutes(r)

	return r
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "covalence",
		"sectors": table.Names(),
		"endpoints": []string{
			"GET /api/health",
			"GET /api/version",
			"GET /api/v1/sectors",
			"GET /api/v1/sectors/{sector}",
			"POST /api/v1/analysis",
			"GET /api/v1/analysis/chart/reduction",
			"POST /api/v1/reports/{persona}",
		},
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, version.Get())
}

// unlockStorage obtains the passphrase from the environment or the
// terminal and unlocks the encrypted data directory
func unlockStorage() {
	password := cfg.DataPassword
	if password == "" {
		password = promptPassword("Data directory passphrase: ")
	}
	if password == "" {
		log.Fatalf("Data directory is encrypted: set CBAM_DATA_PASSWORD or run interactively")
	}
	if err := store.Unlock(password); err != nil {
		log.Fatalf("Failed to unlock data directory: %v", err)
	}
	log.Printf("Data directory unlocked")
}

func runEncryptData() {
	password := cfg.DataPassword
	if password == "" {
		password = promptPassword("New passphrase: ")
		if confirm := promptPassword("Confirm passphrase: "); confirm != password {
			log.Fatalf("Passphrases do not match")
		}
	}
	if err := store.EnableEncryption(password); err != nil {
		log.Fatalf("Failed to encrypt data directory: %v", err)
	}
	log.Printf("Data directory encrypted")
}

func runDecryptData() {
	password := cfg.DataPassword
	if password == "" {
		password = promptPassword("Passphrase: ")
	}
	if err := store.DisableEncryption(password); err != nil {
		log.Fatalf("Failed to decrypt data directory: %v", err)
	}
	log.Printf("Data directory decrypted")
}

// promptPassword reads a passphrase from the terminal without echo.
// Returns empty when stdin is not a terminal.
func promptPassword(prompt string) string {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ""
	}

	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		log.Printf("Warning: could not read passphrase: %v", err)
		return ""
	}
	return string(password)
}
