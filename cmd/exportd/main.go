package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/examfoundry/examfoundry/internal/api/http"
	"github.com/examfoundry/examfoundry/internal/auth"
	"github.com/examfoundry/examfoundry/internal/config"
	"github.com/examfoundry/examfoundry/internal/db"
	"github.com/examfoundry/examfoundry/internal/docstore"
	"github.com/examfoundry/examfoundry/internal/export"
	"github.com/examfoundry/examfoundry/internal/fonts"
	"github.com/examfoundry/examfoundry/internal/storage"
	"github.com/examfoundry/examfoundry/internal/version"

	// register format adapters
	_ "github.com/examfoundry/examfoundry/internal/render/docx"
	_ "github.com/examfoundry/examfoundry/internal/render/htmldoc"
	_ "github.com/examfoundry/examfoundry/internal/render/pdf"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := docstore.NewSQLStore(dbh)

	// --- Rendering collaborators ---
	assets, err := storage.NewFSStore(cfg.AssetBasePath)
	if err != nil {
		log.Fatalf("asset store: %v", err)
	}
	var fontSrc fonts.Source
	if cfg.FontDir != "" {
		fontSrc, err = fonts.NewDirSource(cfg.FontDir)
		if err != nil {
			log.Printf("font dir unavailable, embedding disabled: %v", err)
			fontSrc = nil
		}
	}
	svc := export.NewService(assets, fonts.NewResolver(fontSrc, nil))

	// --- Version generator ---
	var regen version.Regenerator
	if url := os.Getenv("REGEN_URL"); url != "" {
		regen = version.NewHTTPRegenerator(url)
	}
	gen := version.NewGenerator(regen)
	gen.Timeout = cfg.RegenTimeout

	// --- Auth (local JWT for offline/dev) ---
	secret := getenvOr("AUTH_HMAC_SECRET", "supersecret-dev-key")
	authSvc := auth.NewAuthService(secret, cfg.AdminUser, cfg.AdminPassHash)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition", "X-Bundle-Report"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc))
	}

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.Route("/assets", func(ar chi.Router) {
			api.MountAssets(ar, assets)
		})

		pr.Post("/documents", api.CreateDocumentHandler(store))
		pr.Get("/documents/{documentID}", api.GetDocumentHandler(store))
		pr.Post("/documents/{documentID}/versions", api.CreateVersionHandler(store, gen))
		pr.Get("/documents/{documentID}/versions", api.ListVersionsHandler(store))
		pr.Post("/documents/{documentID}/export", api.ExportHandler(store, svc))
		pr.Post("/documents/{documentID}/bundle", api.BundleHandler(store, svc))

		pr.Get("/events", api.EventsHandler(store.Events()))
	})

	log.Printf("exportd listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal(err)
	}
}

func getenvOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
