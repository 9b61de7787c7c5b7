package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	adapthttp "taskbook/internal/adapter/http"
	"taskbook/internal/adapter/memory"
	"taskbook/internal/adapter/postgres"
	"taskbook/internal/adapter/redissession"
	"taskbook/internal/app"
	"taskbook/internal/config"
	"taskbook/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer func() { _ = db.Close() }()

	userRepo := postgres.NewUserRepo(db)
	itemRepo := postgres.NewItemRepo(db)

	if n, err := userRepo.Count(context.Background()); err != nil {
		log.Fatalf("user count: %v", err)
	} else {
		log.Printf("registered users: %d", n)
	}

	var sessionRepo domain.SessionRepository
	switch cfg.SessionStore {
	case "memory":
		sessionRepo = memory.New().Sessions()
	case "redis":
		store, err := redissession.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis open: %v", err)
		}
		defer func() { _ = store.Close() }()
		sessionRepo = store
	default:
		sessionRepo = postgres.NewSessionRepo(db)
	}

	authSvc := app.NewAuthService(userRepo, itemRepo, sessionRepo)
	tokenSvc := app.NewTokenService(userRepo, []byte(cfg.SecretKey))
	itemSvc := app.NewItemService(itemRepo)

	oidcCfg, err := buildOIDC(cfg)
	if err != nil {
		log.Fatalf("oidc: %v", err)
	}

	h := adapthttp.New(authSvc, tokenSvc, itemSvc, oidcCfg, cfg.WebDir).Handler()
	log.Printf("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func buildOIDC(cfg config.Config) (*adapthttp.OIDCConfig, error) {
	if !cfg.SSOEnabled() {
		return nil, nil
	}

	provider, err := oidc.NewProvider(context.Background(), cfg.OIDCIssuer)
	if err != nil {
		return nil, err
	}

	return &adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: &oauth2.Config{
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}
