package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"talent-radar/internal/api"
	"talent-radar/internal/enrich"
	"talent-radar/internal/model"
	"talent-radar/internal/negotiation"
	"talent-radar/internal/query"
	"talent-radar/internal/rubric"
	"talent-radar/internal/storage"
	"talent-radar/internal/views"
)

// AppConfig 应用配置。
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Enrich   EnrichConfig   `yaml:"enrich"`
	Rubric   RubricConfig   `yaml:"rubric"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type EnrichConfig struct {
	Seed int64 `yaml:"seed"`
}

type RubricConfig struct {
	TemplatesPath string `yaml:"templates_path"`
}

func main() {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Printf("load config error: %v", err)
		return
	}

	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = "talent.db"
	}

	store, err := storage.NewStore(dbPath)
	if err != nil {
		log.Printf("init store error: %v", err)
		return
	}
	defer store.Close()

	seed := cfg.Enrich.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	enricher := enrich.New(enrich.NewSeededDefaults(seed))

	templates := rubric.DefaultTemplates()
	if cfg.Rubric.TemplatesPath != "" {
		loaded, err := rubric.LoadTemplates(cfg.Rubric.TemplatesPath)
		if err != nil {
			log.Printf("load rubric templates error: %v, using defaults", err)
		} else {
			templates = loaded
		}
	}

	handler := api.NewHandler(api.Deps{
		Candidates:   storeAdapter{store},
		Feedback:     store,
		Enricher:     enricher,
		Filter:       query.NewEngine(),
		Views:        views.NewService(store),
		Negotiations: negotiation.NewService(store),
		Negotiation:  store,
		Templates:    templates,
	})

	addr := cfg.Server.Addr
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{Addr: addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("server error: %v", err)
	}
}

func loadConfig() (AppConfig, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return AppConfig{}, nil
		}
		return AppConfig{}, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// storeAdapter 适配 API 所需的全量列表接口。
type storeAdapter struct {
	store *storage.Store
}

func (s storeAdapter) ListCandidates(ctx context.Context) ([]model.Candidate, error) {
	return s.store.ListCandidates(ctx, storage.CandidateQueryOptions{})
}

func (s storeAdapter) GetCandidate(ctx context.Context, id string) (*model.Candidate, error) {
	return s.store.GetCandidate(ctx, id)
}
