package cli

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-scoreboard/internal/app"
	"quiz-scoreboard/internal/config"
	"quiz-scoreboard/internal/domain"
	"quiz-scoreboard/internal/infra/memory"
	pgstore "quiz-scoreboard/internal/infra/postgres"
	redisstore "quiz-scoreboard/internal/infra/redis"
	sqlitestore "quiz-scoreboard/internal/infra/sqlite"
	transport "quiz-scoreboard/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the scoreboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 2*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.RosterLoader = memory.NewStaticRosterLoader(sampleRosters())
	switch {
	case pool != nil:
		loader = pgstore.NewRosterLoader(pool)
	case cfg.SQLite.Path != "":
		var db *sql.DB
		db, err = sqlitestore.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		loader = sqlitestore.NewRosterStore(db)
	}

	rosterTTL := config.TTLDuration(cfg.Roster.TTL, 10*time.Minute)
	var rosters app.RosterRepository
	var store app.SessionRepository
	var snapshots app.SnapshotStore
	if redisClient != nil {
		rosters = redisstore.NewRosterRepository(redisClient, loader, rosterTTL)
		store = redisstore.NewSessionStore(redisClient, redisTTL)
		snapshots = redisstore.NewSnapshotStore(redisClient, redisTTL)
	} else {
		rosters = memory.NewRosterRepository(loader, rosterTTL)
		store = memory.NewSessionStore()
		snapshots = memory.NewSnapshotStore()
	}

	var opts []app.ServiceOption
	if pool != nil {
		opts = append(opts, app.WithEventRecorder(pgstore.NewEventLog(pool)))
	}
	service, err := app.NewGameService(store, rosters, snapshots, app.GameConfig{
		Rule:          cfg.Game.Rule,
		WinThreshold:  cfg.Game.Win,
		LoseThreshold: cfg.Game.Lose,
		KeepRedo:      cfg.Game.KeepRedo,
	}, opts...)
	if err != nil {
		return err
	}
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting scoreboard service on :%s (rule %s)", finalPort, cfg.Game.Rule)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleRosters seeds a demo roster when no database is configured.
func sampleRosters() map[string]domain.Roster {
	return map[string]domain.Roster{
		"demo": {
			ID: "demo",
			Entries: []domain.RosterEntry{
				{PlayerID: 1, Name: "Player 1"},
				{PlayerID: 2, Name: "Player 2"},
				{PlayerID: 3, Name: "Player 3"},
				{PlayerID: 4, Name: "Player 4"},
			},
		},
	}
}
