package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"voice-notes/configs"
	middleware "voice-notes/middlewares"
	"voice-notes/repository"
	"voice-notes/server"
	service "voice-notes/services"
	"voice-notes/utils"

	fiberprometheus "github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
	"google.golang.org/grpc/health"
)

var serveMemory bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the notes HTTP API and the gRPC health service",
	RunE:  runServe,
}

type storage struct {
	notes    repository.NoteRepositoryInterface
	users    repository.UserRepositoryInterface
	attempts repository.LoginAttemptRepositoryInterface
	pinger   server.Pinger
	close    func()
}

func openStorage(ctx context.Context, cfg configs.Config, log *slog.Logger) (*storage, error) {
	if serveMemory {
		log.Warn("using in-memory storage, data is lost on exit")
		return &storage{
			notes:    repository.NewMemoryNoteRepository(),
			users:    repository.NewMemoryUserRepository(),
			attempts: repository.NewMemoryLoginAttemptRepository(),
			close:    func() {},
		}, nil
	}

	mc, err := configs.ConnectMongo(ctx, cfg.MongoURI, log)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	db := mc.Database(cfg.MongoDatabase)
	if err := configs.EnsureIndexes(ctx, db); err != nil {
		_ = mc.Disconnect(context.Background())
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	st := &storage{
		notes:  repository.NewNoteRepository(db.Collection(configs.NotesCollection)),
		users:  repository.NewUserRepository(db.Collection(configs.UsersCollection)),
		pinger: configs.MongoPinger{Client: mc},
	}

	rc, err := configs.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		_ = mc.Disconnect(context.Background())
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if rc != nil {
		st.attempts = repository.NewRedisLoginAttemptRepository(rc)
	} else {
		log.Info("REDIS_ADDR not set, login rate limiting disabled")
	}

	st.close = func() {
		if rc != nil {
			_ = rc.Close()
		}
		_ = mc.Disconnect(context.Background())
	}
	return st, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := configs.Load(v)
	if err != nil {
		return err
	}
	log := utils.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	issuer, err := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	// Registered here only: the collectors are process-global.
	metrics := func(app *fiber.App) {
		p := fiberprometheus.New("voice-notes")
		p.RegisterAt(app, "/metrics")
		app.Use(p.Middleware)
	}

	hub := service.NewWebSocketService(log)
	app := server.NewApp(server.Deps{
		Notes:         service.NewNoteService(st.notes, hub, log),
		Auth:          service.NewAuthService(st.users, issuer, log),
		Hub:           hub,
		LoginAttempts: st.attempts,
		LoginLimit:    middleware.LoginLimitConfig{Limit: cfg.LoginRateLimit, Window: cfg.LoginRateWindow},
		CORSOrigins:   cfg.CORSOrigins,
		Log:           log,
		Instrument:    metrics,
	})

	hs := health.NewServer()
	go func() {
		if err := server.RunGRPCServer(ctx, cfg.GRPCAddr, hs, log); err != nil {
			log.Error("gRPC server stopped", slog.Any("error", err))
		}
	}()
	if st.pinger != nil {
		go server.WatchStore(ctx, hs, st.pinger, 15*time.Second, log)
	}

	if cfg.ConsulAddress != "" {
		if err := registerWithConsul(ctx, cfg); err != nil {
			log.Warn("consul registration failed", slog.Any("error", err))
		}
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("http shutdown", slog.Any("error", err))
		}
	}()

	log.Info("starting HTTP server", slog.String("addr", cfg.HTTPAddr))
	if err := app.Listen(cfg.HTTPAddr); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func registerWithConsul(ctx context.Context, cfg configs.Config) error {
	host, portStr, err := net.SplitHostPort(cfg.HTTPAddr)
	if err != nil {
		return err
	}
	if host == "" {
		host = "localhost"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	regCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return configs.RegisterService(regCtx, cfg.ConsulAddress, configs.ConsulService{
		ID:      "voice-notes",
		Name:    "voice-notes",
		Address: host,
		Port:    port,
	}, fmt.Sprintf("http://%s:%d/health", host, port))
}

func init() {
	serveCmd.Flags().BoolVar(&serveMemory, "memory", false, "keep everything in memory instead of MongoDB and Redis")
	rootCmd.AddCommand(serveCmd)
}
