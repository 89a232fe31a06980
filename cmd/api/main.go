package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/telemedpro/telemed/backend/internal/analysis/intent"
	"github.com/telemedpro/telemed/backend/internal/config"
	"github.com/telemedpro/telemed/backend/internal/device"
	"github.com/telemedpro/telemed/backend/internal/handler"
	"github.com/telemedpro/telemed/backend/internal/model/doctor"
	"github.com/telemedpro/telemed/backend/internal/model/record"
	"github.com/telemedpro/telemed/backend/internal/service/ai"
	"github.com/telemedpro/telemed/backend/internal/service/appointment"
	"github.com/telemedpro/telemed/backend/internal/service/auth"
	"github.com/telemedpro/telemed/backend/internal/service/chat"
	"github.com/telemedpro/telemed/backend/internal/service/emergency"
	"github.com/telemedpro/telemed/backend/internal/service/prescription"
	"github.com/telemedpro/telemed/backend/internal/service/profile"
	"github.com/telemedpro/telemed/backend/internal/service/videocall"
	"github.com/telemedpro/telemed/backend/pkg/log"
	"github.com/telemedpro/telemed/backend/pkg/token"
)

const shutdownTimeout = 10 * time.Second

// 模拟设备的定位结果（圣地亚哥市中心）
var simulatedFix = device.Coordinates{Latitude: -33.4372, Longitude: -70.6506}

const simulatedAddress = "Plaza de Armas, Santiago, Chile"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if envErr != nil {
		log.Warnw("failed to load .env file, continuing with system environment variables only", "error", envErr)
	}

	if err := run(ctx, cfg); err != nil {
		log.Fatal("server error", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	rules, err := intent.NewNamed(cfg.Chat.RuleSet)
	if err != nil {
		return err
	}

	doctors := doctor.NewMemoryStore(doctor.Seed())
	caps := device.NewSimulated(simulatedFix, simulatedAddress)
	notices := device.NewNotices()
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	profiles := profile.NewService(record.SeedProfile(), caps)

	chatSvc := chat.NewService(chat.Options{
		ReplyDelay:  cfg.Chat.ReplyDelay,
		EventBuffer: cfg.Chat.EventBuffer,
		Doctors:     doctors,
		Rules:       rules,
		Responder:   newResponder(ctx, cfg, rules),
	})
	calls := videocall.NewService(caps, cfg.Call.ConnectDelay)

	router := handler.NewRouter(handler.Services{
		Doctors:       doctors,
		Device:        caps,
		Notices:       notices,
		Tokens:        tokens,
		Auth:          auth.NewService(tokens, profiles),
		Chat:          chatSvc,
		Appointments:  appointment.NewService(doctors, record.SeedAppointments()),
		Prescriptions: prescription.NewService(record.SeedPrescriptions()),
		Profile:       profiles,
		Emergency:     emergency.NewService(profiles, caps, notices),
		Calls:         calls,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("TeleMed Pro backend listening", "addr", srv.Addr, "responder", cfg.Chat.Responder)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		chatSvc.Shutdown()
		if callErr := calls.Shutdown(shutdownCtx); callErr != nil {
			err = errors.Join(err, callErr)
		}
		log.Info("server stopped")
		return err
	})
	return g.Wait()
}

// newResponder 在 CHAT_RESPONDER=ark 时使用大模型，失败则回退到规则表。
func newResponder(ctx context.Context, cfg *config.Config, rules *intent.Responder) chat.Responder {
	if cfg.Chat.Responder != config.ResponderArk {
		return nil
	}
	if !cfg.AI.Enabled() {
		log.Warnw("Ark 凭证未配置，使用规则回复", "responder", cfg.Chat.Responder)
		return nil
	}
	svc, err := ai.NewService(ctx, cfg.AI, rules)
	if err != nil {
		log.Warnw("failed to initialize AI responder, using rules", "error", err)
		return nil
	}
	log.Info("AI responder initialized")
	return svc
}
