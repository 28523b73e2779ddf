package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"attendance/internal/config"
	"attendance/internal/logger"
	"attendance/internal/repository"
	"attendance/internal/repository/sqlite"
	"attendance/internal/route"
	"attendance/internal/service/backend"
	"attendance/internal/service/capture"
	"attendance/internal/service/gateway"
	"attendance/internal/service/session"
	"attendance/internal/service/views"
	"attendance/internal/service/websocket"

	"github.com/robfig/cron/v3"
)

// uploadHistoryRetention is how long upload outcomes are kept locally.
const uploadHistoryRetention = 7 * 24 * time.Hour

type App struct {
	config    *config.Config
	logger    *logger.Logger
	db        *sqlite.DB
	session   *session.Store
	api       *backend.API
	throttler *capture.Throttler
	hub       *websocket.HubService
	views     *views.Set
	uploads   repository.UploadRepository
	cron      *cron.Cron
}

// NewApp builds the console: session storage, backend client, capture
// throttler and views. The persisted session is restored.
func NewApp(cfg *config.Config, log *logger.Logger) (*App, error) {
	db, err := sqlite.New(cfg.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	store, err := session.NewStore(cfg.BackendURL, httpClient, sqlite.NewCredentialRepository(db), log)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := store.Restore(); err != nil {
		db.Close()
		return nil, err
	}

	gw, err := gateway.NewClient(cfg.BackendURL, httpClient, store, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	api := backend.New(gw)

	hub := websocket.NewHubService(log)
	uploads := sqlite.NewUploadRepository(db)

	throttler := capture.NewThrottler(cameraOpener(cfg), api, log, capture.Options{
		GatePeriod: cfg.CaptureGatePeriod,
		OnAdmit:    hub.BroadcastFrame,
		History:    uploads,
	})

	// Capturing requires a credential: logging out ends the capture session.
	store.OnLogout(throttler.Stop)

	return &App{
		config:    cfg,
		logger:    log,
		db:        db,
		session:   store,
		api:       api,
		throttler: throttler,
		hub:       hub,
		views: views.NewSet(api, log, views.Options{
			PageSize:          cfg.PageSize,
			PresentMinDefault: cfg.PresentMinDefault,
		}),
		uploads: uploads,
	}, nil
}

func cameraOpener(cfg *config.Config) capture.DeviceOpener {
	if cfg.CameraSource == config.CameraSourceUDP {
		return capture.UDPCameraOpener(cfg.CameraUDPAddr)
	}
	return capture.WebcamOpener(cfg.CameraDevice, cfg.CaptureWidth, cfg.CaptureHeight)
}

func (a *App) Session() *session.Store              { return a.session }
func (a *App) API() *backend.API                    { return a.api }
func (a *App) Throttler() *capture.Throttler        { return a.throttler }
func (a *App) Views() *views.Set                    { return a.views }
func (a *App) Uploads() repository.UploadRepository { return a.uploads }

// Handler returns the console HTTP API.
func (a *App) Handler() http.Handler {
	return route.SetupRoutes(route.Deps{
		Session:   a.session,
		Throttler: a.throttler,
		Views:     a.views,
		Hub:       a.hub,
		Uploads:   a.uploads,
		Logger:    a.logger,
	})
}

// StartSchedule registers the periodic jobs: view refresh when
// REFRESH_SCHEDULE is set and the daily upload history pruning.
func (a *App) StartSchedule(ctx context.Context) error {
	a.cron = cron.New()

	if a.config.RefreshSchedule != "" {
		_, err := a.cron.AddFunc(a.config.RefreshSchedule, func() {
			if !a.session.Authenticated() {
				return
			}
			if err := a.views.RefreshLoaded(ctx); err != nil {
				a.logger.Warning("Scheduled refresh failed: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid REFRESH_SCHEDULE %q: %w", a.config.RefreshSchedule, err)
		}
	}

	_, err := a.cron.AddFunc("@daily", func() {
		n, err := a.uploads.DeleteBefore(time.Now().Add(-uploadHistoryRetention))
		if err != nil {
			a.logger.Warning("Upload history pruning failed: %v", err)
			return
		}
		if n > 0 {
			a.logger.Info("🧹 Pruned %d upload records", n)
		}
	})
	if err != nil {
		return err
	}

	a.cron.Start()
	return nil
}

// Run serves the console until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Run(ctx)

	if err := a.StartSchedule(ctx); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.Port),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.logger.Info("🚀 Attendance console")
	a.logger.Info("📍 URL: http://localhost:%d", a.config.Port)
	a.logger.Info("🛰️  Backend: %s", a.config.BackendURL)
	a.logger.Info("🎥 Camera: %s (gate %s)", a.config.CameraSource, a.config.CaptureGatePeriod)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// Close stops capturing and the scheduler and releases the session storage.
func (a *App) Close() error {
	a.throttler.Stop()
	if a.cron != nil {
		<-a.cron.Stop().Done()
	}
	return a.db.Close()
}
