package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Goofygiraffe06/prepwise/internal/account"
	"github.com/Goofygiraffe06/prepwise/internal/auth"
	"github.com/Goofygiraffe06/prepwise/internal/config"
	"github.com/Goofygiraffe06/prepwise/internal/logging"
	"github.com/Goofygiraffe06/prepwise/internal/mail"
	"github.com/Goofygiraffe06/prepwise/internal/manager"
	"github.com/Goofygiraffe06/prepwise/internal/notify"
	"github.com/Goofygiraffe06/prepwise/store"
	"github.com/Goofygiraffe06/prepwise/store/ephemeral"
	"github.com/Goofygiraffe06/prepwise/web"
)

func main() {
	f, err := logging.InitLogger(config.LogFile())
	if err != nil {
		// If logging fails there is nothing to log the error with.
		panic("Failed to initialize logger: " + err.Error())
	}
	defer f.Close()
	defer logging.Sync()

	logging.InfoLog("Starting PrepWise server")

	// Secure SQLite DB file if it exists
	dbFile := config.DBPath()
	if _, err := os.Stat(dbFile); err == nil {
		if err := os.Chmod(dbFile, 0600); err != nil {
			logging.ErrorLog("Failed to set restrictive permissions on %s: %v", dbFile, err)
		}
	}

	userStore, err := store.NewSQLiteStore(dbFile)
	if err != nil {
		logging.FatalLog("Failed to open account database: %v", err)
	}
	defer userStore.Close()
	logging.InfoLog("Connected to SQLite database: %s", dbFile)

	mgr := manager.NewWorkManager()
	defer mgr.Close()

	toastStore := ephemeral.New()
	defer toastStore.Close()

	mailer := newMailer()
	var welcome account.Welcomer
	if mailer.Enabled() {
		welcome = mailer
	}

	router, err := web.NewRouter(web.Deps{
		Auth:           account.NewService(userStore, mgr, welcome),
		Toasts:         notify.NewCenter(toastStore, config.ToastTTL(), config.CookieSecure()),
		Sessions:       auth.NewSessions(config.SessionSecret(), config.SessionIssuer(), config.SessionTTL()),
		SecureCookies:  config.CookieSecure(),
		AllowedOrigins: config.CORSAllowedOrigins(),
		MaxBodyBytes:   config.MaxRequestBodyBytes(),
	})
	if err != nil {
		logging.FatalLog("Failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              config.ListenAddr(),
		Handler:           router,
		ReadTimeout:       config.ServerReadTimeout(),
		ReadHeaderTimeout: config.ServerReadHeaderTimeout(),
		WriteTimeout:      config.ServerWriteTimeout(),
		IdleTimeout:       config.ServerIdleTimeout(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.InfoLog("PrepWise server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorLog("Server failed: %v", err)
		}
	case <-ctx.Done():
		logging.InfoLog("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.ErrorLog("Graceful shutdown failed: %v", err)
		}
	}
	logging.InfoLog("PrepWise server stopped")
}

func newMailer() *mail.Mailer {
	cfg := mail.Config{
		Addr:         config.MailSMTPAddr(),
		From:         config.MailFrom(),
		Username:     config.MailUsername(),
		Password:     config.MailPassword(),
		DKIMDomain:   config.DKIMDomain(),
		DKIMSelector: config.DKIMSelector(),
	}
	if cfg.Addr == "" {
		logging.InfoLog("Outbound mail disabled: MAIL_SMTP_ADDR not set")
		return mail.New(cfg)
	}

	if cfg.DKIMDomain != "" {
		cfg.Key = loadDKIMKey()
	}

	if ip := config.MailRelayIP(); ip != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		mail.Preflight(ctx, ip, cfg.From)
		cancel()
	}
	return mail.New(cfg)
}

func loadDKIMKey() *auth.SigningKey {
	if path := config.DKIMKeyFile(); path != "" {
		key, err := auth.LoadSigningKey(path)
		if err != nil {
			logging.FatalLog("Failed to load DKIM key %s: %v", path, err)
		}
		return key
	}
	key, err := auth.GenerateSigningKey()
	if err != nil {
		logging.FatalLog("Failed to generate DKIM key: %v", err)
	}
	logging.WarnLog("DKIM key generated at start; publish this record: %s", key.DKIMRecord())
	return key
}
