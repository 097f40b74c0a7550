package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/buildinfo"
	"github.com/dmitrijs2005/gophauth/internal/client/biometric"
	"github.com/dmitrijs2005/gophauth/internal/client/cli"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/securestore"
	"github.com/dmitrijs2005/gophauth/internal/client/services"
	"github.com/dmitrijs2005/gophauth/internal/client/storage"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/filex"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}

	var logOut io.Writer = os.Stderr
	if !cfg.Ephemeral {
		dir, err := filex.EnsureDir(cfg.DataDir)
		if err != nil {
			return err
		}
		cfg.DataDir = dir

		f, err := os.OpenFile(filepath.Join(dir, "gophauth.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	logger, err := logging.New(logging.Options{
		Backend: cfg.LogBackend,
		Format:  cfg.LogFormat,
		Level:   cfg.LogLevel,
	}, logOut)
	if err != nil {
		return err
	}
	if z, ok := logger.(*logging.ZapLogger); ok {
		defer func() { _ = z.Sync() }()
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	reader := bufio.NewReader(os.Stdin)

	var auth biometric.Authenticator = biometric.Unsupported{}
	if cfg.BiometricsSupported {
		auth = biometric.NewPromptAuthenticator(cfg.BiometricHardware, cfg.BiometricEnrolled, reader, os.Stdout)
	}

	manager := services.NewSessionManager(store,
		services.WithLogger(logger),
		services.WithPolicy(services.Policy{
			MaxFailedAttempts: cfg.MaxFailedAttempts,
			LockDuration:      cfg.LockDuration,
		}),
		services.WithCredentialScheme(cfg.CredentialMode),
		services.WithBiometrics(cfg.BiometricsSupported, auth),
	)
	manager.Init(ctx)

	app := cli.NewApp(manager, reader, os.Stdout, logger, cfg.LockCheckInterval)
	app.Run(ctx)
	return nil
}

// openStore returns the encrypted SQLite store, or a memory store for
// ephemeral runs.
func openStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (securestore.Store, func(), error) {
	if cfg.Ephemeral {
		logger.Info(ctx, "using ephemeral in-memory store")
		return securestore.NewMemoryStore(), func() {}, nil
	}

	key, err := filex.LoadOrCreateKey(cfg.DeviceKeyPath(), cryptox.KeySize)
	if err != nil {
		return nil, nil, fmt.Errorf("device key: %w", err)
	}

	db, err := storage.InitDatabase(ctx, cfg.DatabasePath())
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing database: %w", err)
	}

	store, err := securestore.NewSQLiteStore(ctx, db, key)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	logger.Info(ctx, "secure store opened", "path", cfg.DatabasePath())
	return store, func() { _ = db.Close() }, nil
}
