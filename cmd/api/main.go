package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Ofertare-api/internal/application/auth"
	"github.com/jhoicas/Ofertare-api/internal/application/catalog"
	appquote "github.com/jhoicas/Ofertare-api/internal/application/quote"
	"github.com/jhoicas/Ofertare-api/internal/application/remotecatalog"
	"github.com/jhoicas/Ofertare-api/internal/application/upload"
	"github.com/jhoicas/Ofertare-api/internal/infrastructure/cloudinary"
	"github.com/jhoicas/Ofertare-api/internal/infrastructure/feroshop"
	"github.com/jhoicas/Ofertare-api/internal/infrastructure/mirror"
	infrapdf "github.com/jhoicas/Ofertare-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Ofertare-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Ofertare-api/internal/infrastructure/session"
	"github.com/jhoicas/Ofertare-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Ofertare-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/Ofertare-api/internal/interfaces/http"
	"github.com/jhoicas/Ofertare-api/pkg/config"
	"github.com/jhoicas/Ofertare-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	store, err := sqlite.Open(cfg.Local.SQLitePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Local.SQLitePath).Msg("abrir almacenamiento local")
	}
	defer store.Close()

	local := mirror.Local{
		Catalogs: sqlite.NewDatabaseRepository(store),
		Quotes:   sqlite.NewQuoteRepository(store),
		State:    sqlite.NewMirrorStateRepository(store),
	}

	// Espejo PostgreSQL opcional; sin él todo queda en SQLite.
	var remote *mirror.Remote
	if cfg.DB.MirrorEnabled {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("esquema del espejo")
		}
		remote = &mirror.Remote{
			Catalogs: postgres.NewCatalogRepository(pool),
			Quotes:   postgres.NewQuoteRepository(pool),
			Tx:       postgres.NewTxRunner(pool),
		}
		log.Info().Msg("espejo remoto habilitado")
	}
	mirrored := mirror.New(local, remote, log)

	authUC := auth.NewAuthUseCase(
		auth.NewLocalProvider(sqlite.NewUserRepository(store)),
		sqlite.NewSessionRepository(store),
		session.NewHub(),
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		log,
	)

	catalogUC := catalog.NewCatalogUseCase(
		mirrored,
		sqlite.NewBackupRepository(store, cfg.Local.BackupLimit),
		mirrored,
		xlsx.NewCatalogImporter(),
		log,
	)

	coord := appquote.NewCoordinator(appquote.Deps{
		Catalog:     catalogUC,
		Drafts:      sqlite.NewDraftRepository(store),
		Quotes:      mirrored.Quotes(),
		PDF:         infrapdf.NewQuotePDFGenerator(),
		XLSX:        xlsx.NewQuoteExporter(),
		CompanyName: cfg.Quote.CompanyName,
		PageSize:    cfg.Quote.PageSize,
		Log:         log,
	})
	// Al cerrar la última sesión se descartan la oferta en memoria y su borrador.
	authUC.OnSignOut(coord.Reset)

	remoteUC := remotecatalog.NewUseCase(
		feroshop.NewClient(cfg.FeroShop.BaseURL, cfg.FeroShop.ProductsPath, cfg.FeroShop.Timeout),
		cfg.FeroShop.AllowedSlugs,
		log,
	)

	uploadUC := upload.NewUseCase(cloudinary.NewUploader(cloudinary.Config{
		BaseURL:       cfg.Cloudinary.BaseURL,
		CloudName:     cfg.Cloudinary.CloudName,
		UploadPreset:  cfg.Cloudinary.UploadPreset,
		DefaultFolder: cfg.Cloudinary.Folder,
	}), cfg.Cloudinary.MaxBytes, log)

	// Sin WriteTimeout: /api/auth/session mantiene un stream SSE abierto.
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    int(cfg.Cloudinary.MaxBytes) + 1<<20,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ofertare API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := store.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "mirror": mirrored.Enabled()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		CatalogUC: catalogUC,
		Quotes:    coord,
		RemoteUC:  remoteUC,
		UploadUC:  uploadUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
