package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ofertare-api/internal/application/auth"
	"github.com/jhoicas/Ofertare-api/internal/application/catalog"
	appquote "github.com/jhoicas/Ofertare-api/internal/application/quote"
	"github.com/jhoicas/Ofertare-api/internal/application/remotecatalog"
	"github.com/jhoicas/Ofertare-api/internal/application/upload"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	CatalogUC *catalog.CatalogUseCase
	Quotes    *appquote.Coordinator
	RemoteUC  *remotecatalog.UseCase
	UploadUC  *upload.UseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token de una sesión abierta)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.AuthUC))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/session", authHandler.Session)

	// Catálogo
	cat := protected.Group("/catalog")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	cat.Get("/", catalogHandler.Get)
	cat.Put("/", catalogHandler.Replace)
	cat.Get("/categories", catalogHandler.Categories)
	cat.Post("/categories", catalogHandler.CreateCategory)
	cat.Get("/categories/:name", catalogHandler.Category)
	cat.Delete("/categories/:name", catalogHandler.DeleteCategory)
	cat.Post("/categories/:name/subcategories", catalogHandler.CreateSubcategory)
	cat.Get("/categories/:name/subcategories/:sub/products", catalogHandler.Products)
	cat.Put("/categories/:name/subcategories/:sub/products", catalogHandler.UpsertProducts)
	cat.Delete("/categories/:name/subcategories/:sub/products/:cod", catalogHandler.DeleteProduct)
	cat.Post("/categories/:name/subcategories/:sub/import", catalogHandler.Import)
	cat.Get("/backups", catalogHandler.Backups)
	cat.Post("/backups/:ts/restore", catalogHandler.RestoreBackup)
	cat.Post("/migrate", catalogHandler.Migrate)

	// Oferta activa
	q := protected.Group("/quote")
	quoteHandler := NewQuoteHandler(deps.Quotes)
	q.Get("/", quoteHandler.Get)
	q.Get("/selection", quoteHandler.Selection)
	q.Put("/selection", quoteHandler.Select)
	q.Put("/header", quoteHandler.SetHeader)
	q.Get("/items", quoteHandler.Items)
	q.Post("/items", quoteHandler.AddItem)
	q.Post("/items/manual", quoteHandler.AddManualItem)
	q.Patch("/items/:id", quoteHandler.UpdateItem)
	q.Put("/items/:id/quantity", quoteHandler.UpdateQuantity)
	q.Delete("/items/:id", quoteHandler.RemoveItem)
	q.Post("/save", quoteHandler.Save)
	q.Post("/new", quoteHandler.New)
	q.Get("/saved", quoteHandler.Saved)
	q.Post("/saved/:id/open", quoteHandler.Open)
	q.Delete("/saved/:id", quoteHandler.DeleteSaved)
	q.Get("/render", quoteHandler.Render)
	q.Get("/export.pdf", quoteHandler.ExportPDF)
	q.Get("/export.xlsx", quoteHandler.ExportXLSX)

	// FeroShop e imágenes
	remoteHandler := NewRemoteHandler(deps.RemoteUC, deps.UploadUC)
	protected.Get("/remote/products", remoteHandler.Products)
	protected.Post("/uploads/images", remoteHandler.UploadImage)
}
