package http

import (
	"io"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ofertare-api/internal/application/catalog"
	"github.com/jhoicas/Ofertare-api/internal/application/dto"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
)

// maxImportBytes tamaño máximo de una lista de precios .xlsx.
const maxImportBytes = 20 << 20

// CatalogHandler maneja el catálogo del usuario (protegido).
type CatalogHandler struct {
	uc *catalog.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// param devuelve el parámetro de ruta decodificado (los nombres llevan espacios y diacríticos).
func param(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func pageQuery(c *fiber.Ctx) (page, size int) {
	var q dto.PageRequest
	_ = c.QueryParser(&q)
	q.DefaultPage()
	return q.Page, q.PageSize
}

// Get godoc
// @Summary      Catálogo completo
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.Database
// @Router       /api/catalog [get]
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	db, err := h.uc.Database(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(db)
}

// Replace godoc
// @Summary      Reemplazar el catálogo (importación JSON)
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  entity.Database  true  "Catálogo completo"
// @Success      200   {object}  entity.Database
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/catalog [put]
func (h *CatalogHandler) Replace(c *fiber.Ctx) error {
	var in entity.Database
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	db, err := h.uc.ReplaceDatabase(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(db)
}

// Categories godoc
// @Summary      Listar categorías (paginado, orden de inserción)
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        page       query  int  false  "Página (desde 1)"
// @Param        page_size  query  int  false  "Tamaño de página"
// @Success      200  {object}  pagination.Page[dto.CategorySummary]
// @Router       /api/catalog/categories [get]
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	page, size := pageQuery(c)
	out, err := h.uc.Categories(c.UserContext(), GetUserID(c), page, size)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Category godoc
// @Summary      Detalle de categoría
// @Description  Si no existe responde 200 con found=false.
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre exacto"
// @Success      200   {object}  dto.CategoryView
// @Router       /api/catalog/categories/{name} [get]
func (h *CatalogHandler) Category(c *fiber.Ctx) error {
	out, err := h.uc.Category(c.UserContext(), GetUserID(c), param(c, "name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Nombre"
// @Success      201   {object}  entity.Database
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/catalog/categories [post]
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	db, err := h.uc.AddCategory(c.UserContext(), GetUserID(c), in.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(db)
}

// DeleteCategory godoc
// @Summary      Eliminar categoría
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre exacto"
// @Success      200   {object}  entity.Database
// @Router       /api/catalog/categories/{name} [delete]
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	db, err := h.uc.RemoveCategory(c.UserContext(), GetUserID(c), param(c, "name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(db)
}

// CreateSubcategory godoc
// @Summary      Crear subcategoría con adaos
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        name  path  string                        true  "Categoría"
// @Param        body  body  dto.CreateSubcategoryRequest  true  "Nombre y adaos (%)"
// @Success      201   {object}  entity.Database
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/catalog/categories/{name}/subcategories [post]
func (h *CatalogHandler) CreateSubcategory(c *fiber.Ctx) error {
	var in dto.CreateSubcategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	db, err := h.uc.AddSubcategory(c.UserContext(), GetUserID(c), param(c, "name"), in.Name, in.Adaos)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(db)
}

// Products godoc
// @Summary      Productos de una subcategoría (paginado)
// @Description  Si la ruta no existe responde 200 con found=false.
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        name       path   string  true   "Categoría"
// @Param        sub        path   string  true   "Subcategoría"
// @Param        page       query  int     false  "Página"
// @Param        page_size  query  int     false  "Tamaño de página"
// @Success      200  {object}  dto.ProductsView
// @Router       /api/catalog/categories/{name}/subcategories/{sub}/products [get]
func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	page, size := pageQuery(c)
	out, err := h.uc.Products(c.UserContext(), GetUserID(c), param(c, "name"), param(c, "sub"), page, size)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpsertProducts godoc
// @Summary      Agregar o reemplazar productos (por cod)
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        name  path  string                     true  "Categoría"
// @Param        sub   path  string                     true  "Subcategoría"
// @Param        body  body  dto.UpsertProductsRequest  true  "Productos"
// @Success      200   {object}  entity.Database
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/catalog/categories/{name}/subcategories/{sub}/products [put]
func (h *CatalogHandler) UpsertProducts(c *fiber.Ctx) error {
	var in dto.UpsertProductsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	db, err := h.uc.UpsertProducts(c.UserContext(), GetUserID(c), param(c, "name"), param(c, "sub"), in.Products)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(db)
}

// DeleteProduct godoc
// @Summary      Eliminar producto
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Categoría"
// @Param        sub   path  string  true  "Subcategoría"
// @Param        cod   path  string  true  "Código"
// @Success      200   {object}  entity.Database
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/catalog/categories/{name}/subcategories/{sub}/products/{cod} [delete]
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	db, err := h.uc.RemoveProduct(c.UserContext(), GetUserID(c), param(c, "name"), param(c, "sub"), param(c, "cod"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(db)
}

// Import godoc
// @Summary      Importar lista de precios .xlsx
// @Tags         catalog
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        name  path      string  true  "Categoría"
// @Param        sub   path      string  true  "Subcategoría"
// @Param        file  formData  file    true  "Archivo .xlsx (Cod | Pret | atributos...)"
// @Success      200   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/catalog/categories/{name}/subcategories/{sub}/import [post]
func (h *CatalogHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo 'file' requerido"})
	}
	if fh.Size > maxImportBytes {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo demasiado grande"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return writeError(c, err)
	}
	n, err := h.uc.ImportExcel(c.UserContext(), GetUserID(c), param(c, "name"), param(c, "sub"), data)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ImportResult{Imported: n})
}

// Backups godoc
// @Summary      Copias de seguridad del catálogo (máx. 10)
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BackupSummary
// @Router       /api/catalog/backups [get]
func (h *CatalogHandler) Backups(c *fiber.Ctx) error {
	out, err := h.uc.Backups(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RestoreBackup godoc
// @Summary      Restaurar una copia de seguridad
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        ts  path  int  true  "Marca de tiempo (ms)"
// @Success      200  {object}  entity.Database
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalog/backups/{ts}/restore [post]
func (h *CatalogHandler) RestoreBackup(c *fiber.Ctx) error {
	ts, err := strconv.ParseInt(c.Params("ts"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "marca de tiempo inválida"})
	}
	db, err := h.uc.RestoreBackup(c.UserContext(), GetUserID(c), ts)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(db)
}

// Migrate godoc
// @Summary      Migrar los datos locales al espejo remoto
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MigrationResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/catalog/migrate [post]
func (h *CatalogHandler) Migrate(c *fiber.Ctx) error {
	if err := h.uc.MigrateRemote(c.UserContext(), GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MigrationResponse{Migrated: true})
}
