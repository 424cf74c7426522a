package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ofertare-api/internal/application/dto"
	appquote "github.com/jhoicas/Ofertare-api/internal/application/quote"
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// QuoteHandler maneja la oferta activa y la selección en el catálogo (protegido).
type QuoteHandler struct {
	coord *appquote.Coordinator
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(coord *appquote.Coordinator) *QuoteHandler {
	return &QuoteHandler{coord: coord}
}

func renderMode(c *fiber.Ctx) (entity.RenderMode, error) {
	return entity.ParseRenderMode(c.Query("mode"))
}

func invalidMode(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
}

func (h *QuoteHandler) reply(c *fiber.Ctx, out dto.QuoteResponse, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Oferta activa
// @Tags         quote
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.QuoteResponse
// @Router       /api/quote [get]
func (h *QuoteHandler) Get(c *fiber.Ctx) error {
	out, err := h.coord.Quote(c.UserContext(), GetUserID(c))
	return h.reply(c, out, err)
}

// Items godoc
// @Summary      Líneas de la oferta (paginado)
// @Tags         quote
// @Security     Bearer
// @Produce      json
// @Param        page       query  int  false  "Página"
// @Param        page_size  query  int  false  "Tamaño de página"
// @Success      200  {object}  pagination.Page[entity.QuoteItem]
// @Router       /api/quote/items [get]
func (h *QuoteHandler) Items(c *fiber.Ctx) error {
	page, size := pageQuery(c)
	out, err := h.coord.Items(c.UserContext(), GetUserID(c), page, size)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Selection godoc
// @Summary      Selección vigente en el catálogo
// @Tags         quote
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SelectionView
// @Router       /api/quote/selection [get]
func (h *QuoteHandler) Selection(c *fiber.Ctx) error {
	out, err := h.coord.Selection(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Select godoc
// @Summary      Cambiar la selección (categoría → subcategoría → producto)
// @Description  Nombres inexistentes limpian la selección y devuelven found=false.
// @Tags         quote
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.Selection  true  "Ruta de selección"
// @Success      200   {object}  dto.SelectionView
// @Router       /api/quote/selection [put]
func (h *QuoteHandler) Select(c *fiber.Ctx) error {
	var in dto.Selection
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.Select(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetHeader godoc
// @Summary      Título, beneficiario y ocultación de precios por línea
// @Tags         quote
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.HeaderRequest  true  "Encabezado"
// @Success      200   {object}  dto.QuoteResponse
// @Router       /api/quote/header [put]
func (h *QuoteHandler) SetHeader(c *fiber.Ctx) error {
	var in dto.HeaderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.SetHeader(c.UserContext(), GetUserID(c), in)
	return h.reply(c, out, err)
}

// AddItem godoc
// @Summary      Agregar producto del catálogo (sin cod: el seleccionado)
// @Tags         quote
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddItemRequest  true  "Producto y cantidad"
// @Success      201   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/quote/items [post]
func (h *QuoteHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.AddItem(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddManualItem godoc
// @Summary      Agregar línea manual con precio libre
// @Tags         quote
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddManualItemRequest  true  "Detalle, precio y cantidad"
// @Success      201   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/quote/items/manual [post]
func (h *QuoteHandler) AddManualItem(c *fiber.Ctx) error {
	var in dto.AddManualItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.AddManualItem(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateItem godoc
// @Summary      Cambiar precio y/o cantidad de una línea
// @Tags         quote
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "Id de línea"
// @Param        body  body  dto.UpdateItemRequest  true  "Cambios"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/quote/items/{id} [patch]
func (h *QuoteHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.UpdateItem(c.UserContext(), GetUserID(c), c.Params("id"), in)
	return h.reply(c, out, err)
}

// UpdateQuantity godoc
// @Summary      Cambiar la cantidad de una línea (>= 1)
// @Tags         quote
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "Id de línea"
// @Param        body  body  dto.UpdateQuantityRequest  true  "Cantidad"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/quote/items/{id}/quantity [put]
func (h *QuoteHandler) UpdateQuantity(c *fiber.Ctx) error {
	var in dto.UpdateQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.UpdateQuantity(c.UserContext(), GetUserID(c), c.Params("id"), in.Quantity)
	return h.reply(c, out, err)
}

// RemoveItem godoc
// @Summary      Quitar una línea (idempotente)
// @Tags         quote
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Id de línea"
// @Success      200  {object}  dto.QuoteResponse
// @Router       /api/quote/items/{id} [delete]
func (h *QuoteHandler) RemoveItem(c *fiber.Ctx) error {
	out, err := h.coord.RemoveItem(c.UserContext(), GetUserID(c), c.Params("id"))
	return h.reply(c, out, err)
}

// Save godoc
// @Summary      Guardar la oferta activa (local y espejo remoto)
// @Tags         quote
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.QuoteSummary
// @Router       /api/quote/save [post]
func (h *QuoteHandler) Save(c *fiber.Ctx) error {
	out, err := h.coord.Save(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// New godoc
// @Summary      Empezar una oferta vacía
// @Tags         quote
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.QuoteResponse
// @Router       /api/quote/new [post]
func (h *QuoteHandler) New(c *fiber.Ctx) error {
	out, err := h.coord.NewQuote(c.UserContext(), GetUserID(c))
	return h.reply(c, out, err)
}

// Saved godoc
// @Summary      Ofertas guardadas
// @Tags         quote
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.QuoteSummary
// @Router       /api/quote/saved [get]
func (h *QuoteHandler) Saved(c *fiber.Ctx) error {
	out, err := h.coord.SavedQuotes(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Open godoc
// @Summary      Activar una oferta guardada
// @Tags         quote
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Id de oferta"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quote/saved/{id}/open [post]
func (h *QuoteHandler) Open(c *fiber.Ctx) error {
	out, err := h.coord.OpenQuote(c.UserContext(), GetUserID(c), c.Params("id"))
	return h.reply(c, out, err)
}

// DeleteSaved godoc
// @Summary      Borrar una oferta guardada
// @Tags         quote
// @Security     Bearer
// @Param        id  path  string  true  "Id de oferta"
// @Success      204
// @Router       /api/quote/saved/{id} [delete]
func (h *QuoteHandler) DeleteSaved(c *fiber.Ctx) error {
	if err := h.coord.DeleteQuote(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Render godoc
// @Summary      Vista de la oferta (client | internal)
// @Tags         quote
// @Security     Bearer
// @Produce      json
// @Param        mode  query  string  false  "client (defecto) o internal"
// @Success      200  {object}  quote.Rendered
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/quote/render [get]
func (h *QuoteHandler) Render(c *fiber.Ctx) error {
	mode, err := renderMode(c)
	if err != nil {
		return invalidMode(c, err)
	}
	out, err := h.coord.Render(c.UserContext(), GetUserID(c), mode)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExportPDF godoc
// @Summary      Oferta en PDF
// @Tags         quote
// @Security     Bearer
// @Produce      application/pdf
// @Param        mode  query  string  false  "client (defecto) o internal"
// @Success      200
// @Router       /api/quote/export.pdf [get]
func (h *QuoteHandler) ExportPDF(c *fiber.Ctx) error {
	mode, err := renderMode(c)
	if err != nil {
		return invalidMode(c, err)
	}
	data, err := h.coord.ExportPDF(c.UserContext(), GetUserID(c), mode)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="oferta-%s.pdf"`, mode))
	return c.Send(data)
}

// ExportXLSX godoc
// @Summary      Oferta en Excel
// @Tags         quote
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        mode  query  string  false  "client (defecto) o internal"
// @Success      200
// @Router       /api/quote/export.xlsx [get]
func (h *QuoteHandler) ExportXLSX(c *fiber.Ctx) error {
	mode, err := renderMode(c)
	if err != nil {
		return invalidMode(c, err)
	}
	data, err := h.coord.ExportXLSX(c.UserContext(), GetUserID(c), mode)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="oferta-%s.xlsx"`, mode))
	return c.Send(data)
}
