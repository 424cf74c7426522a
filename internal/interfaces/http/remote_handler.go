package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ofertare-api/internal/application/dto"
	"github.com/jhoicas/Ofertare-api/internal/application/ports"
	"github.com/jhoicas/Ofertare-api/internal/application/remotecatalog"
	"github.com/jhoicas/Ofertare-api/internal/application/upload"
)

// RemoteHandler catálogo de FeroShop y subida de imágenes (protegido).
type RemoteHandler struct {
	remote *remotecatalog.UseCase
	upload *upload.UseCase
}

// NewRemoteHandler construye el handler.
func NewRemoteHandler(remote *remotecatalog.UseCase, up *upload.UseCase) *RemoteHandler {
	return &RemoteHandler{remote: remote, upload: up}
}

// Products godoc
// @Summary      Productos de FeroShop de las categorías permitidas
// @Tags         remote
// @Security     Bearer
// @Produce      json
// @Param        page       query  int  false  "Página"
// @Param        page_size  query  int  false  "Tamaño de página"
// @Success      200  {object}  dto.RemoteProductsResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/remote/products [get]
func (h *RemoteHandler) Products(c *fiber.Ctx) error {
	page, size := pageQuery(c)
	out, err := h.remote.Products(c.UserContext(), page, size)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UploadImage godoc
// @Summary      Subir imagen de producto
// @Tags         uploads
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file    formData  file    true   "Imagen"
// @Param        folder  formData  string  false  "Carpeta destino"
// @Success      201  {object}  dto.UploadResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/uploads/images [post]
func (h *RemoteHandler) UploadImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo 'file' requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()
	out, err := h.upload.UploadImage(c.UserContext(), ports.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
		Folder:      c.FormValue("folder"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
