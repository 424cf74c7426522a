package dto

import (
	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
	"github.com/jhoicas/Ofertare-api/pkg/pagination"
)

// RemoteProductsResponse productos de FeroShop de las categorías permitidas.
type RemoteProductsResponse struct {
	Categories []entity.RemoteCategory             `json:"categories"`
	Page       pagination.Page[entity.RemoteProduct] `json:"page"`
}

// UploadResponse URL pública de la imagen subida.
type UploadResponse struct {
	URL string `json:"secure_url"`
}
