// Package remotecatalog expone los productos de FeroShop filtrados por la lista de categorías permitidas.
package remotecatalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/Ofertare-api/internal/application/dto"
	"github.com/jhoicas/Ofertare-api/internal/application/ports"
	"github.com/jhoicas/Ofertare-api/internal/domain"
	"github.com/jhoicas/Ofertare-api/internal/domain/remotecatalog"
	"github.com/jhoicas/Ofertare-api/pkg/logger"
	"github.com/jhoicas/Ofertare-api/pkg/pagination"
)

// UseCase consulta, filtra y pagina el catálogo remoto. No hay reintentos.
type UseCase struct {
	fetcher ports.RemoteCatalogFetcher
	allowed []string
	log     *logger.Logger
}

// NewUseCase construye el caso de uso. allowed vacío usa remotecatalog.DefaultAllowedSlugs.
func NewUseCase(fetcher ports.RemoteCatalogFetcher, allowed []string, log *logger.Logger) *UseCase {
	if len(allowed) == 0 {
		allowed = remotecatalog.DefaultAllowedSlugs
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{fetcher: fetcher, allowed: allowed, log: log.Component("remotecatalog")}
}

// Products página de productos permitidos, con las categorías que los agrupan.
func (uc *UseCase) Products(ctx context.Context, page, size int) (dto.RemoteProductsResponse, error) {
	doc, err := uc.fetcher.Fetch(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("no se pudo obtener el catálogo remoto")
		if !errors.Is(err, domain.ErrRemoteFetch) {
			err = fmt.Errorf("%w: %v", domain.ErrRemoteFetch, err)
		}
		return dto.RemoteProductsResponse{}, err
	}
	products := remotecatalog.Filter(*doc, uc.allowed)
	return dto.RemoteProductsResponse{
		Categories: remotecatalog.Categories(*doc, uc.allowed),
		Page:       pagination.Paginate(products, size, page),
	}, nil
}
