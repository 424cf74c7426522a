// Package upload valida y delega la subida de imágenes de producto.
package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/Ofertare-api/internal/application/dto"
	"github.com/jhoicas/Ofertare-api/internal/application/ports"
	"github.com/jhoicas/Ofertare-api/internal/domain"
	"github.com/jhoicas/Ofertare-api/pkg/logger"
)

// DefaultMaxBytes tamaño máximo cuando no se configura otro (10 MiB).
const DefaultMaxBytes int64 = 10 << 20

// UseCase subida de imágenes.
type UseCase struct {
	uploader ports.ImageUploader
	maxBytes int64
	log      *logger.Logger
}

// NewUseCase construye el caso de uso. maxBytes <= 0 usa DefaultMaxBytes.
func NewUseCase(uploader ports.ImageUploader, maxBytes int64, log *logger.Logger) *UseCase {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{uploader: uploader, maxBytes: maxBytes, log: log.Component("upload")}
}

// UploadImage valida tipo (image/*) y tamaño, sube el archivo y devuelve su URL pública.
// Los fallos del servicio se devuelven envueltos en domain.ErrUploadFailed.
func (uc *UseCase) UploadImage(ctx context.Context, in ports.ImageUpload) (dto.UploadResponse, error) {
	if in.Body == nil || in.Size <= 0 {
		return dto.UploadResponse{}, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	if !strings.HasPrefix(strings.ToLower(in.ContentType), "image/") {
		return dto.UploadResponse{}, fmt.Errorf("%w: solo se aceptan imágenes (%s)", domain.ErrInvalidInput, in.ContentType)
	}
	if in.Size > uc.maxBytes {
		return dto.UploadResponse{}, fmt.Errorf("%w: la imagen supera %d bytes", domain.ErrInvalidInput, uc.maxBytes)
	}

	url, err := uc.uploader.Upload(ctx, in, func(p int) {
		uc.log.Debug().Str("file", in.Filename).Int("percent", p).Msg("progreso de subida")
	})
	if err != nil {
		uc.log.Error().Err(err).Str("file", in.Filename).Msg("subida de imagen falló")
		if !errors.Is(err, domain.ErrUploadFailed) {
			err = fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
		}
		return dto.UploadResponse{}, err
	}
	uc.log.Info().Str("file", in.Filename).Str("url", url).Msg("imagen subida")
	return dto.UploadResponse{URL: url}, nil
}
