package cloudinary_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ofertare-api/internal/application/ports"
	"github.com/jhoicas/Ofertare-api/internal/domain"
	"github.com/jhoicas/Ofertare-api/internal/infrastructure/cloudinary"
)

type progressLog struct {
	mu     sync.Mutex
	values []int
}

func (p *progressLog) add(v int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values = append(p.values, v)
}

func TestUpload_Multipart(t *testing.T) {
	payload := bytes.Repeat([]byte{0xFF}, 64*1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1_1/demo/image/upload", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "preset-x", r.FormValue("upload_preset"))
		assert.Equal(t, "produse", r.FormValue("folder"))

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		assert.Equal(t, "masa.jpg", hdr.Filename)
		got, _ := io.ReadAll(f)
		assert.Len(t, got, len(payload))

		_, _ = w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/masa.jpg","public_id":"x"}`))
	}))
	defer srv.Close()

	up := cloudinary.NewUploader(cloudinary.Config{
		BaseURL: srv.URL, CloudName: "demo", UploadPreset: "preset-x", DefaultFolder: "produse",
	})
	var log progressLog
	url, err := up.Upload(context.Background(), ports.ImageUpload{
		Filename: "masa.jpg", ContentType: "image/jpeg", Size: int64(len(payload)), Body: bytes.NewReader(payload),
	}, log.add)
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/masa.jpg", url)

	log.mu.Lock()
	defer log.mu.Unlock()
	require.NotEmpty(t, log.values)
	assert.Equal(t, 0, log.values[0])
	assert.Equal(t, 100, log.values[len(log.values)-1])
	for i := 1; i < len(log.values); i++ {
		assert.Greater(t, log.values[i], log.values[i-1], "progreso creciente")
	}
}

func TestUpload_ErrorDelServicio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	}))
	defer srv.Close()

	up := cloudinary.NewUploader(cloudinary.Config{BaseURL: srv.URL, CloudName: "demo", UploadPreset: "nope"})
	_, err := up.Upload(context.Background(), ports.ImageUpload{
		Filename: "a.png", Size: 3, Body: bytes.NewReader([]byte("abc")),
	}, nil)
	require.ErrorIs(t, err, domain.ErrUploadFailed)
	assert.Contains(t, err.Error(), "Upload preset not found")
}

func TestUpload_SinConfiguracion(t *testing.T) {
	_, err := cloudinary.NewUploader(cloudinary.Config{}).Upload(context.Background(), ports.ImageUpload{}, nil)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}
