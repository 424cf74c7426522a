package cloudinary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Ofertare-api/internal/application/ports"
	"github.com/jhoicas/Ofertare-api/internal/domain"
)

// Verificar en tiempo de compilación que Uploader implementa ImageUploader.
var _ ports.ImageUploader = (*Uploader)(nil)

// Config datos del upload unsigned (sin API secret: sólo cloud name y upload preset).
type Config struct {
	BaseURL       string // https://api.cloudinary.com
	CloudName     string
	UploadPreset  string
	DefaultFolder string
	Timeout       time.Duration
}

// Uploader adaptador REST de Cloudinary; no usa el SDK oficial.
type Uploader struct {
	cfg        Config
	httpClient *http.Client
}

// NewUploader construye el adaptador. Sin CloudName o UploadPreset las subidas fallan con error descriptivo.
func NewUploader(cfg Config) *Uploader {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.cloudinary.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Uploader{cfg: cfg, httpClient: &http.Client{Timeout: cfg.Timeout}}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload envía el archivo como multipart (file, upload_preset, folder) y devuelve secure_url.
// El progreso es simulado: 0..90 según los bytes enviados y 100 cuando el servicio responde OK.
func (u *Uploader) Upload(ctx context.Context, in ports.ImageUpload, progress func(int)) (string, error) {
	if u.cfg.CloudName == "" || u.cfg.UploadPreset == "" {
		return "", fmt.Errorf("%w: CLOUDINARY_CLOUD_NAME o CLOUDINARY_UPLOAD_PRESET no configurado", domain.ErrUploadFailed)
	}
	report := newReporter(progress)
	report.set(0)

	folder := in.Folder
	if folder == "" {
		folder = u.cfg.DefaultFolder
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(u.writeForm(mw, in, folder, report))
	}()

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", strings.TrimRight(u.cfg.BaseURL, "/"), u.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		_ = pr.Close()
		return "", fmt.Errorf("%w: crear request: %v", domain.ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		_ = pr.CloseWithError(err)
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("%w: leer respuesta: %v", domain.ErrUploadFailed, err)
	}
	var out uploadResponse
	_ = json.Unmarshal(raw, &out)
	if resp.StatusCode != http.StatusOK {
		if out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("%w: %s", domain.ErrUploadFailed, out.Error.Message)
		}
		return "", fmt.Errorf("%w: HTTP %d", domain.ErrUploadFailed, resp.StatusCode)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("%w: respuesta sin secure_url", domain.ErrUploadFailed)
	}
	report.set(100)
	return out.SecureURL, nil
}

func (u *Uploader) writeForm(mw *multipart.Writer, in ports.ImageUpload, folder string, report *reporter) error {
	if err := mw.WriteField("upload_preset", u.cfg.UploadPreset); err != nil {
		return err
	}
	if folder != "" {
		if err := mw.WriteField("folder", folder); err != nil {
			return err
		}
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, in.Filename))
	ct := in.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if in.Body == nil {
		return errors.New("archivo vacío")
	}
	if _, err := io.Copy(part, &countingReader{r: in.Body, total: in.Size, report: report}); err != nil {
		return err
	}
	return mw.Close()
}

// reporter entrega porcentajes crecientes y sin repetir. Se llama desde la goroutine del formulario.
type reporter struct {
	mu   sync.Mutex
	fn   func(int)
	last int
}

func newReporter(fn func(int)) *reporter { return &reporter{fn: fn, last: -1} }

func (r *reporter) set(p int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fn == nil || p <= r.last {
		return
	}
	r.last = p
	r.fn(p)
}

type countingReader struct {
	r      io.Reader
	total  int64
	read   int64
	report *reporter
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	if c.total > 0 {
		pct := int(c.read * 90 / c.total)
		if pct > 90 {
			pct = 90
		}
		c.report.set(pct)
	}
	return n, err
}
