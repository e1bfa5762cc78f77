package formadoc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// maxAssetSize caps a fetched master asset at 32MB.
const maxAssetSize = 32 << 20

// AssetSource fetches the master data for attestation generation: the
// fixed-layout template PDF and the raster signature image. The template is
// read-only master data; callers clone it per recipient and never mutate
// the returned bytes. A fetch failure is fatal to the whole batch.
type AssetSource interface {
	Template(ctx context.Context) ([]byte, error)
	Signature(ctx context.Context) ([]byte, error)
}

// FileSource loads assets from the local filesystem.
type FileSource struct {
	TemplatePath  string
	SignaturePath string
}

// NewFileSource creates a FileSource over local template and signature paths.
func NewFileSource(templatePath, signaturePath string) *FileSource {
	return &FileSource{TemplatePath: templatePath, SignaturePath: signaturePath}
}

func (s *FileSource) Template(ctx context.Context) ([]byte, error) {
	return readLocalAsset(ctx, s.TemplatePath, ErrTemplateFetch)
}

func (s *FileSource) Signature(ctx context.Context) ([]byte, error) {
	return readLocalAsset(ctx, s.SignaturePath, ErrSignatureFetch)
}

func readLocalAsset(ctx context.Context, path string, sentinel error) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- asset path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sentinel, err)
	}
	return data, nil
}

// HTTPSource fetches assets from static storage URLs.
type HTTPSource struct {
	TemplateURL  string
	SignatureURL string
	Client       *http.Client // nil means http.DefaultClient
}

// NewHTTPSource creates an HTTPSource over static storage URLs.
func NewHTTPSource(templateURL, signatureURL string) *HTTPSource {
	return &HTTPSource{TemplateURL: templateURL, SignatureURL: signatureURL}
}

func (s *HTTPSource) Template(ctx context.Context) ([]byte, error) {
	return s.fetch(ctx, s.TemplateURL, ErrTemplateFetch)
}

func (s *HTTPSource) Signature(ctx context.Context) ([]byte, error) {
	return s.fetch(ctx, s.SignatureURL, ErrSignatureFetch)
}

func (s *HTTPSource) fetch(ctx context.Context, url string, sentinel error) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sentinel, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sentinel, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d for %s", sentinel, resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", sentinel, err)
	}
	return data, nil
}

// ObjectStoreConfig configures an ObjectSource.
type ObjectStoreConfig struct {
	Endpoint     string // host:port, no scheme
	AccessKey    string
	SecretKey    string
	Region       string
	UseSSL       bool
	Bucket       string
	TemplateKey  string
	SignatureKey string
}

// ObjectSource fetches assets from an S3-compatible object store.
type ObjectSource struct {
	client *minio.Client
	cfg    ObjectStoreConfig
}

// NewObjectSource connects to the configured object store endpoint.
func NewObjectSource(cfg ObjectStoreConfig) (*ObjectSource, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to object store: %w", err)
	}
	return &ObjectSource{client: client, cfg: cfg}, nil
}

func (s *ObjectSource) Template(ctx context.Context) ([]byte, error) {
	return s.fetch(ctx, s.cfg.TemplateKey, ErrTemplateFetch)
}

func (s *ObjectSource) Signature(ctx context.Context) ([]byte, error) {
	return s.fetch(ctx, s.cfg.SignatureKey, ErrSignatureFetch)
}

func (s *ObjectSource) fetch(ctx context.Context, key string, sentinel error) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.cfg.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sentinel, err)
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(io.LimitReader(obj, maxAssetSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading object %s: %v", sentinel, key, err)
	}
	return data, nil
}
