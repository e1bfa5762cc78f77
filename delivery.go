package formadoc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Uploader transmits one generated artifact to remote storage, tagged with
// its session and generation timestamp. No automatic retries: a failure is
// surfaced once and the upload is abandoned for that artifact.
type Uploader interface {
	Upload(ctx context.Context, artifact Artifact) error
}

// Artifact is the byte output of the compositor for one recipient, with its
// derived file name and batch metadata.
type Artifact struct {
	Name      string
	SessionID string
	Generated time.Time
	Data      []byte
}

// DeliveryReport records the independent outcomes of the two delivery
// effects for one artifact. A remote upload failure never retracts the
// local save, and each failure is reported distinctly.
type DeliveryReport struct {
	Name      string
	UploadErr error
	SaveErr   error
}

// HTTPUploader posts artifacts to the provider backend as multipart form
// data with fields {file, sessionId, dateGeneration}.
type HTTPUploader struct {
	URL    string
	Client *http.Client // nil means http.DefaultClient
}

// NewHTTPUploader creates an HTTPUploader targeting the upload endpoint.
func NewHTTPUploader(url string) *HTTPUploader {
	return &HTTPUploader{URL: url}
}

func (u *HTTPUploader) Upload(ctx context.Context, artifact Artifact) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", artifact.Name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if _, err := part.Write(artifact.Data); err != nil {
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if err := writer.WriteField("sessionId", artifact.SessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if err := writer.WriteField("dateGeneration", artifact.Generated.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.URL, &body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrUpload, resp.StatusCode)
	}
	return nil
}

// ObjectUploader stores artifacts in an S3-compatible bucket, keyed by
// session, with the generation timestamp carried as object metadata.
type ObjectUploader struct {
	client *minio.Client
	bucket string
}

// NewObjectUploader connects an ObjectUploader to the configured store.
func NewObjectUploader(cfg ObjectStoreConfig) (*ObjectUploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to object store: %w", err)
	}
	return &ObjectUploader{client: client, bucket: cfg.Bucket}, nil
}

func (u *ObjectUploader) Upload(ctx context.Context, artifact Artifact) error {
	key := artifact.SessionID + "/" + artifact.Name
	_, err := u.client.PutObject(ctx, u.bucket, key,
		bytes.NewReader(artifact.Data), int64(len(artifact.Data)),
		minio.PutObjectOptions{
			ContentType: "application/pdf",
			UserMetadata: map[string]string{
				"date-generation": artifact.Generated.Format(time.RFC3339),
			},
		})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}
	return nil
}

// LocalSaver writes artifacts into a target directory. This is the
// save-to-disk counterpart of the original local download action.
type LocalSaver struct {
	Dir string
}

// NewLocalSaver creates a LocalSaver writing into dir.
func NewLocalSaver(dir string) *LocalSaver {
	return &LocalSaver{Dir: dir}
}

// Save writes one artifact to disk and returns its path.
func (s *LocalSaver) Save(artifact Artifact) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o750); err != nil {
		return "", fmt.Errorf("%w: %v", ErrLocalSave, err)
	}
	path := filepath.Join(s.Dir, filepath.Base(artifact.Name))
	if err := os.WriteFile(path, artifact.Data, 0o600); err != nil {
		return "", fmt.Errorf("%w: %v", ErrLocalSave, err)
	}
	return path, nil
}
