package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"propcalc/domain"
)

// imageTypes maps accepted content types to the stored file extension.
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type UploadService struct {
	dir      string
	prefix   string
	maxBytes int64
	logger   *zap.Logger
}

func NewUploadService(dir, publicPrefix string, maxBytes int64, logger *zap.Logger) *UploadService {
	if maxBytes <= 0 {
		maxBytes = MaxUploadBytes
	}
	if publicPrefix == "" {
		publicPrefix = "/uploads"
	}
	return &UploadService{
		dir:      dir,
		prefix:   "/" + strings.Trim(publicPrefix, "/"),
		maxBytes: maxBytes,
		logger:   logger,
	}
}

func (s *UploadService) Dir() string { return s.dir }

func (s *UploadService) MaxBytes() int64 { return s.maxBytes }

// Save sniffs r, rejects anything that is not a supported image or exceeds
// the size limit, and writes it under a random name.
func (s *UploadService) Save(filename, contentType string, r io.Reader) (domain.UploadedFile, error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return domain.UploadedFile{}, fmt.Errorf("read upload: %w", err)
	}
	if len(head) == 0 {
		return domain.UploadedFile{}, &ValidationError{Details: map[string]string{"file": "file is empty"}}
	}

	detected := http.DetectContentType(head)
	ext, ok := imageTypes[detected]
	if !ok {
		return domain.UploadedFile{}, fmt.Errorf("%w: %s (declared %q)", ErrUnsupportedMedia, detected, contentType)
	}
	if e := strings.ToLower(filepath.Ext(filename)); e == ".jpeg" && ext == ".jpg" {
		ext = e
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return domain.UploadedFile{}, fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(s.dir, name)
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("create upload: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(br, s.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > s.maxBytes {
		err = &ValidationError{Details: map[string]string{"file": fmt.Sprintf("file exceeds the %d byte limit", s.maxBytes)}}
	}
	if err != nil {
		_ = os.Remove(dst)
		var verr *ValidationError
		if errors.As(err, &verr) {
			return domain.UploadedFile{}, err
		}
		return domain.UploadedFile{}, fmt.Errorf("write upload: %w", err)
	}

	s.logger.Info("file uploaded",
		zap.String("name", name),
		zap.String("original", filepath.Base(filename)),
		zap.Int64("size", n),
		zap.String("contentType", detected))

	return domain.UploadedFile{
		Name:        name,
		URL:         path.Join(s.prefix, name),
		Size:        n,
		ContentType: detected,
	}, nil
}
