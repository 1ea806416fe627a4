package directory

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	directoryerrors "hris-admin/internal/directory/errors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const MaxPhotoSize = 5 << 20

// URL prefix tempat foto disajikan oleh server directory.
const PhotoURLPrefix = "/photos"

var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// StagedPhoto adalah foto yang sudah ditulis ke nama sementara dan belum
// menggantikan file final. URL sudah berisi alamat final.
type StagedPhoto struct {
	URL  string
	name string
	tmp  string
}

type PhotoStore interface {
	Stage(employeeID string, content []byte) (StagedPhoto, error)
	Promote(p StagedPhoto) error
	Discard(p StagedPhoto) error
	Remove(url string) error
}

type photoStore struct {
	fs  afero.Fs
	dir string
}

func NewPhotoStore(fs afero.Fs, dir string) (PhotoStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}
	return &photoStore{fs: fs, dir: dir}, nil
}

// Stage memvalidasi foto lalu menulisnya ke file sementara.
// File final baru berubah saat Promote.
func (s *photoStore) Stage(employeeID string, content []byte) (StagedPhoto, error) {
	if len(content) == 0 || len(content) > MaxPhotoSize {
		return StagedPhoto{}, directoryerrors.ErrInvalidPhoto
	}
	ext, ok := allowedPhotoTypes[mimetype.Detect(content).String()]
	if !ok {
		return StagedPhoto{}, directoryerrors.ErrInvalidPhoto
	}

	name := employeeID + ext
	tmp := "." + employeeID + "-" + uuid.NewString() + ".tmp"
	if err := afero.WriteFile(s.fs, filepath.Join(s.dir, tmp), content, 0o644); err != nil {
		return StagedPhoto{}, fmt.Errorf("write photo: %w", err)
	}
	return StagedPhoto{URL: path.Join(PhotoURLPrefix, name), name: name, tmp: tmp}, nil
}

func (s *photoStore) Promote(p StagedPhoto) error {
	if err := s.fs.Rename(filepath.Join(s.dir, p.tmp), filepath.Join(s.dir, p.name)); err != nil {
		return fmt.Errorf("promote photo: %w", err)
	}
	return nil
}

// Discard menghapus file sementara. Aman dipanggil setelah Promote.
func (s *photoStore) Discard(p StagedPhoto) error {
	if p.tmp == "" {
		return nil
	}
	return s.ignoreMissing(s.fs.Remove(filepath.Join(s.dir, p.tmp)))
}

func (s *photoStore) Remove(url string) error {
	if url == "" {
		return nil
	}
	return s.ignoreMissing(s.fs.Remove(filepath.Join(s.dir, path.Base(url))))
}

func (s *photoStore) ignoreMissing(err error) error {
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
