package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Sub-directories under the upload root.
const (
	DirContestants = ""
	DirProfiles    = "profiles"
	DirVotes       = "votes"
)

// URLPrefix is where the upload root is served.
const URLPrefix = "/uploads"

const nameAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

var (
	ErrFileTooLarge    = errors.New("file is too large")
	ErrUnsupportedType = errors.New("only image files are allowed")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store writes uploaded images below a root directory under random names.
type Store struct {
	root     string
	maxBytes int64
}

// NewStore creates the root and its sub-directories.
func NewStore(root string, maxBytes int64) (*Store, error) {
	for _, dir := range []string{DirContestants, DirProfiles, DirVotes} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &Store{root: root, maxBytes: maxBytes}, nil
}

// Root is the directory served at URLPrefix.
func (s *Store) Root() string {
	return s.root
}

// Save stores fh in dir and returns its public URL path, e.g.
// "/uploads/votes/k3j9x0a1b2c3d4e5.jpg".
func (s *Store) Save(fh *multipart.FileHeader, dir string) (string, error) {
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return "", ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	ext, err := detectExtension(fh.Filename, src)
	if err != nil {
		return "", err
	}

	id, err := gonanoid.Generate(nameAlphabet, 16)
	if err != nil {
		return "", fmt.Errorf("generate file name: %w", err)
	}
	name := id + ext

	dst, err := os.Create(filepath.Join(s.root, dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return path.Join(URLPrefix, dir, name), nil
}

// detectExtension trusts a known image extension and otherwise sniffs the
// content, which covers camera captures posted as "blob". src is rewound.
func detectExtension(filename string, src multipart.File) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if allowedExtensions[ext] {
		return ext, nil
	}

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	ext, ok := extByContentType[http.DetectContentType(head[:n])]
	if !ok {
		return "", ErrUnsupportedType
	}
	return ext, nil
}
