package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/atelierbois/portfolio/internal/core/domain"
	"github.com/atelierbois/portfolio/internal/core/ports"
)

// MaxUploadBytes caps a single uploaded file.
const MaxUploadBytes = 15 << 20

// form wraps a parsed multipart form.
type form struct {
	mf *multipart.Form
}

func parseForm(c echo.Context) (*form, error) {
	mf, err := c.MultipartForm()
	if err != nil {
		return nil, domain.NewValidationError("", "expected multipart/form-data")
	}
	return &form{mf: mf}, nil
}

// value returns the trimmed first value of key, or "".
func (f *form) value(key string) string {
	if vs := f.mf.Value[key]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

// optional returns a pointer to the value of key only when key was sent.
func (f *form) optional(key string) *string {
	vs, ok := f.mf.Value[key]
	if !ok {
		return nil
	}
	v := ""
	if len(vs) > 0 {
		v = vs[0]
	}
	return &v
}

func (f *form) flag(key string) bool {
	b, _ := strconv.ParseBool(f.value(key))
	return b
}

// file reads the first file sent as key. It returns nil when none, or an
// empty one, was sent.
func (f *form) file(key string) (*ports.Upload, error) {
	fhs := f.mf.File[key]
	if len(fhs) == 0 {
		return nil, nil
	}
	return readUpload(key, fhs[0])
}

// files reads every file sent under any of keys, in submission order.
func (f *form) files(keys ...string) ([]ports.Upload, error) {
	var out []ports.Upload
	for _, key := range keys {
		for _, fh := range f.mf.File[key] {
			up, err := readUpload(key, fh)
			if err != nil {
				return nil, err
			}
			if up != nil {
				out = append(out, *up)
			}
		}
	}
	return out, nil
}

// indices decodes a JSON-encoded array of integers sent as key.
func (f *form) indices(key string) ([]int, error) {
	raw := f.value(key)
	if raw == "" {
		return nil, nil
	}
	var out []int
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, domain.NewValidationError(key, "must be a JSON array of integers")
	}
	return out, nil
}

func readUpload(field string, fh *multipart.FileHeader) (*ports.Upload, error) {
	if fh.Size > MaxUploadBytes {
		return nil, domain.NewValidationError(field, fmt.Sprintf("file exceeds %d MB", MaxUploadBytes>>20))
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", field, err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", field, err)
	}
	if len(data) > MaxUploadBytes {
		return nil, domain.NewValidationError(field, fmt.Sprintf("file exceeds %d MB", MaxUploadBytes>>20))
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &ports.Upload{Filename: fh.Filename, Data: data}, nil
}
