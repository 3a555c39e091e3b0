package utils

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

var ErrUploadTooLarge = errors.New("uploaded file too large")

// ReadFormFile reads an optional multipart file. A missing field returns
// (nil, nil); a file over max bytes returns ErrUploadTooLarge.
func ReadFormFile(c *gin.Context, field string, max int64) ([]byte, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	if fh.Size > max {
		return nil, ErrUploadTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, max+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	if int64(len(data)) > max {
		return nil, ErrUploadTooLarge
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}
