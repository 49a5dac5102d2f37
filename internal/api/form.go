package api

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/newcooks/backend/internal/service"
)

// formUpload reads a single optional file field into an Upload. A missing
// field yields nil without error.
func formUpload(c *gin.Context, field string) (*service.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, err
	}
	up, err := readUpload(fh)
	if err != nil {
		return nil, err
	}
	return &up, nil
}

// formUploads reads every file attached under the field name.
func formUploads(c *gin.Context, field string) ([]service.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	var uploads []service.Upload
	for _, fh := range form.File[field] {
		up, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, up)
	}
	return uploads, nil
}

func readUpload(fh *multipart.FileHeader) (service.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return service.Upload{}, err
	}
	return service.Upload{
		Data:        data,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}
