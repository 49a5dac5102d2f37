package service

import "context"

// Mailer sends transactional mail. Failures during registration surface to
// the caller; the account row is still persisted.
type Mailer interface {
	SendActivationEmail(to, link string) error
}

// Upload is one file received from a multipart request.
type Upload struct {
	Data        []byte
	ContentType string
}

// ImageStore hosts recipe and profile images. Upload returns the public URL
// that gets persisted; Delete takes that URL back.
type ImageStore interface {
	Upload(ctx context.Context, img Upload) (string, error)
	Delete(ctx context.Context, url string) error
}
