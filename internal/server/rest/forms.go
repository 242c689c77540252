package rest

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/bvchub/internal/common"
	"github.com/dmitrijs2005/bvchub/internal/server/models"
	"github.com/dmitrijs2005/bvchub/internal/server/services"
)

const maxMemory = 32 << 20

// parseForm accepts multipart, urlencoded and empty bodies alike.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxMemory)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return common.Invalid("request too large")
	}
	return common.Invalid("malformed form")
}

// formString returns nil when key was not submitted at all.
func formString(r *http.Request, key string) *string {
	if _, ok := r.Form[key]; !ok {
		return nil
	}
	v := strings.TrimSpace(r.Form.Get(key))
	return &v
}

// formList reads a comma-separated list field.
func formList(r *http.Request, key string) []string {
	v := formString(r, key)
	if v == nil {
		return nil
	}
	return services.SplitList(*v)
}

func formDate(r *http.Request, key string) (*time.Time, error) {
	v := formString(r, key)
	if v == nil || *v == "" {
		return nil, nil
	}
	d, err := parseDate(*v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseDate(v string) (time.Time, error) {
	if d, err := time.Parse(dateLayout, v); err == nil {
		return d, nil
	}
	if d, err := time.Parse(time.RFC3339, v); err == nil {
		return d.UTC(), nil
	}
	return time.Time{}, common.Invalid("invalid date, expected YYYY-MM-DD")
}

func toUpload(fh *multipart.FileHeader) (*services.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, common.Invalid("unreadable file " + fh.Filename)
	}
	return &services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, nil
}

// formFile returns the single file under key, or nil.
func formFile(r *http.Request, key string) (*services.Upload, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[key]) == 0 {
		return nil, nil
	}
	return toUpload(r.MultipartForm.File[key][0])
}

func formFiles(r *http.Request, key string) ([]*services.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var out []*services.Upload
	for _, fh := range r.MultipartForm.File[key] {
		u, err := toUpload(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func closeUploads(uploads ...*services.Upload) {
	for _, u := range uploads {
		if u == nil {
			continue
		}
		if c, ok := u.Body.(io.Closer); ok {
			_ = c.Close()
		}
	}
}

func profileUpdate(r *http.Request) models.ProfileUpdate {
	return models.ProfileUpdate{
		Name:       formString(r, "name"),
		Department: formString(r, "department"),
		Year:       formString(r, "year"),
		RollNumber: formString(r, "rollNumber"),
		Bio:        formString(r, "bio"),
		Skills:     formList(r, "skills"),
	}
}
