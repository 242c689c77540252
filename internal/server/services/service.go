// Package services implements the hub's use cases on top of the repositories,
// the token and OTP issuers, the mailer and the media store.
package services

import (
	"context"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/bvchub/internal/common"
	"github.com/dmitrijs2005/bvchub/internal/server/storage"
	"github.com/google/uuid"
)

// Upload is one file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func putUpload(ctx context.Context, store storage.MediaStore, folder string, u *Upload) (string, error) {
	if u.Size > common.MaxUploadSize {
		return "", common.Invalid(fmt.Sprintf("%s exceeds 10MB limit", u.Filename))
	}
	return store.Put(ctx, folder, u.Filename, u.ContentType, u.Body, u.Size)
}

// checkID maps ids that cannot key any table to common.ErrorNotFound. Every
// primary key is a UUID.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	return nil
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail reports whether email is a bare addr-spec (no display name).
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// SplitList turns "go, react,,sql" into ["go" "react" "sql"].
func SplitList(v string) []string {
	result := []string{}
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// internalErr wraps an unexpected error so it maps to a 500 without losing the cause.
func internalErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, common.ErrorInternal, err)
}
