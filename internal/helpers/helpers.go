package helpers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const EventsFolder = "DevEvent"

func StringTrim(s string) string {
	return strings.TrimSpace(s)
}

// TrimAll trims every element and drops the ones left empty.
func TrimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if t := strings.TrimSpace(item); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// RemoveDuplicates keeps the first occurrence of each element, preserving order.
func RemoveDuplicates(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// CloudinaryUploader stores event images in a Cloudinary folder.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary, folder string) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld, folder: folder}
}

// UploadImage uploads the image read from r and returns its secure URL.
func (u *CloudinaryUploader) UploadImage(ctx context.Context, r io.Reader, filename string) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder: u.folder,
		Tags:   []string{"devevent"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image %s: %w", filename, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image %s: %s", filename, res.Error.Message)
	}
	return res.SecureURL, nil
}
