package services

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

var ErrBadImage = errors.New("cannot decode image")

const avatarSize = 250

type AvatarService struct {
	dir     string
	baseURL string
}

func NewAvatarService(dir, baseURL string) *AvatarService {
	return &AvatarService{dir: dir, baseURL: baseURL}
}

// Save resizes the upload to a fixed square and writes it into the public
// avatar dir, named after the owning user so re-uploads overwrite in place.
// Returns the public URL of the stored file.
func (s *AvatarService) Save(userID string, r io.Reader, originalName string) (string, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return "", ErrBadImage
	}
	square := imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		ext = ".png"
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	filename := userID + ext
	if err := imaging.Save(square, filepath.Join(s.dir, filename)); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/avatars/%s", s.baseURL, filename), nil
}

// GravatarURL is the default avatar assigned at registration.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=mm", hex.EncodeToString(sum[:]))
}
