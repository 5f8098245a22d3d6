package client

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

var ErrNotImage = errors.New("not an image")

// ImageDataURL sniffs data and encodes it as an inline data URL. Anything
// that is not an image is refused.
func ImageDataURL(data []byte) (string, error) {
	mime := http.DetectContentType(data)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", ErrNotImage
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func isImageDataURL(s string) bool {
	return strings.HasPrefix(s, "data:image/")
}
