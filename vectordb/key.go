package vectordb

import (
	"fmt"
	"strings"

	"github.com/minio/highwayhash"
)

var hashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// Key derives the store key for text embedded with model.
func Key(model, text string) (string, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return "", err
	}
	if _, err = h.Write([]byte(model + "\x00" + strings.TrimSpace(text))); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
