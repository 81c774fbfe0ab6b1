package objectstore

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// BuildKey returns `<uploader>/<yyyyMMdd_HHmmss>_<rand>_<slug>.<ext>`.
func BuildKey(uploaderID, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if ext == "" || ext == "." {
		ext = ".bin"
	}
	return fmt.Sprintf("%s/%s_%s_%s%s", uploaderID, now.UTC().Format("20060102_150405"), randHex(4), slugify(base), ext)
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "-", "_", "-", ".", "-").Replace(s)
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, s)
	s = strings.Trim(s, "-")
	if s == "" {
		return "file"
	}
	return s
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
