package public

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"io"
	"io/fs"
)

//go:embed static/*
var static embed.FS

// StaticFS returns the embedded static assets rooted at static/.
func StaticFS() (fs.FS, error) {
	return fs.Sub(static, "static")
}

// Version returns a short content hash over every embedded asset. It changes
// whenever an asset is added, removed or modified.
func Version() (string, error) {
	h := sha256.New()
	err := fs.WalkDir(static, "static", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(static, path)
		if err != nil {
			return err
		}
		_, _ = io.WriteString(h, path)
		_, _ = h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil))[:12], nil
}
