package catalog

import (
	"os"
	"path/filepath"
)

// Resolver maps paths relative to the site root onto the filesystem by
// trying each candidate root in order.
type Resolver struct {
	roots []string
}

func NewResolver(roots []string) *Resolver {
	return &Resolver{roots: roots}
}

func (r *Resolver) Roots() []string {
	return append([]string(nil), r.roots...)
}

// Dir returns the first existing directory for rel.
func (r *Resolver) Dir(rel string) (string, bool) {
	for _, root := range r.roots {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if fi, err := os.Stat(p); err == nil && fi.IsDir() {
			return p, true
		}
	}
	return "", false
}

// File returns the first existing regular file for rel.
func (r *Resolver) File(rel string) (string, bool) {
	for _, root := range r.roots {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}
