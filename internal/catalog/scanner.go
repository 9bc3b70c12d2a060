package catalog

import (
	"context"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"artist-portfolio/internal/domain/works"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ScannedImage is one image file found in a category folder.
type ScannedImage struct {
	Filename  string
	ImagePath string // relative to the site root, slash separated
	Title     string
	Date      time.Time
	ModTime   time.Time
	Inferred  bool // Date came from the filename rather than ModTime
}

// Layout locates the category folders relative to the site root.
type Layout struct {
	Base string
}

func (l Layout) Dir(category string) string {
	return path.Join(l.Base, category)
}

type CategoryScan struct {
	Category string
	Dir      string
	Images   []ScannedImage
}

type Scanner struct {
	resolver *Resolver
	log      *zap.Logger
}

func NewScanner(resolver *Resolver, log *zap.Logger) *Scanner {
	return &Scanner{resolver: resolver, log: log.Named("catalog")}
}

// Scan lists the images of relDir sorted by date, oldest first. A folder
// that exists under none of the roots yields no images and no error.
func (s *Scanner) Scan(ctx context.Context, relDir, category string) ([]ScannedImage, error) {
	log := s.log.With(zap.String("category", category), zap.String("dir", relDir))

	dir, ok := s.resolver.Dir(relDir)
	if !ok {
		log.Warn("image folder not found", zap.Strings("roots", s.resolver.Roots()))
		return []ScannedImage{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	out := make([]ScannedImage, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			log.Debug("skipping vanished file", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		img := ScannedImage{
			Filename:  e.Name(),
			ImagePath: relDir + "/" + e.Name(),
			Title:     TitleFromFilename(e.Name()),
			ModTime:   info.ModTime(),
		}

		key := strings.ToLower(img.ImagePath)
		if seen[key] {
			log.Info("duplicate image ignored", zap.String("image", img.ImagePath))
			continue
		}
		seen[key] = true

		if d, ok := DateFromFilename(img.Filename); ok {
			img.Date, img.Inferred = d, true
		} else {
			img.Date = img.ModTime
		}
		out = append(out, img)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	log.Info("image folder scanned", zap.String("path", dir), zap.Int("images", len(out)))
	return out, nil
}

// ScanAll scans every category concurrently. Results follow works.Types order.
func (s *Scanner) ScanAll(ctx context.Context, layout Layout) ([]CategoryScan, error) {
	out := make([]CategoryScan, len(works.Types))
	g, ctx := errgroup.WithContext(ctx)
	for i, category := range works.Types {
		g.Go(func() error {
			dir := layout.Dir(category)
			images, err := s.Scan(ctx, dir, category)
			if err != nil {
				return fmt.Errorf("scan %s: %w", category, err)
			}
			out[i] = CategoryScan{Category: category, Dir: dir, Images: images}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
