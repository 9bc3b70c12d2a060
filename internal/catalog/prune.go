package catalog

import (
	"context"
	"fmt"
	"strings"

	"artist-portfolio/internal/domain/works"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	ReasonNoImage     = "no_image"
	ReasonMissingFile = "missing_file"
)

type PrunedWork struct {
	ID     uint
	Type   string
	Titre  string
	Image  string
	Reason string
}

type PruneReport struct {
	DryRun  bool
	Removed []PrunedWork
	ByType  map[string]int
}

// Pruner deletes works whose image is blank or missing on disk.
type Pruner struct {
	db       *gorm.DB
	resolver *Resolver
	log      *zap.Logger
}

func NewPruner(db *gorm.DB, resolver *Resolver, log *zap.Logger) *Pruner {
	return &Pruner{db: db, resolver: resolver, log: log.Named("catalog")}
}

func (p *Pruner) Prune(ctx context.Context, dryRun bool) (PruneReport, error) {
	report := PruneReport{DryRun: dryRun, ByType: map[string]int{}}

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var all []works.Work
		err := tx.Select("id", "type", "titre", "image").
			Order("type").Order("id").
			Find(&all).Error
		if err != nil {
			return fmt.Errorf("load works: %w", err)
		}

		ids := make([]uint, 0)
		for _, w := range all {
			reason := p.check(w.Image)
			if reason == "" {
				continue
			}
			pw := PrunedWork{ID: w.ID, Type: w.Type, Titre: w.Titre, Reason: reason}
			if w.Image != nil {
				pw.Image = *w.Image
			}
			report.Removed = append(report.Removed, pw)
			report.ByType[w.Type]++
			ids = append(ids, w.ID)
		}

		if dryRun || len(ids) == 0 {
			return nil
		}
		if err := tx.Delete(&works.Work{}, ids).Error; err != nil {
			return fmt.Errorf("delete works: %w", err)
		}
		return nil
	})
	if err != nil {
		return PruneReport{}, err
	}

	for _, w := range report.Removed {
		p.log.Info("work without image",
			zap.Uint("id", w.ID), zap.String("type", w.Type), zap.String("titre", w.Titre),
			zap.String("image", w.Image), zap.String("reason", w.Reason), zap.Bool("dry_run", dryRun))
	}
	return report, nil
}

func (p *Pruner) check(image *string) string {
	if image == nil || strings.TrimSpace(*image) == "" {
		return ReasonNoImage
	}
	if _, ok := p.resolver.File(*image); !ok {
		return ReasonMissingFile
	}
	return ""
}
