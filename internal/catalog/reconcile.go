package catalog

import (
	"context"
	"fmt"

	"artist-portfolio/internal/domain/works"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const insertBatchSize = 100

type Report struct {
	Deleted int64
	Counts  map[string]int
}

func (r Report) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}

// Reconciler replaces the works table with one row per image on disk.
type Reconciler struct {
	db      *gorm.DB
	scanner *Scanner
	layout  Layout
	log     *zap.Logger
}

func NewReconciler(db *gorm.DB, scanner *Scanner, layout Layout, log *zap.Logger) *Reconciler {
	return &Reconciler{db: db, scanner: scanner, layout: layout, log: log.Named("catalog")}
}

// Reconcile scans first, then deletes and repopulates works in a single
// transaction. On error nothing is changed.
func (r *Reconciler) Reconcile(ctx context.Context) (Report, error) {
	scans, err := r.scanner.ScanAll(ctx, r.layout)
	if err != nil {
		return Report{}, err
	}

	rows := BuildWorks(scans)
	report := Report{Counts: make(map[string]int, len(scans))}
	for _, s := range scans {
		report.Counts[s.Category] = len(s.Images)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&works.Work{})
		if res.Error != nil {
			return fmt.Errorf("clear works: %w", res.Error)
		}
		report.Deleted = res.RowsAffected

		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert works: %w", err)
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	r.log.Info("works reconciled",
		zap.Int64("deleted", report.Deleted),
		zap.Int(works.TypePeintures, report.Counts[works.TypePeintures]),
		zap.Int(works.TypeCroquis, report.Counts[works.TypeCroquis]),
		zap.Int(works.TypeEvenements, report.Counts[works.TypeEvenements]),
	)
	return report, nil
}

// BuildWorks maps scan results to rows. display_order is the position in the
// sorted scan; events keep their date in date_debut.
func BuildWorks(scans []CategoryScan) []works.Work {
	var rows []works.Work
	for _, s := range scans {
		for i, img := range s.Images {
			d := works.DateOf(img.Date)
			w := works.Work{
				Type:         s.Category,
				Titre:        img.Title,
				Image:        &img.ImagePath,
				DisplayOrder: i,
			}
			if s.Category == works.TypeEvenements {
				w.DateDebut = &d
			} else {
				w.Date = &d
			}
			rows = append(rows, w)
		}
	}
	return rows
}
