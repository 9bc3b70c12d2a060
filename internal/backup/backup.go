package backup

import (
	"context"
	"fmt"

	"artist-portfolio/internal/domain/contacts"
	"artist-portfolio/internal/domain/site"
	"artist-portfolio/internal/domain/works"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 100

// serialTables have id sequences that must follow imported ids on PostgreSQL.
var serialTables = []string{"works", "contacts"}

type Options struct {
	// Clear deletes contacts, works and the settings rows before importing.
	// Users are kept so the current admin survives a restore.
	Clear bool
}

// Export reads every exported table, ordered by id.
func Export(ctx context.Context, db *gorm.DB) (*Snapshot, error) {
	var s Snapshot
	tx := db.WithContext(ctx)

	reads := []struct {
		table string
		dest  any
	}{
		{"works", &s.Works},
		{"users", &s.Users},
		{"contacts", &s.Contacts},
		{"artist_info", &s.ArtistInfo},
		{"contact_info", &s.ContactInfo},
		{"site_settings", &s.SiteSettings},
	}
	for _, r := range reads {
		if err := tx.Order("id").Find(r.dest).Error; err != nil {
			return nil, fmt.Errorf("export %s: %w", r.table, err)
		}
	}
	return &s, nil
}

// Import restores s in a single transaction. Rows are upserted on id. Users
// are matched on username and keep the id of the target database, so a
// freshly seeded admin is updated in place. Of each settings table only the
// row with the highest id is kept, stored under the singleton id.
func Import(ctx context.Context, db *gorm.DB, s *Snapshot, opts Options, log *zap.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Clear {
			if err := clearContent(tx); err != nil {
				return err
			}
			log.Info("existing content cleared")
		}

		byID := clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}

		if len(s.Works) > 0 {
			if err := tx.Clauses(byID).CreateInBatches(&s.Works, batchSize).Error; err != nil {
				return fmt.Errorf("import works: %w", err)
			}
		}
		if len(s.Users) > 0 {
			accounts := make([]UserRecord, len(s.Users))
			for i, u := range s.Users {
				u.ID = 0
				accounts[i] = u
			}
			byUsername := clause.OnConflict{
				Columns:   []clause.Column{{Name: "username"}},
				DoUpdates: clause.AssignmentColumns([]string{"password_hash", "email"}),
			}
			if err := tx.Clauses(byUsername).CreateInBatches(&accounts, batchSize).Error; err != nil {
				return fmt.Errorf("import users: %w", err)
			}
		}
		if len(s.Contacts) > 0 {
			if err := tx.Omit("Work").Clauses(byID).CreateInBatches(&s.Contacts, batchSize).Error; err != nil {
				return fmt.Errorf("import contacts: %w", err)
			}
		}

		if err := importSingleton(tx, byID, "artist_info", s.ArtistInfo, func(r *site.ArtistInfo) *uint { return &r.ID }); err != nil {
			return err
		}
		if err := importSingleton(tx, byID, "contact_info", s.ContactInfo, func(r *site.ContactInfo) *uint { return &r.ID }); err != nil {
			return err
		}
		if err := importSingleton(tx, byID, "site_settings", s.SiteSettings, func(r *site.Settings) *uint { return &r.ID }); err != nil {
			return err
		}

		if tx.Dialector.Name() == "postgres" {
			if err := advanceSequences(tx); err != nil {
				return err
			}
		}

		counts := s.Counts()
		log.Info("import complete",
			zap.Int("works", counts["works"]),
			zap.Int("users", counts["users"]),
			zap.Int("contacts", counts["contacts"]),
		)
		return nil
	})
}

// importSingleton keeps the newest row, the same rule the migration uses to
// consolidate duplicates.
func importSingleton[T any](tx *gorm.DB, onConflict clause.OnConflict, table string, rows []T, id func(*T) *uint) error {
	if len(rows) == 0 {
		return nil
	}
	row := rows[0]
	for i := 1; i < len(rows); i++ {
		if *id(&rows[i]) > *id(&row) {
			row = rows[i]
		}
	}
	*id(&row) = site.SingletonID
	if err := tx.Clauses(onConflict).Create(&row).Error; err != nil {
		return fmt.Errorf("import %s: %w", table, err)
	}
	return nil
}

func clearContent(tx *gorm.DB) error {
	all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{
		&contacts.Contact{},
		&works.Work{},
		&site.ArtistInfo{},
		&site.ContactInfo{},
		&site.Settings{},
	} {
		if err := all.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

func advanceSequences(tx *gorm.DB) error {
	for _, table := range serialTables {
		q := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 1), (SELECT MAX(id) FROM %[1]s) IS NOT NULL)",
			table,
		)
		if err := tx.Exec(q).Error; err != nil {
			return fmt.Errorf("advance %s id sequence: %w", table, err)
		}
	}
	return nil
}
