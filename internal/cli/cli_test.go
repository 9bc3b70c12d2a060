package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"artist-portfolio/config"
	"artist-portfolio/database"
	"artist-portfolio/internal/domain/site"
	"artist-portfolio/internal/domain/works"
	"artist-portfolio/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func testApp(t *testing.T, db *gorm.DB, root string) *app {
	t.Helper()
	return &app{
		cfg: &config.Config{
			Images:        config.ImagesConfig{Base: "public/images", Roots: []string{root}},
			AdminUsername: "admin",
			AdminPassword: "secret",
		},
		log: zap.NewNop(),
		openDB: func(context.Context, config.DBConfig, *zap.Logger) (*gorm.DB, error) {
			return db, nil
		},
		closeDB: func(*gorm.DB) error { return nil },
	}
}

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeImage(t *testing.T, root, category, name string) {
	t.Helper()
	dir := filepath.Join(root, "public", "images", category)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644))
}

func countWorks(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&works.Work{}).Count(&n).Error)
	return n
}

func TestMigrateSeedsDefaults(t *testing.T) {
	db := testutil.OpenDB(t)
	a := testApp(t, db, t.TempDir())

	_, err := run(t, a, "migrate")
	require.NoError(t, err)

	var settings site.Settings
	require.NoError(t, db.First(&settings).Error)
	assert.Equal(t, site.DefaultHeroImage, settings.HeroImage)
}

func TestSeedReconcilesImages(t *testing.T) {
	root := t.TempDir()
	writeImage(t, root, works.TypePeintures, "2021-toile.jpg")
	writeImage(t, root, works.TypePeintures, "2020-03-le-port.jpg")
	writeImage(t, root, works.TypeEvenements, "2022-05-vernissage.jpg")
	writeImage(t, root, works.TypeEvenements, "notes.txt")

	db := testutil.OpenDB(t, database.Models()...)
	out, err := run(t, testApp(t, db, root), "seed")
	require.NoError(t, err)

	assert.Contains(t, out, "total       3")
	assert.EqualValues(t, 3, countWorks(t, db))
}

func TestPrune(t *testing.T) {
	root := t.TempDir()
	writeImage(t, root, works.TypeCroquis, "2019-esquisse.png")

	db := testutil.OpenDB(t, database.Models()...)
	kept := "public/images/croquis/2019-esquisse.png"
	gone := "public/images/croquis/absent.png"
	require.NoError(t, db.Create(&[]works.Work{
		{Type: works.TypeCroquis, Titre: "Esquisse", Image: &kept},
		{Type: works.TypeCroquis, Titre: "Absent", Image: &gone},
		{Type: works.TypePeintures, Titre: "Sans image"},
	}).Error)
	a := testApp(t, db, root)

	out, err := run(t, a, "prune", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "would remove 2 works")
	assert.EqualValues(t, 3, countWorks(t, db))

	out, err = run(t, a, "prune")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 2 works")
	assert.EqualValues(t, 1, countWorks(t, db))
}

func TestExportImport(t *testing.T) {
	src := testutil.OpenDB(t, database.Models()...)
	require.NoError(t, src.Create(&works.Work{Type: works.TypePeintures, Titre: "Le cours"}).Error)
	file := filepath.Join(t.TempDir(), "export.json")

	out, err := run(t, testApp(t, src, t.TempDir()), "export", "--out", file)
	require.NoError(t, err)
	assert.Contains(t, out, "exported to "+file)

	dst := testutil.OpenDB(t, database.Models()...)
	require.NoError(t, dst.Create(&works.Work{ID: 9, Type: works.TypeCroquis, Titre: "Local"}).Error)

	_, err = run(t, testApp(t, dst, t.TempDir()), "import", file, "--clear")
	require.NoError(t, err)

	var titles []string
	require.NoError(t, dst.Model(&works.Work{}).Pluck("titre", &titles).Error)
	assert.Equal(t, []string{"Le cours"}, titles)
}

func TestImportMissingFile(t *testing.T) {
	db := testutil.OpenDB(t, database.Models()...)
	_, err := run(t, testApp(t, db, t.TempDir()), "import", filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestServeRequiresJWTSecret(t *testing.T) {
	db := testutil.OpenDB(t, database.Models()...)
	_, err := run(t, testApp(t, db, t.TempDir()), "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
