package migration

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_Ordered(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/V2__add_index.sql": {Data: []byte("CREATE INDEX x ON t (a);")},
		"sql/V1__init.sql":      {Data: []byte("CREATE TABLE t (a int);\n")},
		"sql/README.md":         {Data: []byte("ignored")},
	}

	migs, err := loadMigrations(fsys, "sql")
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "init", migs[0].Name)
	assert.Equal(t, "CREATE TABLE t (a int);", migs[0].SQL)
	assert.Len(t, migs[0].Checksum, 64)
	assert.Equal(t, int64(2), migs[1].Version)
}

func TestLoadMigrations_Duplicate(t *testing.T) {
	fsys := fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 2;")},
	}
	_, err := loadMigrations(fsys, "")
	assert.ErrorContains(t, err, "duplicate migration version")
}

func TestLoadMigrations_Empty(t *testing.T) {
	fsys := fstest.MapFS{"V1__a.sql": {Data: []byte("  \n")}}
	_, err := loadMigrations(fsys, ".")
	assert.ErrorContains(t, err, "empty migration file")
}

func TestEmbeddedMigrationsParse(t *testing.T) {
	migs, err := loadMigrations(files, "sql")
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Contains(t, migs[0].SQL, "CREATE TABLE IF NOT EXISTS jobs")
}
