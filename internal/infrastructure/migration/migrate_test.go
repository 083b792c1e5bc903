package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/aquafarm/backend/migrations"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrations.FS, "*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, up := range ups {
		down := strings.TrimSuffix(up, upSuffix) + downSuffix
		_, err := fs.Stat(migrations.FS, down)
		assert.NoError(t, err, "missing rollback for %s", up)
	}
}

func TestEmbeddedMigrationsOpenAsSource(t *testing.T) {
	source, err := iofs.New(migrations.FS, ".")
	require.NoError(t, err)
	defer source.Close()

	first, err := source.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)
}

func TestInitMigrationKeepsActiveLotIndex(t *testing.T) {
	body, err := fs.ReadFile(migrations.FS, "000001_init_farm.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body),
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_lots_active_tank ON lots(tank_id) WHERE status = 'Ativo'")
}

func TestMigrateLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := &migrateLogger{logger: zap.New(core)}

	l.Printf("applied %d", 1)

	assert.False(t, l.Verbose())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "applied 1", logs.All()[0].Message)
}
