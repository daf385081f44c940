package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogdeck/internal/apperr"
	"blogdeck/internal/config"
	"blogdeck/internal/db"
	"blogdeck/internal/logger"
	"blogdeck/internal/models"
	"blogdeck/internal/testutil"
)

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := db.Open(config.Database{Driver: "oracle", DSN: "x"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConfiguration, apperr.CodeOf(err))
}

func TestSeedTags(t *testing.T) {
	gdb := testutil.NewDB(t)
	log := logger.Discard()

	require.NoError(t, db.SeedTags(gdb, []string{"General", "Food"}, log))

	var names []string
	require.NoError(t, gdb.Model(&models.Tag{}).Order("name").Pluck("name", &names).Error)
	assert.Equal(t, []string{"Food", "General"}, names)

	// A populated table is left alone.
	require.NoError(t, db.SeedTags(gdb, []string{"Travel"}, log))
	var count int64
	require.NoError(t, gdb.Model(&models.Tag{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
