package achievement

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/brawlspace/brawlspace/internal/database"
	"github.com/brawlspace/brawlspace/internal/model"
)

func prepare(t *testing.T) *database.DatabaseManager {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	m := database.New(db)
	require.NoError(t, m.Migrate())
	m.AddDefaults()

	return m
}

func addBrawler(t *testing.T, m *database.DatabaseManager, username string) *model.Brawler {
	t.Helper()

	b := &model.Brawler{Username: username, DisplayName: username}
	require.NoError(t, m.Create(b))

	return b
}

func TestCheckAndAwardThreshold(t *testing.T) {
	m := prepare(t)
	e := NewEvaluator(m)
	b := addBrawler(t, m, "b1")

	earned, err := e.CheckAndAward(b.ID, "mission_join", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"First Steps"}, earned)

	// below every remaining threshold, nothing new
	earned, err = e.CheckAndAward(b.ID, "mission_join", 4)
	require.NoError(t, err)
	assert.Empty(t, earned)

	earned, err = e.CheckAndAward(b.ID, "mission_join", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Crew Regular"}, earned)
}

func TestCheckAndAwardIdempotent(t *testing.T) {
	m := prepare(t)
	e := NewEvaluator(m)
	b := addBrawler(t, m, "b1")

	earned, err := e.CheckAndAward(b.ID, "mission_complete", 10)
	require.NoError(t, err)
	assert.Len(t, earned, 2)

	earned, err = e.CheckAndAward(b.ID, "mission_complete", 10)
	require.NoError(t, err)
	assert.Empty(t, earned)
}

func TestCheckAndAwardCatchesUp(t *testing.T) {
	m := prepare(t)
	e := NewEvaluator(m)
	b := addBrawler(t, m, "b1")

	// a brawler that skipped earlier checks gets every reached threshold
	earned, err := e.CheckAndAward(b.ID, "mission_join", 25)
	require.NoError(t, err)
	assert.Equal(t, []string{"First Steps", "Crew Regular", "Joiner of Legend"}, earned)
}

func TestCheckAndAwardUnknownType(t *testing.T) {
	m := prepare(t)
	e := NewEvaluator(m)
	b := addBrawler(t, m, "b1")

	earned, err := e.CheckAndAward(b.ID, "no_such_type", 100)
	require.NoError(t, err)
	assert.Empty(t, earned)
}
