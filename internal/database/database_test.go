package database

import (
	"errors"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/brawlspace/brawlspace/internal/model"
)

func prepare(t *testing.T) *DatabaseManager {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	// every pooled connection would get its own :memory: database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	m := New(db)
	require.NoError(t, m.Migrate())

	return m
}

func addBrawler(t *testing.T, m *DatabaseManager, username string) *model.Brawler {
	t.Helper()

	b := &model.Brawler{Username: username, DisplayName: username}
	require.NoError(t, m.Create(b))

	return b
}

func addMission(t *testing.T, m *DatabaseManager, chiefID uint, maxCrew int) *model.Mission {
	t.Helper()

	mission := &model.Mission{
		Name:    "test mission",
		MaxCrew: maxCrew,
		Status:  model.StatusOpen,
		ChiefID: chiefID,
	}
	require.NoError(t, m.Create(mission))

	return mission
}

func TestJoinCrewCapacity(t *testing.T) {
	m := prepare(t)

	chief := addBrawler(t, m, "chief")
	mission := addMission(t, m, chief.ID, 2)

	b1 := addBrawler(t, m, "b1")
	b2 := addBrawler(t, m, "b2")
	b3 := addBrawler(t, m, "b3")

	require.NoError(t, m.JoinCrew(mission.ID, b1.ID, mission.MaxCrew))
	require.NoError(t, m.JoinCrew(mission.ID, b2.ID, mission.MaxCrew))

	err := m.JoinCrew(mission.ID, b3.ID, mission.MaxCrew)
	require.ErrorIs(t, err, model.ErrMissionFull)

	assert.EqualValues(t, 2, m.CrewCount(mission.ID))
	assert.False(t, m.IsCrewMember(mission.ID, b3.ID))
}

func TestJoinCrewDuplicate(t *testing.T) {
	m := prepare(t)

	chief := addBrawler(t, m, "chief")
	mission := addMission(t, m, chief.ID, 5)
	b1 := addBrawler(t, m, "b1")

	require.NoError(t, m.JoinCrew(mission.ID, b1.ID, mission.MaxCrew))
	require.ErrorIs(t, m.JoinCrew(mission.ID, b1.ID, mission.MaxCrew), model.ErrAlreadyJoined)

	assert.EqualValues(t, 1, m.CrewCount(mission.ID))

	b := m.BrawlerQuery().Id(b1.ID).One()
	require.NotNil(t, b)
	assert.Equal(t, 1, b.MissionJoinCount)
}

func TestJoinCrewConcurrentLastSlot(t *testing.T) {
	m := prepare(t)

	chief := addBrawler(t, m, "chief")
	mission := addMission(t, m, chief.ID, 2)

	first := addBrawler(t, m, "first")
	require.NoError(t, m.JoinCrew(mission.ID, first.ID, mission.MaxCrew))

	contenders := make([]*model.Brawler, 8)
	for i := range contenders {
		contenders[i] = addBrawler(t, m, "c"+string(rune('a'+i)))
	}

	var wg sync.WaitGroup

	results := make([]error, len(contenders))

	for i, b := range contenders {
		wg.Add(1)

		go func(i int, id uint) {
			defer wg.Done()

			results[i] = m.JoinCrew(mission.ID, id, mission.MaxCrew)
		}(i, b.ID)
	}

	wg.Wait()

	var joined int

	for _, err := range results {
		if err == nil {
			joined++
		} else {
			require.ErrorIs(t, err, model.ErrMissionFull)
		}
	}

	assert.Equal(t, 1, joined)
	assert.EqualValues(t, 2, m.CrewCount(mission.ID))
}

func TestLeaveCrew(t *testing.T) {
	m := prepare(t)

	chief := addBrawler(t, m, "chief")
	mission := addMission(t, m, chief.ID, 5)
	b1 := addBrawler(t, m, "b1")

	require.NoError(t, m.JoinCrew(mission.ID, b1.ID, mission.MaxCrew))

	removed, err := m.LeaveCrew(mission.ID, b1.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = m.LeaveCrew(mission.ID, b1.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	// the join counter keeps history, leaving does not decrement it
	b := m.BrawlerQuery().Id(b1.ID).One()
	require.NotNil(t, b)
	assert.Equal(t, 1, b.MissionJoinCount)
}

func TestCrewRosterOrder(t *testing.T) {
	m := prepare(t)

	chief := addBrawler(t, m, "chief")
	mission := addMission(t, m, chief.ID, 5)

	b1 := addBrawler(t, m, "b1")
	b2 := addBrawler(t, m, "b2")

	require.NoError(t, m.JoinCrew(mission.ID, b1.ID, mission.MaxCrew))
	require.NoError(t, m.JoinCrew(mission.ID, b2.ID, mission.MaxCrew))

	roster := m.CrewRoster(mission.ID)
	require.Len(t, roster, 2)
	assert.Equal(t, b1.ID, roster[0].ID)
	assert.Equal(t, b2.ID, roster[1].ID)
}

func TestUpdateStatusConditional(t *testing.T) {
	m := prepare(t)

	chief := addBrawler(t, m, "chief")
	mission := addMission(t, m, chief.ID, 5)

	q := m.MissionQuery().Id(mission.ID)
	require.NoError(t, q.UpdateStatus(model.StatusInProgress, model.StatusOpen, model.StatusFailed))

	got := m.MissionQuery().Id(mission.ID).One()
	require.NotNil(t, got)
	assert.Equal(t, model.StatusInProgress, got.Status)

	// current state no longer matches, the guard must refuse
	err := m.MissionQuery().Id(mission.ID).UpdateStatus(model.StatusInProgress, model.StatusOpen, model.StatusFailed)
	require.ErrorIs(t, err, ErrNoRows)
}

func TestAwardOnce(t *testing.T) {
	m := prepare(t)

	b := addBrawler(t, m, "b1")

	a := &model.Achievement{Name: "First Steps", ConditionType: "mission_join", ConditionValue: 1}
	require.NoError(t, m.Create(a))

	fresh, err := m.AwardOnce(b.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = m.AwardOnce(b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestAchievementsWithEarned(t *testing.T) {
	m := prepare(t)

	b := addBrawler(t, m, "b1")
	m.AddDefaults()

	all := m.AchievementQuery().Get()
	require.NotEmpty(t, all)

	_, err := m.AwardOnce(b.ID, all[0].ID)
	require.NoError(t, err)

	res := m.AchievementsWithEarned(b.ID)
	require.Len(t, res, len(all))

	var earned int

	for _, dto := range res {
		if dto.Earned {
			earned++
			require.NotNil(t, dto.EarnedAt)
		}
	}

	assert.Equal(t, 1, earned)
}

func TestMissionHistory(t *testing.T) {
	m := prepare(t)

	chief := addBrawler(t, m, "chief")
	mission := addMission(t, m, chief.ID, 5)

	id := chief.ID

	require.NoError(t, m.Create(&model.MissionMessage{MissionID: mission.ID, Content: "system one", Type: model.MessageTypeSystem}))
	require.NoError(t, m.Create(&model.MissionMessage{MissionID: mission.ID, BrawlerID: &id, Content: "hello", Type: model.MessageTypeChat}))

	msgs := m.History(mission.ID)
	require.Len(t, msgs, 2)

	assert.Equal(t, "system one", msgs[0].Content)
	assert.Empty(t, msgs[0].DisplayName)

	assert.Equal(t, "hello", msgs[1].Content)
	assert.Equal(t, "chief", msgs[1].DisplayName)
}

func TestPendingInvites(t *testing.T) {
	m := prepare(t)

	chief := addBrawler(t, m, "chief")
	mission := addMission(t, m, chief.ID, 5)
	b1 := addBrawler(t, m, "b1")

	require.NoError(t, m.Create(&model.MissionInvite{MissionID: mission.ID, BrawlerID: b1.ID, Status: model.InviteStatusPending}))

	assert.True(t, m.HasPendingInvite(mission.ID, b1.ID))
	assert.False(t, m.HasPendingInvite(mission.ID, chief.ID))

	invites := m.PendingInvites(b1.ID)
	require.Len(t, invites, 1)
	assert.Equal(t, mission.ID, invites[0].MissionID)
	assert.Equal(t, "test mission", invites[0].MissionName)
	assert.Equal(t, "chief", invites[0].ChiefName)
}

func TestSoftDelete(t *testing.T) {
	m := prepare(t)

	chief := addBrawler(t, m, "chief")
	mission := addMission(t, m, chief.ID, 5)

	require.NoError(t, m.MissionQuery().Id(mission.ID).Delete())
	assert.Nil(t, m.MissionQuery().Id(mission.ID).One())

	err := m.MissionQuery().Id(mission.ID).Delete()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoRows))
}
