package actorList

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/repository/mysql"
	"github.com/Xushengqwer/actor_hub/service/guard"
	"github.com/Xushengqwer/actor_hub/testutil"
)

func intPtr(v int) *int { return &v }

func seedActor(t *testing.T, db *gorm.DB, name string, age int, gender enums.Gender, userID *uint) *entities.Actor {
	t.Helper()
	a := testutil.CreateActor(t, db, name, userID)
	require.NoError(t, db.Model(a).Updates(map[string]interface{}{"age": age, "gender": gender}).Error)
	return a
}

func TestListActors_CountOnlySummary(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewActorListService(mysql.NewJoinQuery(db), testutil.NewLogger())
	admin := guard.Caller{UserID: 1, Role: enums.RoleAdmin}

	seedActor(t, db, "Li Lei", 25, enums.GenderMale, nil)
	seedActor(t, db, "Li Na", 35, enums.GenderFemale, nil)
	seedActor(t, db, "Han Meimei", 24, enums.GenderFemale, nil)

	got, err := svc.ListActors(context.Background(), admin, &dto.ActorListQuery{
		Name: "Li", AgeMin: intPtr(20), AgeMax: intPtr(30), CountOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "count", got.Items[0].ID)
	require.NotNil(t, got.Items[0].TotalCount)
	assert.EqualValues(t, 1, *got.Items[0].TotalCount)
	assert.EqualValues(t, 1, got.Total)

	raw, err := json.Marshal(got.Items[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"count","real_name":"计数","total_count":1}`, string(raw))

	// 普通列表项不受影响
	list, err := svc.ListActors(context.Background(), admin, &dto.ActorListQuery{Name: "Han"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	raw, err = json.Marshal(list.Items[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"created_at"`)
	assert.NotContains(t, string(raw), `"total_count"`)
}

func TestListActors_RoleScopeAndGender(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewActorListService(mysql.NewJoinQuery(db), testutil.NewLogger())
	ctx := context.Background()

	manager := testutil.CreateUser(t, db, "agent01", enums.RoleManager)
	performer := testutil.CreateUser(t, db, "lilei", enums.RolePerformer)
	own := seedActor(t, db, "李雷", 25, enums.GenderMale, &performer.ID)
	managed := seedActor(t, db, "韩梅梅", 24, enums.GenderFemale, nil)
	testutil.AssignAgent(t, db, managed.ID, manager.ID)
	seedActor(t, db, "王五", 30, enums.GenderMale, nil)

	got, err := svc.ListActors(ctx, guard.Caller{UserID: manager.ID, Role: enums.RoleManager}, &dto.ActorListQuery{})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, managed.ID, got.Items[0].ID)

	got, err = svc.ListActors(ctx, guard.Caller{UserID: performer.ID, Role: enums.RolePerformer}, &dto.ActorListQuery{})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, own.ID, got.Items[0].ID)

	got, err = svc.ListActors(ctx, guard.Caller{UserID: 99, Role: enums.RoleAdmin}, &dto.ActorListQuery{Gender: "男"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Total)

	_, err = svc.ListActors(ctx, guard.Caller{UserID: 99, Role: enums.RoleAdmin}, &dto.ActorListQuery{Gender: "unknown"})
	assert.ErrorIs(t, err, commonerrors.ErrValidation)
}

func TestListWithoutAgent_IDsSentinel(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewActorListService(mysql.NewJoinQuery(db), testutil.NewLogger())
	ctx := context.Background()

	manager := testutil.CreateUser(t, db, "agent01", enums.RoleManager)
	assigned := testutil.CreateActor(t, db, "甲", nil)
	testutil.AssignAgent(t, db, assigned.ID, manager.ID)
	free1 := testutil.CreateActor(t, db, "乙", nil)
	free2 := testutil.CreateActor(t, db, "丙", nil)

	caller := guard.Caller{UserID: manager.ID, Role: enums.RoleManager}
	got, err := svc.ListWithoutAgent(ctx, caller, &dto.ActorListQuery{Limit: intPtr(0)})
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.ElementsMatch(t, []string{free1.ID, free2.ID}, got.IDs)
	assert.EqualValues(t, 2, got.Total)

	got, err = svc.ListWithoutAgent(ctx, caller, &dto.ActorListQuery{Limit: intPtr(1)})
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
	assert.EqualValues(t, 2, got.Total)

	_, err = svc.ListWithoutAgent(ctx, guard.Caller{UserID: 50, Role: enums.RolePerformer}, &dto.ActorListQuery{})
	assert.ErrorIs(t, err, commonerrors.ErrForbidden)
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, 100, NormalizeLimit(nil))
	assert.Equal(t, 100, NormalizeLimit(intPtr(0)))
	assert.Equal(t, 100, NormalizeLimit(intPtr(-5)))
	assert.Equal(t, 20, NormalizeLimit(intPtr(20)))
}
