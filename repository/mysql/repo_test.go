package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/testutil"
)

func intPtr(v int) *int { return &v }

func TestUserRepository_DuplicateAndLookup(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)

	got, err := repo.GetUserByUsername(ctx, "admin01")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)
	assert.Len(t, got.Permissions, len(enums.DefaultPermissions(enums.RoleAdmin)))

	_, err = repo.GetUserByID(ctx, db, 9999)
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)

	dup := &entities.User{Username: "admin01", PasswordHash: "x", Phone: "13900000000", Role: enums.RoleAdmin, Status: enums.UserStatusActive}
	assert.ErrorIs(t, repo.CreateUser(ctx, db, dup), commonerrors.ErrRepoDuplicate)

	exists, err := repo.ExistsByUsername(ctx, db, "admin01", admin.ID)
	require.NoError(t, err)
	assert.False(t, exists, "排除自身后不应视为占用")

	ids, err := repo.LockActiveAdminIDs(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []uint{admin.ID}, ids)
}

func TestProfileRepository_SectionLifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	actor := testutil.CreateActor(t, db, "李雷", nil)

	_, err := repo.GetContractInfo(ctx, db, actor.ID)
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)

	phone := "13800001111"
	require.NoError(t, repo.UpdateContactInfo(ctx, db, actor.ID, map[string]interface{}{"phone": phone}))
	contact, err := repo.GetContactInfo(ctx, db, actor.ID)
	require.NoError(t, err)
	require.NotNil(t, contact.Phone)
	assert.Equal(t, phone, *contact.Phone)

	assert.ErrorIs(t, repo.CreateContactInfo(ctx, db, &entities.ActorContactInfo{ActorID: actor.ID}), commonerrors.ErrRepoDuplicate)

	require.NoError(t, repo.DeleteSections(ctx, db, actor.ID))
	_, err = repo.GetProfessionalInfo(ctx, db, actor.ID)
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
}

func TestTagRepository_LinksAndUsage(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	actor := testutil.CreateActor(t, db, "韩梅梅", nil)
	t1 := &entities.Tag{Name: "古装"}
	t2 := &entities.Tag{Name: "现代"}
	require.NoError(t, repo.CreateTag(ctx, t1))
	require.NoError(t, repo.CreateTag(ctx, t2))
	assert.ErrorIs(t, repo.CreateTag(ctx, &entities.Tag{Name: "古装"}), commonerrors.ErrRepoDuplicate)

	require.NoError(t, repo.CreateActorTags(ctx, db, []*entities.ActorTag{{ActorID: actor.ID, TagID: t1.ID}}))
	assert.ErrorIs(t, repo.CreateActorTags(ctx, db, []*entities.ActorTag{{ActorID: actor.ID, TagID: t1.ID}}), commonerrors.ErrRepoDuplicate)

	found, err := repo.FindTagsByIDs(ctx, db, []uint{t1.ID, t2.ID, 999})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	usage, err := repo.CountTagUsage(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, t1.ID, usage[0].ID)
	assert.EqualValues(t, 1, usage[0].ActorCount)
	assert.EqualValues(t, 0, usage[1].ActorCount)

	n, err := repo.DeleteActorTag(ctx, db, actor.ID, t2.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestJoinQuery_ActorFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	q := NewJoinQuery(db)
	ctx := context.Background()

	manager := testutil.CreateUser(t, db, "agent01", enums.RoleManager)

	li := testutil.CreateActor(t, db, "Li Ming", nil)
	require.NoError(t, db.Model(li).Updates(map[string]interface{}{"age": 25, "height": 180}).Error)
	testutil.AssignAgent(t, db, li.ID, manager.ID)

	old := testutil.CreateActor(t, db, "Li Hua", nil)
	require.NoError(t, db.Model(old).Update("age", 40).Error)

	gone := testutil.CreateActor(t, db, "Li Gone", nil)
	require.NoError(t, db.Model(gone).Updates(map[string]interface{}{"age": 22, "status": enums.ActorStatusDeleted}).Error)

	total, err := q.CountActors(ctx, &dto.ActorFilter{Name: "Li", AgeMin: intPtr(20), AgeMax: intPtr(30)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "软删除的演员默认不出现在列表中")

	items, total, err := q.ListActors(ctx, &dto.ActorFilter{AgentID: &manager.ID, Limit: 100})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, li.ID, items[0].ID)
	require.NotNil(t, items[0].AgentName)
	assert.Equal(t, "agent01", *items[0].AgentName)

	ids, err := q.ListActorIDs(ctx, &dto.ActorFilter{WithoutAgent: true})
	require.NoError(t, err)
	assert.Equal(t, []string{old.ID}, ids)

	deleted, err := q.CountActors(ctx, &dto.ActorFilter{Status: string(enums.ActorStatusDeleted)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
}

func TestJoinQuery_ListUsers(t *testing.T) {
	db := testutil.NewTestDB(t)
	q := NewJoinQuery(db)

	testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)
	testutil.CreateUser(t, db, "agent01", enums.RoleManager)
	testutil.CreateUser(t, db, "agent02", enums.RoleManager)

	users, total, err := q.ListUsers(context.Background(), &dto.UserListQuery{Role: "manager", Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, users, 1)
	assert.Equal(t, "agent01", users[0].Username)
	assert.NotEmpty(t, users[0].Permissions)
}
