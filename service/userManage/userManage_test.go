package userManage

import (
	"context"
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
	"github.com/Xushengqwer/actor_hub/utils"
)

func newService(db *gorm.DB) UserManageService {
	return NewUserManageService(
		mysql.NewUserRepository(db),
		mysql.NewActorRepository(db),
		mysql.NewProfileRepository(db),
		mysql.NewJoinQuery(db),
		db,
		testutil.NewLogger(),
	)
}

func callerOf(u *entities.User) guard.Caller {
	return guard.Caller{UserID: u.ID, Role: u.Role}
}

func strPtr(s string) *string { return &s }

func reload(t *testing.T, db *gorm.DB, id uint) *entities.User {
	t.Helper()
	var u entities.User
	require.NoError(t, db.Preload("Permissions").First(&u, id).Error)
	return &u
}

func TestUpdateUser_LastActiveAdminCannotBeDisabled(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)

	_, err := svc.UpdateUser(ctx, callerOf(admin), admin.ID, &dto.UpdateUserDTO{Status: strPtr(string(enums.UserStatusInactive))})
	require.ErrorIs(t, err, commonerrors.ErrConflict)
	assert.Equal(t, msgLastAdminDisable, commonerrors.PublicMessage(err))
	assert.Equal(t, enums.UserStatusActive, reload(t, db, admin.ID).Status)

	// 降级为经纪人同样会失去最后一个管理员
	_, err = svc.UpdateUser(ctx, callerOf(admin), admin.ID, &dto.UpdateUserDTO{Role: strPtr(string(enums.RoleManager))})
	require.ErrorIs(t, err, commonerrors.ErrConflict)
	assert.Equal(t, enums.RoleAdmin, reload(t, db, admin.ID).Role)

	// 有第二个活跃管理员后允许停用
	testutil.CreateUser(t, db, "admin02", enums.RoleAdmin)
	res, err := svc.UpdateUser(ctx, callerOf(admin), admin.ID, &dto.UpdateUserDTO{Status: strPtr(string(enums.UserStatusInactive))})
	require.NoError(t, err)
	assert.Equal(t, enums.UserStatusInactive, res.Status)
}

func TestUpdateUser_FieldsAndRoleChange(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)
	user := testutil.CreateUser(t, db, "actor01", enums.RolePerformer)
	other := testutil.CreateUser(t, db, "actor02", enums.RolePerformer)

	res, err := svc.UpdateUser(ctx, callerOf(admin), user.ID, &dto.UpdateUserDTO{
		Username: strPtr("actor01x"),
		Email:    strPtr("x@example.com"),
		Password: strPtr("newpass99"),
		Role:     strPtr(string(enums.RoleManager)),
	})
	require.NoError(t, err)
	assert.Equal(t, "actor01x", res.Username)
	require.NotNil(t, res.Email)
	assert.Equal(t, "x@example.com", *res.Email)
	assert.Equal(t, enums.RoleManager, res.Role)
	assert.ElementsMatch(t, enums.DefaultPermissions(enums.RoleManager), res.Permissions)

	stored := reload(t, db, user.ID)
	assert.NoError(t, utils.CheckPassword(stored.PasswordHash, "newpass99"))

	_, err = svc.UpdateUser(ctx, callerOf(admin), user.ID, &dto.UpdateUserDTO{Username: strPtr(other.Username)})
	require.ErrorIs(t, err, commonerrors.ErrConflict)
	assert.Equal(t, msgUsernameTaken, commonerrors.PublicMessage(err))

	_, err = svc.UpdateUser(ctx, callerOf(admin), user.ID, &dto.UpdateUserDTO{Phone: strPtr(other.Phone)})
	require.ErrorIs(t, err, commonerrors.ErrConflict)
	assert.Equal(t, msgPhoneTaken, commonerrors.PublicMessage(err))

	_, err = svc.UpdateUser(ctx, callerOf(admin), 9999, &dto.UpdateUserDTO{})
	require.ErrorIs(t, err, commonerrors.ErrNotFound)
	assert.Equal(t, msgUserNotFound, commonerrors.PublicMessage(err))
}

func TestDeleteUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)
	manager := testutil.CreateUser(t, db, "agent01", enums.RoleManager)
	performer := testutil.CreateUser(t, db, "actor01", enums.RolePerformer)
	linked := testutil.CreateActor(t, db, "李雷", &performer.ID)
	signed := testutil.CreateActor(t, db, "韩梅梅", nil)
	testutil.AssignAgent(t, db, signed.ID, manager.ID)

	err := svc.DeleteUser(ctx, callerOf(admin), admin.ID)
	require.ErrorIs(t, err, commonerrors.ErrValidation)
	assert.Equal(t, msgCannotDeleteSelf, commonerrors.PublicMessage(err))

	require.NoError(t, svc.DeleteUser(ctx, callerOf(admin), performer.ID))
	var actor entities.Actor
	require.NoError(t, db.First(&actor, "id = ?", linked.ID).Error)
	assert.Nil(t, actor.UserID, "演员档案保留但解除关联")
	var perms int64
	require.NoError(t, db.Model(&entities.UserPermission{}).Where("user_id = ?", performer.ID).Count(&perms).Error)
	assert.Zero(t, perms)

	require.NoError(t, svc.DeleteUser(ctx, callerOf(admin), manager.ID))
	var contract entities.ActorContractInfo
	require.NoError(t, db.First(&contract, "actor_id = ?", signed.ID).Error)
	assert.Nil(t, contract.AgentID)

	err = svc.DeleteUser(ctx, callerOf(admin), manager.ID)
	assert.ErrorIs(t, err, commonerrors.ErrNotFound)
}

func TestDeleteUser_LastAdmin(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db)

	admin := testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)
	// 另一个管理员已停用，不计入活跃管理员
	retired := testutil.CreateUser(t, db, "admin02", enums.RoleAdmin)
	require.NoError(t, db.Model(retired).Update("status", enums.UserStatusInactive).Error)

	// 被停用的管理员可以删除
	require.NoError(t, svc.DeleteUser(context.Background(), callerOf(admin), retired.ID))

	second := testutil.CreateUser(t, db, "admin03", enums.RoleAdmin)
	require.NoError(t, db.Model(admin).Update("status", enums.UserStatusInactive).Error)
	err := svc.DeleteUser(context.Background(), callerOf(admin), second.ID)
	require.ErrorIs(t, err, commonerrors.ErrConflict)
	assert.Equal(t, msgLastAdminDelete, commonerrors.PublicMessage(err))
}

func TestBanAndActivateUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)
	user := testutil.CreateUser(t, db, "actor01", enums.RolePerformer)

	err := svc.BanUser(ctx, callerOf(admin), admin.ID)
	require.ErrorIs(t, err, commonerrors.ErrValidation)
	assert.Equal(t, msgCannotBanSelf, commonerrors.PublicMessage(err))

	require.NoError(t, svc.BanUser(ctx, callerOf(admin), user.ID))
	assert.Equal(t, enums.UserStatusBanned, reload(t, db, user.ID).Status)

	require.NoError(t, svc.ActivateUser(ctx, callerOf(admin), user.ID))
	assert.Equal(t, enums.UserStatusActive, reload(t, db, user.ID).Status)

	assert.ErrorIs(t, svc.ActivateUser(ctx, callerOf(admin), 9999), commonerrors.ErrNotFound)
}

func TestListUsers(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)
	testutil.CreateUser(t, db, "agent01", enums.RoleManager)
	testutil.CreateUser(t, db, "agent02", enums.RoleManager)
	testutil.CreateUser(t, db, "actor01", enums.RolePerformer)

	res, err := svc.ListUsers(ctx, callerOf(admin), &dto.UserListQuery{Role: string(enums.RoleManager)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "agent01", res.Items[0].Username)
	assert.NotEmpty(t, res.Items[0].Permissions)

	res, err = svc.ListUsers(ctx, callerOf(admin), &dto.UserListQuery{Skip: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 4, res.Total)
	assert.Len(t, res.Items, 2)

	res, err = svc.ListUsers(ctx, callerOf(admin), &dto.UserListQuery{Limit: -1})
	require.NoError(t, err)
	assert.Len(t, res.Items, 4, "负数 limit 使用默认上限")

	res, err = svc.ListUsers(ctx, callerOf(admin), &dto.UserListQuery{Username: "agent", CountOnly: true})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	require.NotNil(t, res.Items[0].TotalCount)
	assert.EqualValues(t, 2, *res.Items[0].TotalCount)
}

func TestUserManage_AdminOnly(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	manager := testutil.CreateUser(t, db, "agent01", enums.RoleManager)
	user := testutil.CreateUser(t, db, "actor01", enums.RolePerformer)

	_, err := svc.ListUsers(ctx, callerOf(manager), &dto.UserListQuery{})
	assert.ErrorIs(t, err, commonerrors.ErrForbidden)
	_, err = svc.GetUser(ctx, callerOf(user), user.ID)
	assert.ErrorIs(t, err, commonerrors.ErrForbidden)
	assert.ErrorIs(t, svc.BanUser(ctx, callerOf(manager), user.ID), commonerrors.ErrForbidden)
	assert.Equal(t, enums.UserStatusActive, reload(t, db, user.ID).Status)
}
