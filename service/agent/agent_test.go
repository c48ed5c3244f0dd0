package agent

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/repository/mysql"
	"github.com/Xushengqwer/actor_hub/service/actorList"
	"github.com/Xushengqwer/actor_hub/service/guard"
	"github.com/Xushengqwer/actor_hub/service/profile"
	"github.com/Xushengqwer/actor_hub/service/register"
	"github.com/Xushengqwer/actor_hub/testutil"
)

func newService(db *gorm.DB) AgentService {
	logger := testutil.NewLogger()
	actorRepo := mysql.NewActorRepository(db)
	profileRepo := mysql.NewProfileRepository(db)
	userRepo := mysql.NewUserRepository(db)
	profiles := profile.NewProfileService(actorRepo, profileRepo, userRepo,
		mysql.NewMediaRepository(db), mysql.NewTagRepository(db), nil, db, logger)
	lists := actorList.NewActorListService(mysql.NewJoinQuery(db), logger)
	return NewAgentService(actorRepo, profileRepo, userRepo, profiles, lists, db, logger)
}

func callerOf(u *entities.User) guard.Caller {
	return guard.Caller{UserID: u.ID, Role: u.Role}
}

func TestInviteRegistrationThenAssign(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)
	manager := testutil.CreateUser(t, db, "agent01", enums.RoleManager)
	require.NoError(t, db.Create(&entities.InviteCode{
		ID: uuid.NewString(), Code: "123456", AgentID: manager.ID, Status: enums.InviteCodeActive,
	}).Error)

	registrar := register.NewRegisterService(mysql.NewUserRepository(db), mysql.NewActorRepository(db),
		mysql.NewProfileRepository(db), mysql.NewInviteCodeRepository(db), db, testutil.NewLogger())
	reg, err := registrar.RegisterPerformer(ctx, &dto.RegisterPerformerDTO{
		Username: "lilei", Password: "abc12345", Phone: "13912345678", InviteCode: "123456",
	})
	require.NoError(t, err)

	var contracts int64
	require.NoError(t, db.Model(&entities.ActorContractInfo{}).Where("actor_id = ?", reg.ActorID).Count(&contracts).Error)
	assert.Zero(t, contracts, "注册后尚未分配经纪人")

	got, err := svc.AssignAgent(ctx, callerOf(admin), &dto.AssignAgentDTO{ActorID: reg.ActorID, AgentID: manager.ID})
	require.NoError(t, err)
	require.NotNil(t, got.AgentID)
	assert.Equal(t, manager.ID, *got.AgentID)
	assert.Equal(t, "agent01", *got.AgentName)

	var contract entities.ActorContractInfo
	require.NoError(t, db.First(&contract, "actor_id = ?", reg.ActorID).Error)
	require.NotNil(t, contract.AgentID)
	assert.Equal(t, manager.ID, *contract.AgentID)

	roster, err := svc.ListAgentActors(ctx, callerOf(manager), manager.ID, &dto.ActorListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, roster.Total)
	require.Len(t, roster.Items, 1)
	assert.Equal(t, reg.ActorID, roster.Items[0].ID)
	assert.Equal(t, "agent01", *roster.Items[0].AgentName)
}

func TestAssignAgent_Rules(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)
	m1 := testutil.CreateUser(t, db, "agent01", enums.RoleManager)
	m2 := testutil.CreateUser(t, db, "agent02", enums.RoleManager)
	performer := testutil.CreateUser(t, db, "lilei", enums.RolePerformer)
	actor := testutil.CreateActor(t, db, "李雷", &performer.ID)

	_, err := svc.AssignAgent(ctx, callerOf(admin), &dto.AssignAgentDTO{ActorID: "AC00000000MISSING", AgentID: m1.ID})
	assert.ErrorIs(t, err, commonerrors.ErrNotFound)

	_, err = svc.AssignAgent(ctx, callerOf(admin), &dto.AssignAgentDTO{ActorID: actor.ID, AgentID: performer.ID})
	assert.ErrorIs(t, err, commonerrors.ErrValidation)

	_, err = svc.AssignAgent(ctx, callerOf(m1), &dto.AssignAgentDTO{ActorID: actor.ID, AgentID: m2.ID})
	assert.ErrorIs(t, err, commonerrors.ErrForbidden, "经纪人只能分配给自己")

	_, err = svc.AssignAgent(ctx, callerOf(performer), &dto.AssignAgentDTO{ActorID: actor.ID, AgentID: m1.ID})
	assert.ErrorIs(t, err, commonerrors.ErrForbidden)

	_, err = svc.AssignAgent(ctx, callerOf(m1), &dto.AssignAgentDTO{ActorID: actor.ID, AgentID: m1.ID})
	require.NoError(t, err)

	_, err = svc.AssignAgent(ctx, callerOf(m2), &dto.AssignAgentDTO{ActorID: actor.ID, AgentID: m2.ID})
	require.ErrorIs(t, err, commonerrors.ErrForbidden, "已有经纪人的演员不能被其他经纪人抢走")

	// 管理员可以改派
	_, err = svc.AssignAgent(ctx, callerOf(admin), &dto.AssignAgentDTO{ActorID: actor.ID, AgentID: m2.ID})
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Model(&entities.ActorContractInfo{}).Count(&n).Error)
	assert.EqualValues(t, 1, n, "改派不会新增签约行")
}

func TestUnassignAgent_KeepsContractRow(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	m1 := testutil.CreateUser(t, db, "agent01", enums.RoleManager)
	m2 := testutil.CreateUser(t, db, "agent02", enums.RoleManager)
	actor := testutil.CreateActor(t, db, "李雷", nil)
	testutil.AssignAgent(t, db, actor.ID, m1.ID)
	require.NoError(t, db.Model(&entities.ActorContractInfo{}).Where("actor_id = ?", actor.ID).Update("commission_rate", 15).Error)

	err := svc.UnassignAgent(ctx, callerOf(m2), actor.ID)
	assert.ErrorIs(t, err, commonerrors.ErrForbidden)

	require.NoError(t, svc.UnassignAgent(ctx, callerOf(m1), actor.ID))

	var contract entities.ActorContractInfo
	require.NoError(t, db.First(&contract, "actor_id = ?", actor.ID).Error)
	assert.Nil(t, contract.AgentID)
	require.NotNil(t, contract.CommissionRate)
	assert.Equal(t, 15, *contract.CommissionRate)

	// 再次解除时已无经纪人，经纪人本人也不再有权限
	err = svc.UnassignAgent(ctx, callerOf(m1), actor.ID)
	assert.ErrorIs(t, err, commonerrors.ErrForbidden)
}

func TestListAgentActors_Scope(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)
	m1 := testutil.CreateUser(t, db, "agent01", enums.RoleManager)
	m2 := testutil.CreateUser(t, db, "agent02", enums.RoleManager)
	performer := testutil.CreateUser(t, db, "lilei", enums.RolePerformer)
	for _, name := range []string{"甲", "乙"} {
		a := testutil.CreateActor(t, db, name, nil)
		testutil.AssignAgent(t, db, a.ID, m1.ID)
	}
	testutil.CreateActor(t, db, "丙", nil)

	_, err := svc.ListAgentActors(ctx, callerOf(m2), m1.ID, &dto.ActorListQuery{})
	assert.ErrorIs(t, err, commonerrors.ErrForbidden)

	// 经纪人不存在时返回 404 而非 403
	_, err = svc.ListAgentActors(ctx, callerOf(m2), 99999, &dto.ActorListQuery{})
	require.ErrorIs(t, err, commonerrors.ErrNotFound)
	assert.Equal(t, msgAgentNotFound, commonerrors.PublicMessage(err))

	_, err = svc.ListAgentActors(ctx, callerOf(admin), performer.ID, &dto.ActorListQuery{})
	assert.ErrorIs(t, err, commonerrors.ErrValidation)

	list, err := svc.ListAgentActors(ctx, callerOf(admin), m1.ID, &dto.ActorListQuery{CountOnly: true})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.EqualValues(t, 2, *list.Items[0].TotalCount)
}
