package register

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
	"github.com/Xushengqwer/actor_hub/testutil"
)

func newService(db *gorm.DB) RegisterService {
	return NewRegisterService(
		mysql.NewUserRepository(db),
		mysql.NewActorRepository(db),
		mysql.NewProfileRepository(db),
		mysql.NewInviteCodeRepository(db),
		db,
		testutil.NewLogger(),
	)
}

func createInvite(t *testing.T, db *gorm.DB, code string, agentID uint, status enums.InviteCodeStatus) {
	t.Helper()
	require.NoError(t, db.Create(&entities.InviteCode{ID: uuid.NewString(), Code: code, AgentID: agentID, Status: status}).Error)
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func performerReq() *dto.RegisterPerformerDTO {
	email := "li@example.com"
	return &dto.RegisterPerformerDTO{
		Username:   "lilei",
		Password:   "abc12345",
		Phone:      "13912345678",
		Email:      &email,
		InviteCode: "123456",
	}
}

func TestRegisterPerformer_CreatesAllRowsOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	manager := testutil.CreateUser(t, db, "agent01", enums.RoleManager)
	createInvite(t, db, "123456", manager.ID, enums.InviteCodeActive)

	res, err := svc.RegisterPerformer(ctx, performerReq())
	require.NoError(t, err)
	assert.Equal(t, enums.RolePerformer, res.User.Role)
	assert.ElementsMatch(t, enums.DefaultPermissions(enums.RolePerformer), res.User.Permissions)
	require.NotEmpty(t, res.ActorID)

	assert.EqualValues(t, 2, countRows(t, db, &entities.User{}))
	assert.EqualValues(t, 1, countRows(t, db, &entities.Actor{}))
	assert.EqualValues(t, 1, countRows(t, db, &entities.ActorProfessionalInfo{}))
	assert.EqualValues(t, 1, countRows(t, db, &entities.ActorContactInfo{}))
	assert.EqualValues(t, 1, countRows(t, db, &entities.InviteCodeUsage{}))
	assert.EqualValues(t, 0, countRows(t, db, &entities.ActorContractInfo{}), "自助注册不建立签约关系")

	var actor entities.Actor
	require.NoError(t, db.First(&actor, "id = ?", res.ActorID).Error)
	assert.Equal(t, "lilei", actor.RealName)
	require.NotNil(t, actor.UserID)
	assert.Equal(t, res.User.ID, *actor.UserID)

	var contact entities.ActorContactInfo
	require.NoError(t, db.First(&contact, "actor_id = ?", res.ActorID).Error)
	require.NotNil(t, contact.Email)
	assert.Equal(t, "li@example.com", *contact.Email)

	// 同名再次注册被拒绝且不产生新行
	second := performerReq()
	second.Phone = "13987654321"
	_, err = svc.RegisterPerformer(ctx, second)
	require.ErrorIs(t, err, commonerrors.ErrConflict)
	assert.Equal(t, msgUsernameTaken, commonerrors.PublicMessage(err))

	assert.EqualValues(t, 2, countRows(t, db, &entities.User{}))
	assert.EqualValues(t, 1, countRows(t, db, &entities.Actor{}))
	assert.EqualValues(t, 1, countRows(t, db, &entities.InviteCodeUsage{}))
}

func TestRegisterPerformer_InviteRules(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	manager := testutil.CreateUser(t, db, "agent01", enums.RoleManager)
	admin := testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)
	createInvite(t, db, "111111", manager.ID, enums.InviteCodeInactive)
	createInvite(t, db, "222222", admin.ID, enums.InviteCodeActive)

	tests := []struct {
		code string
		msg  string
	}{
		{"999999", msgInvalidInvite},
		{"111111", msgInvalidInvite},
		{"222222", msgIssuerNotManager},
	}
	for _, tt := range tests {
		req := performerReq()
		req.InviteCode = tt.code
		_, err := svc.RegisterPerformer(ctx, req)
		require.ErrorIs(t, err, commonerrors.ErrValidation, tt.code)
		assert.Equal(t, tt.msg, commonerrors.PublicMessage(err))
	}
	assert.EqualValues(t, 0, countRows(t, db, &entities.Actor{}))
}

func TestRegisterPerformer_DuplicatePhone(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db)

	manager := testutil.CreateUser(t, db, "agent01", enums.RoleManager)
	createInvite(t, db, "123456", manager.ID, enums.InviteCodeActive)

	req := performerReq()
	req.Phone = manager.Phone
	_, err := svc.RegisterPerformer(context.Background(), req)
	require.ErrorIs(t, err, commonerrors.ErrConflict)
	assert.Equal(t, msgPhoneTaken, commonerrors.PublicMessage(err))
}

func TestRegisterStaff(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	req := &dto.RegisterStaffDTO{Username: "agent02", Password: "abc12345", Phone: "13700000000"}
	res, err := svc.RegisterStaff(ctx, req, enums.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, enums.RoleManager, res.User.Role)
	assert.ElementsMatch(t, enums.DefaultPermissions(enums.RoleManager), res.User.Permissions)
	assert.Empty(t, res.ActorID)

	_, err = svc.RegisterStaff(ctx, req, enums.RolePerformer)
	assert.ErrorIs(t, err, commonerrors.ErrValidation)
}

func TestEnsureAdmin(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	req := &dto.RegisterStaffDTO{Username: "admin", Password: "admin123", Phone: "13800000000"}
	created, err := svc.EnsureAdmin(ctx, req)
	require.NoError(t, err)
	assert.True(t, created)

	var admin entities.User
	require.NoError(t, db.Preload("Permissions").First(&admin, "username = ?", "admin").Error)
	assert.Equal(t, enums.RoleAdmin, admin.Role)
	assert.Len(t, admin.Permissions, len(enums.DefaultPermissions(enums.RoleAdmin)))

	// 已有活跃管理员时不重复创建
	created, err = svc.EnsureAdmin(ctx, &dto.RegisterStaffDTO{Username: "admin2", Password: "admin123", Phone: "13800000001"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.EqualValues(t, 1, countRows(t, db, &entities.User{}))
}
