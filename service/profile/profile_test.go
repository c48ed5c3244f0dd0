package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/dependencies"
	"github.com/Xushengqwer/actor_hub/dependencies/mocks"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/repository/mysql"
	"github.com/Xushengqwer/actor_hub/service/guard"
	"github.com/Xushengqwer/actor_hub/testutil"
)

func strPtr(s string) *string { return &s }
func intPtr(v int) *int        { return &v }

func newService(db *gorm.DB, storage dependencies.ObjectStorage) ProfileService {
	return NewProfileService(
		mysql.NewActorRepository(db),
		mysql.NewProfileRepository(db),
		mysql.NewUserRepository(db),
		mysql.NewMediaRepository(db),
		mysql.NewTagRepository(db),
		storage,
		db,
		testutil.NewLogger(),
	)
}

func callerOf(u *entities.User) guard.Caller {
	return guard.Caller{UserID: u.ID, Role: u.Role}
}

func TestCreateActor_ManagerBecomesAgent(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db, nil)
	manager := testutil.CreateUser(t, db, "agent01", enums.RoleManager)

	req := &dto.CreateActorDTO{
		BasicInfoDTO: dto.BasicInfoDTO{RealName: strPtr("李雷"), Gender: strPtr("男"), Age: intPtr(25)},
		Professional: &dto.ProfessionalInfoDTO{Skills: &[]string{"武术", "骑马"}, Rank: strPtr("特约")},
		Contact:      &dto.ContactInfoDTO{SocialMedia: &map[string]string{"weibo": "@lilei"}},
	}
	got, err := svc.CreateActor(context.Background(), callerOf(manager), req)
	require.NoError(t, err)

	assert.Regexp(t, `^AC\d{8}[0-9A-F]{8}$`, got.ID)
	require.NotNil(t, got.Gender)
	assert.Equal(t, "male", *got.Gender)
	assert.Equal(t, []interface{}{"武术", "骑马"}, got.Skills)
	assert.Equal(t, map[string]interface{}{"weibo": "@lilei"}, got.SocialMedia)
	require.NotNil(t, got.CurrentRank)
	assert.Equal(t, "特约", *got.CurrentRank)

	require.NotNil(t, got.ContractInfo)
	require.NotNil(t, got.ContractInfo.AgentID)
	assert.Equal(t, manager.ID, *got.ContractInfo.AgentID)
	require.NotNil(t, got.ContractInfo.AgentName)
	assert.Equal(t, "agent01", *got.ContractInfo.AgentName)
}

func TestCreateActor_AdminAgentMustBeManager(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db, nil)
	admin := testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)

	req := &dto.CreateActorDTO{BasicInfoDTO: dto.BasicInfoDTO{RealName: strPtr("韩梅梅")}, AgentID: &admin.ID}
	_, err := svc.CreateActor(context.Background(), callerOf(admin), req)
	require.ErrorIs(t, err, commonerrors.ErrValidation)

	var n int64
	require.NoError(t, db.Model(&entities.Actor{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpsertContact_OnlyPhoneChanges(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db, nil)
	ctx := context.Background()

	manager := testutil.CreateUser(t, db, "agent01", enums.RoleManager)
	actor := testutil.CreateActor(t, db, "李雷", nil)
	testutil.AssignAgent(t, db, actor.ID, manager.ID)
	require.NoError(t, db.Model(&entities.ActorContactInfo{}).Where("actor_id = ?", actor.ID).
		Updates(map[string]interface{}{"wechat": "lilei_wx", "phone": "13800000000"}).Error)

	before, err := svc.GetActor(ctx, callerOf(manager), actor.ID)
	require.NoError(t, err)

	_, err = svc.UpdateContactInfo(ctx, callerOf(manager), actor.ID, &dto.ContactInfoDTO{Phone: strPtr("13911112222")})
	require.NoError(t, err)

	after, err := svc.GetActor(ctx, callerOf(manager), actor.ID)
	require.NoError(t, err)
	require.NotNil(t, after.Phone)
	assert.Equal(t, "13911112222", *after.Phone)

	after.Phone = before.Phone
	assert.Equal(t, before, after)
}

func TestUpdateSections_KeepPlainTextIntact(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db, nil)
	ctx := context.Background()
	admin := testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)
	actor := testutil.CreateActor(t, db, "李雷", nil)

	_, err := svc.UpdateBasicInfo(ctx, callerOf(admin), actor.ID, &dto.BasicInfoDTO{
		RealName:  strPtr("O'Brien"),
		StageName: strPtr("Tom & Jerry<script>x</script>"),
	})
	require.NoError(t, err)
	_, err = svc.UpdateContactInfo(ctx, callerOf(admin), actor.ID, &dto.ContactInfoDTO{Address: strPtr("Room <3>, A & B Rd")})
	require.NoError(t, err)

	got, err := svc.GetActor(ctx, callerOf(admin), actor.ID)
	require.NoError(t, err)
	assert.Equal(t, "O'Brien", got.RealName)
	require.NotNil(t, got.StageName)
	assert.Equal(t, "Tom & Jerry", *got.StageName)
	require.NotNil(t, got.Address)
	assert.Equal(t, "Room <3>, A & B Rd", *got.Address)
}

func TestUpsertSection_CreatesMissingRow(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db, nil)
	admin := testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)

	actor := &entities.Actor{ID: "AC20250101ABCDEF12", RealName: "王五", Status: enums.ActorStatusActive}
	require.NoError(t, db.Create(actor).Error)

	got, err := svc.UpdateContractInfo(context.Background(), callerOf(admin), actor.ID, &dto.ContractInfoDTO{
		ContractStartDate: strPtr("2025-01-01"),
		ContractEndDate:   strPtr("2026-01-01"),
		CommissionRate:    intPtr(20),
	})
	require.NoError(t, err)
	require.NotNil(t, got.ContractInfo)
	assert.Nil(t, got.ContractInfo.AgentID, "只更新签约条款不会分配经纪人")
	assert.Equal(t, "2025-01-01", *got.ContractInfo.ContractStartDate)
	assert.Equal(t, 20, *got.ContractInfo.CommissionRate)
}

func TestGetActor_RawStringFallback(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db, nil)
	admin := testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)
	actor := testutil.CreateActor(t, db, "李雷", nil)
	require.NoError(t, db.Model(&entities.ActorProfessionalInfo{}).Where("actor_id = ?", actor.ID).Update("skills", "唱歌,跳舞").Error)

	got, err := svc.GetActor(context.Background(), callerOf(admin), actor.ID)
	require.NoError(t, err)
	assert.Equal(t, "唱歌,跳舞", got.Skills)
	assert.Nil(t, got.ContractInfo)
}

func TestPermissions(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db, nil)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "lilei", enums.RolePerformer)
	other := testutil.CreateUser(t, db, "hanmeimei", enums.RolePerformer)
	otherManager := testutil.CreateUser(t, db, "agent02", enums.RoleManager)
	actor := testutil.CreateActor(t, db, "李雷", &owner.ID)

	_, err := svc.GetActor(ctx, callerOf(owner), actor.ID)
	assert.NoError(t, err)

	_, err = svc.UpdateBasicInfo(ctx, callerOf(other), actor.ID, &dto.BasicInfoDTO{Age: intPtr(30)})
	require.ErrorIs(t, err, commonerrors.ErrForbidden)
	assert.Equal(t, "您只能更新自己的演员信息", commonerrors.PublicMessage(err))

	_, err = svc.UpdateContractInfo(ctx, callerOf(owner), actor.ID, &dto.ContractInfoDTO{CommissionRate: intPtr(10)})
	assert.ErrorIs(t, err, commonerrors.ErrForbidden)

	_, err = svc.UpdateBasicInfo(ctx, callerOf(otherManager), actor.ID, &dto.BasicInfoDTO{Age: intPtr(30)})
	require.ErrorIs(t, err, commonerrors.ErrForbidden)
	assert.Equal(t, "您没有权限更新该演员的信息", commonerrors.PublicMessage(err))

	// 不存在的演员先返回 404
	_, err = svc.UpdateBasicInfo(ctx, callerOf(other), "AC00000000MISSING", &dto.BasicInfoDTO{Age: intPtr(30)})
	assert.ErrorIs(t, err, commonerrors.ErrNotFound)
}

func TestSelfUpdate_CreatesThenUpdates(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db, nil)
	ctx := context.Background()
	performer := testutil.CreateUser(t, db, "lilei", enums.RolePerformer)

	_, err := svc.GetMyActor(ctx, callerOf(performer))
	require.ErrorIs(t, err, commonerrors.ErrNotFound)

	_, err = svc.SelfUpdate(ctx, callerOf(performer), &dto.SelfUpdateDTO{BasicInfoDTO: dto.BasicInfoDTO{Age: intPtr(22)}})
	require.ErrorIs(t, err, commonerrors.ErrValidation, "首次创建必须提供真实姓名")

	created, err := svc.SelfUpdate(ctx, callerOf(performer), &dto.SelfUpdateDTO{
		BasicInfoDTO: dto.BasicInfoDTO{RealName: strPtr("李雷"), Gender: strPtr("Female")},
		Contact:      &dto.ContactInfoDTO{Wechat: strPtr("lilei_wx")},
	})
	require.NoError(t, err)
	require.NotNil(t, created.UserID)
	assert.Equal(t, performer.ID, *created.UserID)
	assert.Equal(t, "female", *created.Gender)

	updated, err := svc.SelfUpdate(ctx, callerOf(performer), &dto.SelfUpdateDTO{BasicInfoDTO: dto.BasicInfoDTO{Height: intPtr(175)}})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 175, *updated.Height)
	assert.Equal(t, "lilei_wx", *updated.Wechat)
}

func TestUpdateStatus_RecordsHistory(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newService(db, nil)
	ctx := context.Background()
	admin := testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)
	actor := testutil.CreateActor(t, db, "李雷", nil)

	got, err := svc.UpdateStatus(ctx, callerOf(admin), actor.ID, &dto.UpdateActorStatusDTO{Status: "suspended", Reason: strPtr("合同纠纷")})
	require.NoError(t, err)
	assert.Equal(t, "suspended", got.Status)

	_, err = svc.UpdateStatus(ctx, callerOf(admin), actor.ID, &dto.UpdateActorStatusDTO{Status: "deleted"})
	assert.ErrorIs(t, err, commonerrors.ErrValidation)

	history, err := svc.ListStatusHistory(ctx, callerOf(admin), actor.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "active", history[0].PreviousStatus)
	assert.Equal(t, "suspended", history[0].NewStatus)
	assert.Equal(t, admin.ID, history[0].ChangedBy)
}

func TestDeleteActor_SoftAndHard(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockObjectStorage(ctrl)
	svc := newService(db, storage)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, "admin01", enums.RoleAdmin)
	manager := testutil.CreateUser(t, db, "agent01", enums.RoleManager)
	actor := testutil.CreateActor(t, db, "李雷", nil)
	testutil.AssignAgent(t, db, actor.ID, manager.ID)

	thumb := "photo/" + actor.ID + "/thumb_a.jpg"
	require.NoError(t, db.Create(&entities.ActorMedia{
		ActorID: actor.ID, MediaType: enums.MediaPhoto, FileName: "a.jpg", FilePath: "http://x/a.jpg",
		FileSize: 10, ObjectName: "photo/" + actor.ID + "/a.jpg", ThumbnailObjectName: &thumb,
	}).Error)
	tag := &entities.Tag{Name: "古装"}
	require.NoError(t, db.Create(tag).Error)
	require.NoError(t, db.Create(&entities.ActorTag{ActorID: actor.ID, TagID: tag.ID}).Error)

	err := svc.DeleteActor(ctx, callerOf(manager), actor.ID, &dto.DeleteActorQuery{})
	assert.ErrorIs(t, err, commonerrors.ErrForbidden)

	// 软删除：保留数据，状态改为 deleted
	require.NoError(t, svc.DeleteActor(ctx, callerOf(admin), actor.ID, &dto.DeleteActorQuery{Reason: strPtr("解约")}))
	var soft entities.Actor
	require.NoError(t, db.First(&soft, "id = ?", actor.ID).Error)
	assert.Equal(t, enums.ActorStatusDeleted, soft.Status)
	assert.NotNil(t, soft.DeletedAt)
	assert.Equal(t, "解约", *soft.DeletionReason)

	// 物理删除：存储删除失败不影响数据库删除
	storage.EXPECT().DeleteObject(gomock.Any(), "photo/"+actor.ID+"/a.jpg").Return(errors.New("network down"))
	storage.EXPECT().DeleteObject(gomock.Any(), thumb).Return(nil)
	require.NoError(t, svc.DeleteActor(ctx, callerOf(admin), actor.ID, &dto.DeleteActorQuery{Permanent: true}))

	for _, model := range []interface{}{
		&entities.Actor{}, &entities.ActorProfessionalInfo{}, &entities.ActorContactInfo{},
		&entities.ActorContractInfo{}, &entities.ActorMedia{}, &entities.ActorTag{}, &entities.ActorStatusHistory{},
	} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		assert.Zero(t, n, "%T 应被清空", model)
	}
	var tags int64
	require.NoError(t, db.Model(&entities.Tag{}).Count(&tags).Error)
	assert.EqualValues(t, 1, tags, "标签本身保留")
}
