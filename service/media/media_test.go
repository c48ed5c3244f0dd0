package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/config"
	"github.com/Xushengqwer/actor_hub/dependencies/mocks"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/repository/mysql"
	"github.com/Xushengqwer/actor_hub/service/guard"
	"github.com/Xushengqwer/actor_hub/service/profile"
	"github.com/Xushengqwer/actor_hub/testutil"
)

type fixture struct {
	db      *gorm.DB
	storage *mocks.MockObjectStorage
	svc     MediaService
	tempDir string
}

func newFixture(t *testing.T, cfg config.MediaConfig) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	storage := mocks.NewMockObjectStorage(gomock.NewController(t))
	storage.EXPECT().Bucket().Return("actor-media").AnyTimes()

	logger := testutil.NewLogger()
	actorRepo := mysql.NewActorRepository(db)
	mediaRepo := mysql.NewMediaRepository(db)
	profiles := profile.NewProfileService(actorRepo, mysql.NewProfileRepository(db), mysql.NewUserRepository(db),
		mediaRepo, mysql.NewTagRepository(db), storage, db, logger)

	cfg.TempDir = t.TempDir()
	cfg.FFmpegPath = "ffmpeg-not-installed-for-tests"
	svc := NewMediaService(mediaRepo, actorRepo, profiles, NewProcessor(cfg, logger), storage, cfg, db, logger)
	return &fixture{db: db, storage: storage, svc: svc, tempDir: cfg.TempDir}
}

// expectUploads 记录上传的对象键，并按键返回公开 URL
func (f *fixture) expectUploads(times int, keys *[]string) {
	f.storage.EXPECT().
		UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Times(times).
		DoAndReturn(func(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
			_, _ = io.Copy(io.Discard, r)
			*keys = append(*keys, key)
			return "http://cdn.example.com/" + key, nil
		})
}

func pngFile(t *testing.T, name string) dto.UploadFile {
	t.Helper()
	img := imaging.New(64, 48, color.NRGBA{R: 200, A: 128})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return memFile(name, buf.Bytes())
}

func memFile(name string, data []byte) dto.UploadFile {
	return dto.UploadFile{
		FileName: name,
		Size:     int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func admin() guard.Caller { return guard.Caller{UserID: 1, Role: enums.RoleAdmin} }

func TestUploadAvatar_ReplacesPrevious(t *testing.T) {
	f := newFixture(t, config.MediaConfig{})
	ctx := context.Background()
	actor := testutil.CreateActor(t, f.db, "李雷", nil)

	var keys []string
	f.expectUploads(4, &keys)

	first, err := f.svc.Upload(ctx, admin(), &dto.UploadRequest{ActorID: actor.ID, Kind: enums.MediaAvatar, Files: []dto.UploadFile{pngFile(t, "a.png")}})
	require.NoError(t, err)
	require.Len(t, first.Uploaded, 1)
	assert.Equal(t, "image/jpeg", first.Uploaded[0].MimeType)
	assert.True(t, strings.HasPrefix(keys[0], "avatars/"+actor.ID+"/"))
	assert.True(t, strings.HasSuffix(keys[0], ".jpg"))
	assert.True(t, strings.HasPrefix(keys[1], "thumbnails/"+actor.ID+"/thumb_"))

	// 第二次上传后旧头像的对象被删除
	f.storage.EXPECT().DeleteObject(gomock.Any(), keys[0]).Return(nil)
	f.storage.EXPECT().DeleteObject(gomock.Any(), keys[1]).Return(errors.New("timeout"))

	second, err := f.svc.Upload(ctx, admin(), &dto.UploadRequest{ActorID: actor.ID, Kind: enums.MediaAvatar, Files: []dto.UploadFile{pngFile(t, "b.png")}})
	require.NoError(t, err)

	var avatars []entities.ActorMedia
	require.NoError(t, f.db.Where("actor_id = ? AND media_type = ?", actor.ID, enums.MediaAvatar).Find(&avatars).Error)
	require.Len(t, avatars, 1)
	assert.Equal(t, second.Uploaded[0].ID, avatars[0].ID)

	var stored entities.Actor
	require.NoError(t, f.db.First(&stored, "id = ?", actor.ID).Error)
	require.NotNil(t, stored.AvatarURL)
	assert.Equal(t, "http://cdn.example.com/"+keys[2], *stored.AvatarURL)

	entries, err := os.ReadDir(f.tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "临时文件应被清理")
}

func TestUploadPhotos_QuotaRejectsWholeBatch(t *testing.T) {
	f := newFixture(t, config.MediaConfig{MaxPhotos: 2})
	ctx := context.Background()
	actor := testutil.CreateActor(t, f.db, "李雷", nil)
	require.NoError(t, f.db.Create(&entities.ActorMedia{
		ActorID: actor.ID, MediaType: enums.MediaPhoto, FileName: "old.jpg", FilePath: "http://x/old.jpg", FileSize: 1,
	}).Error)

	_, err := f.svc.Upload(ctx, admin(), &dto.UploadRequest{
		ActorID: actor.ID,
		Kind:    enums.MediaPhoto,
		Files:   []dto.UploadFile{pngFile(t, "1.png"), pngFile(t, "2.png")},
	})
	require.ErrorIs(t, err, commonerrors.ErrValidation)
	assert.Contains(t, commonerrors.PublicMessage(err), "最多允许2张照片")

	var n int64
	require.NoError(t, f.db.Model(&entities.ActorMedia{}).Where("actor_id = ?", actor.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestUploadPhotos_PartialFailure(t *testing.T) {
	f := newFixture(t, config.MediaConfig{})
	ctx := context.Background()
	actor := testutil.CreateActor(t, f.db, "李雷", nil)

	var keys []string
	f.expectUploads(2, &keys)
	album := "剧照"
	res, err := f.svc.Upload(ctx, admin(), &dto.UploadRequest{
		ActorID:     actor.ID,
		Kind:        enums.MediaPhoto,
		Description: &album,
		Files:       []dto.UploadFile{pngFile(t, "ok.png"), memFile("notes.txt", []byte("hello world"))},
	})
	require.NoError(t, err)
	require.Len(t, res.Uploaded, 1)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "notes.txt", res.Failed[0].FileName)
	assert.True(t, strings.HasPrefix(keys[0], "photos/"+actor.ID+"/剧照/"))
	assert.Equal(t, "剧照", *res.Uploaded[0].Description)
	entries, err := os.ReadDir(f.tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "部分失败后临时文件应被清理")

	_, err = f.svc.Upload(ctx, admin(), &dto.UploadRequest{
		ActorID: actor.ID,
		Kind:    enums.MediaPhoto,
		Files: []dto.UploadFile{
			memFile("a.txt", []byte("x")),
			memFile("b.txt", []byte("y")),
			memFile("broken.png", []byte("\x89PNG\r\n\x1a\nnot really a png")),
		},
	})
	require.ErrorIs(t, err, commonerrors.ErrValidation)
	assert.Equal(t, "没有成功上传的照片", commonerrors.PublicMessage(err))

	// 失败路径同样不能留下临时文件
	entries, err = os.ReadDir(f.tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadVideo_PlaceholderThumbnail(t *testing.T) {
	f := newFixture(t, config.MediaConfig{})
	ctx := context.Background()
	actor := testutil.CreateActor(t, f.db, "李雷", nil)

	var thumb []byte
	f.storage.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), "video/mp4").Return("http://cdn/v.mp4", nil)
	f.storage.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), "image/jpeg").
		DoAndReturn(func(_ context.Context, _ string, r io.Reader, _ int64, _ string) (string, error) {
			thumb, _ = io.ReadAll(r)
			return "http://cdn/v_thumb.jpg", nil
		})

	res, err := f.svc.Upload(ctx, admin(), &dto.UploadRequest{
		ActorID: actor.ID,
		Kind:    enums.MediaVideo,
		Files:   []dto.UploadFile{memFile("clip.mp4", bytes.Repeat([]byte{0x01, 0x02, 0x03}, 100))},
	})
	require.NoError(t, err)
	require.Len(t, res.Uploaded, 1)
	assert.Equal(t, "video/mp4", res.Uploaded[0].MimeType)

	img, _, err := image.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, 480, img.Bounds().Dx())
	assert.Equal(t, 270, img.Bounds().Dy())
}

func TestUpload_StorageFailure(t *testing.T) {
	f := newFixture(t, config.MediaConfig{})
	actor := testutil.CreateActor(t, f.db, "李雷", nil)
	f.storage.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("cos down"))

	_, err := f.svc.Upload(context.Background(), admin(), &dto.UploadRequest{
		ActorID: actor.ID, Kind: enums.MediaAvatar, Files: []dto.UploadFile{pngFile(t, "a.png")},
	})
	require.ErrorIs(t, err, commonerrors.ErrStorage)

	var n int64
	require.NoError(t, f.db.Model(&entities.ActorMedia{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSelfMediaAndDelete(t *testing.T) {
	f := newFixture(t, config.MediaConfig{})
	ctx := context.Background()

	performer := testutil.CreateUser(t, f.db, "lilei", enums.RolePerformer)
	manager := testutil.CreateUser(t, f.db, "agent01", enums.RoleManager)
	own := testutil.CreateActor(t, f.db, "李雷", &performer.ID)
	other := testutil.CreateActor(t, f.db, "王五", nil)
	self := guard.Caller{UserID: performer.ID, Role: enums.RolePerformer}

	_, err := f.svc.ListSelf(ctx, guard.Caller{UserID: manager.ID, Role: enums.RoleManager}, "")
	assert.ErrorIs(t, err, commonerrors.ErrForbidden)

	var keys []string
	f.expectUploads(2, &keys)
	res, err := f.svc.UploadSelf(ctx, self, &dto.UploadRequest{ActorID: other.ID, Kind: enums.MediaPhoto, Files: []dto.UploadFile{pngFile(t, "me.png")}})
	require.NoError(t, err)
	assert.Equal(t, own.ID, res.Uploaded[0].ActorID, "路径中的演员编号被忽略")

	grouped, err := f.svc.ListSelf(ctx, self, "")
	require.NoError(t, err)
	assert.Nil(t, grouped.Avatar)
	assert.Len(t, grouped.Photos, 1)
	assert.Empty(t, grouped.Videos)

	mediaID := res.Uploaded[0].ID
	err = f.svc.Delete(ctx, admin(), other.ID, mediaID)
	assert.ErrorIs(t, err, commonerrors.ErrNotFound, "媒体不属于该演员")

	f.storage.EXPECT().DeleteObject(gomock.Any(), keys[0]).Return(nil)
	f.storage.EXPECT().DeleteObject(gomock.Any(), keys[1]).Return(nil)
	require.NoError(t, f.svc.DeleteSelf(ctx, self, mediaID))

	err = f.svc.DeleteSelf(ctx, self, mediaID)
	assert.ErrorIs(t, err, commonerrors.ErrNotFound)
}

func TestDetectContentType_ExtensionFallback(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		p := dir + "/" + name
		require.NoError(t, os.WriteFile(p, data, 0o600))
		return p
	}

	ct, err := detectContentType(write("raw.heic", []byte{0x00, 0x01, 0x02, 0x03}), "photo.HEIC", enums.MediaPhoto)
	require.NoError(t, err)
	assert.Equal(t, "image/heic", ct)

	_, err = detectContentType(write("fake.png", []byte("plain text pretending")), "fake.png", enums.MediaPhoto)
	assert.ErrorIs(t, err, commonerrors.ErrValidation, "内容能识别时不再看扩展名")

	_, err = detectContentType(write("clip.mov", []byte{0x00, 0x01}), "clip.mov", enums.MediaPhoto)
	assert.ErrorIs(t, err, commonerrors.ErrValidation)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "photos/AC1/a.jpg", objectKey("photos", "AC1", "", "a.jpg"))
	assert.Equal(t, "photos/AC1/写真/a.jpg", objectKey("photos", "AC1", albumPath(strPtr(" 写真 ")), "a.jpg"))
	assert.Equal(t, "photos/AC1/a_b/a.jpg", objectKey("photos", "AC1", albumPath(strPtr("a/b")), "a.jpg"))
}

func strPtr(s string) *string { return &s }
