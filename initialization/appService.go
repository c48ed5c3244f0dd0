package initialization

import (
	"github.com/Xushengqwer/actor_hub/repository/mysql"
	"github.com/Xushengqwer/actor_hub/repository/redis"
	"github.com/Xushengqwer/actor_hub/service/actorList"
	"github.com/Xushengqwer/actor_hub/service/agent"
	"github.com/Xushengqwer/actor_hub/service/auth"
	"github.com/Xushengqwer/actor_hub/service/invite"
	"github.com/Xushengqwer/actor_hub/service/media"
	"github.com/Xushengqwer/actor_hub/service/profile"
	"github.com/Xushengqwer/actor_hub/service/register"
	"github.com/Xushengqwer/actor_hub/service/tag"
	"github.com/Xushengqwer/actor_hub/service/userManage"
)

// AppServices 封装了应用所需的所有服务层实例。
type AppServices struct {
	Auth       auth.AuthService
	Register   register.RegisterService
	Invite     invite.InviteService
	Profile    profile.ProfileService
	ActorList  actorList.ActorListService
	Agent      agent.AgentService
	Media      media.MediaService
	Tag        tag.TagService
	UserManage userManage.UserManageService
}

// SetupServices 初始化所有仓库层和服务层实例。
func SetupServices(deps *AppDependencies) *AppServices {
	// 1. MySQL 仓库
	userRepo := mysql.NewUserRepository(deps.DB)
	actorRepo := mysql.NewActorRepository(deps.DB)
	profileRepo := mysql.NewProfileRepository(deps.DB)
	mediaRepo := mysql.NewMediaRepository(deps.DB)
	tagRepo := mysql.NewTagRepository(deps.DB)
	inviteRepo := mysql.NewInviteCodeRepository(deps.DB)
	joinQuery := mysql.NewJoinQuery(deps.DB)

	// 2. Redis 仓库
	blacklist := redis.NewTokenBlacklistRepo(deps.RedisClient)
	attempts := redis.NewLoginAttemptRepo(deps.RedisClient)

	// 3. 服务层，profile 与 actorList 被其他服务依赖，先初始化
	profileService := profile.NewProfileService(actorRepo, profileRepo, userRepo, mediaRepo, tagRepo, deps.Storage, deps.DB, deps.Logger)
	listService := actorList.NewActorListService(joinQuery, deps.Logger)

	processor := media.NewProcessor(deps.Config.MediaConfig, deps.Logger)

	return &AppServices{
		Auth:       auth.NewAuthService(userRepo, blacklist, attempts, deps.JwtToken, deps.DB, deps.Logger),
		Register:   register.NewRegisterService(userRepo, actorRepo, profileRepo, inviteRepo, deps.DB, deps.Logger),
		Invite:     invite.NewInviteService(inviteRepo, userRepo, deps.DB, deps.Logger),
		Profile:    profileService,
		ActorList:  listService,
		Agent:      agent.NewAgentService(actorRepo, profileRepo, userRepo, profileService, listService, deps.DB, deps.Logger),
		Media:      media.NewMediaService(mediaRepo, actorRepo, profileService, processor, deps.Storage, deps.Config.MediaConfig, deps.DB, deps.Logger),
		Tag:        tag.NewTagService(tagRepo, profileService, listService, deps.DB, deps.Logger),
		UserManage: userManage.NewUserManageService(userRepo, actorRepo, profileRepo, joinQuery, deps.DB, deps.Logger),
	}
}
