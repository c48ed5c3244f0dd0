package docs

// 这个文件定义了专门用于 Swagger 文档注解的类型。
// swaggo/swag 不能直接解析泛型类型（如 response.APIResponse[T]），
// 控制器注解中用到的每个具体实例化都在这里有一个非泛型包装器。

import (
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/response"
)

// --- 认证与账户 ---

// SwaggerAPILoginResponse 包装了 response.APIResponse[vo.LoginVO]
// 用于 AuthController.LoginHandler, AuthController.LoginJSONHandler
type SwaggerAPILoginResponse struct {
	response.APIResponse[vo.LoginVO]
}

// SwaggerAPIRegisterVOResponse 包装了 response.APIResponse[vo.RegisterVO]
// 用于 RegisterController 的三个注册接口
type SwaggerAPIRegisterVOResponse struct {
	response.APIResponse[vo.RegisterVO]
}

// SwaggerAPIUserVOResponse 包装了 response.APIResponse[vo.UserVO]
type SwaggerAPIUserVOResponse struct {
	response.APIResponse[vo.UserVO]
}

// SwaggerAPIUserListVOResponse 包装了 response.APIResponse[vo.UserListVO]
type SwaggerAPIUserListVOResponse struct {
	response.APIResponse[vo.UserListVO]
}

// SwaggerAPIEmptyResponse 包装了 response.APIResponse[vo.Empty] (成功但无数据返回)
type SwaggerAPIEmptyResponse struct {
	response.APIResponse[vo.Empty]
}

// --- 邀请码 ---

type SwaggerAPIInviteCodeResponse struct {
	response.APIResponse[vo.InviteCodeVO]
}

type SwaggerAPIInviteCodeListResponse struct {
	response.APIResponse[[]*vo.InviteCodeVO]
}

type SwaggerAPIInviteVerifyResponse struct {
	response.APIResponse[vo.InviteVerifyVO]
}

// --- 演员档案 ---

// SwaggerAPIActorVOResponse 包装了 response.APIResponse[vo.ActorVO]
// 用于演员详情及各分区更新接口
type SwaggerAPIActorVOResponse struct {
	response.APIResponse[vo.ActorVO]
}

// SwaggerAPIActorListVOResponse 包装了 response.APIResponse[vo.ActorListVO]
// 用于演员列表、无经纪人演员列表、经纪人名下演员以及按标签搜索
type SwaggerAPIActorListVOResponse struct {
	response.APIResponse[vo.ActorListVO]
}

type SwaggerAPIStatusHistoryListResponse struct {
	response.APIResponse[[]*vo.StatusHistoryVO]
}

type SwaggerAPIContractInfoVOResponse struct {
	response.APIResponse[vo.ContractInfoVO]
}

// --- 媒体 ---

type SwaggerAPIUploadResultResponse struct {
	response.APIResponse[vo.UploadResultVO]
}

type SwaggerAPIActorMediaResponse struct {
	response.APIResponse[vo.ActorMediaVO]
}

// --- 标签 ---

type SwaggerAPITagVOResponse struct {
	response.APIResponse[vo.TagVO]
}

type SwaggerAPITagListResponse struct {
	response.APIResponse[[]*vo.TagVO]
}

type SwaggerAPITagCountListResponse struct {
	response.APIResponse[[]*vo.TagCountVO]
}

type SwaggerAPIActorTagsResponse struct {
	response.APIResponse[vo.ActorTagsVO]
}

// --- 失败响应包装类型 ---

// SwaggerAPIErrorResponseString 包装了 response.APIResponse[string]
type SwaggerAPIErrorResponseString struct {
	response.APIResponse[string]
}
