package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/apper-canvas/study-primary-pixel/pkg/errors"
	"github.com/apper-canvas/study-primary-pixel/pkg/response"
)

// MustGetIDParam 从路径参数中解析正整数 ID。
// 解析失败时写入 400 响应并返回 false，调用方应直接 return。
func MustGetIDParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "ID 必须为正整数")
		return 0, false
	}
	return id, true
}

// handleInfraError 处理非业务错误：远程记录服务拒绝写入时返回 502，其余一律 500
func handleInfraError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrRemoteRejected) {
		response.BadGateway(c, 50002, "远程记录服务拒绝了请求")
		return
	}
	response.InternalError(c)
}
