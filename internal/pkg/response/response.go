package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KeaPin/gameshare/internal/pkg/apperr"
)

// Response Standard API Response
type Response struct {
	Code int         `json:"code"`
	Data interface{} `json:"data,omitempty"`
	Msg  string      `json:"msg,omitempty"`
}

// Success Success response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: apperr.CodeSuccess,
		Data: data,
		Msg:  "success",
	})
}

// SuccessWithMsg Success with message
func SuccessWithMsg(c *gin.Context, data interface{}, msg string) {
	c.JSON(http.StatusOK, Response{
		Code: apperr.CodeSuccess,
		Data: data,
		Msg:  msg,
	})
}

// Fail Fail response with error
func Fail(c *gin.Context, err error) {
	if ae, ok := err.(*apperr.AppError); ok {
		c.JSON(http.StatusOK, Response{
			Code: ae.Code,
			Msg:  ae.Message,
		})
		return
	}
	c.JSON(http.StatusOK, Response{
		Code: apperr.CodeInternalError,
		Msg:  err.Error(),
	})
}

// FailWithCode Fail with specific code
func FailWithCode(c *gin.Context, code int, msg string) {
	c.JSON(http.StatusOK, Response{
		Code: code,
		Msg:  msg,
	})
}

// BadRequest Bad request response
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{
		Code: apperr.CodeBadRequest,
		Msg:  msg,
	})
}

// Unauthorized Unauthorized response
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Response{
		Code: apperr.CodeUnauthorized,
		Msg:  msg,
	})
}

// NotFound Not found response
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{
		Code: apperr.CodeNotFound,
		Msg:  msg,
	})
}

// InternalError Internal server error response
func InternalError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, Response{
		Code: apperr.CodeInternalError,
		Msg:  msg,
	})
}

// SeedResult 种子/连通性测试端点的响应体，保持 {success, message, ...} 形状
type SeedResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SeedOK 种子端点成功响应
func SeedOK(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, SeedResult{Success: true, Message: msg, Data: data})
}

// SeedBadRequest 种子端点参数错误
func SeedBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, SeedResult{Success: false, Message: msg})
}

// SeedError 种子端点服务错误
func SeedError(c *gin.Context, msg string, err error) {
	c.JSON(http.StatusInternalServerError, SeedResult{Success: false, Message: msg, Error: err.Error()})
}
