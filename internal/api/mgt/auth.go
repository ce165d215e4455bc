package mgt

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/KeaPin/gameshare/internal/core/config"
	"github.com/KeaPin/gameshare/internal/middleware"
	"github.com/KeaPin/gameshare/internal/pkg/response"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string `json:"token"`
}

// Login POST /api/mgt/login
// 管理员账号配置在 config 里，密码存 bcrypt 哈希
func Login(c *gin.Context, admin *config.AdminConfig, jwtCfg *config.JWTConfig) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if req.Username != admin.Username {
		response.FailWithCode(c, 401, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		response.FailWithCode(c, 401, "invalid credentials")
		return
	}

	token, err := middleware.GenerateToken(req.Username, jwtCfg)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, LoginResponse{Token: token})
}
