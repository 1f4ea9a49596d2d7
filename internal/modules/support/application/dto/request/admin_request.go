package request

// AdminLoginRequest 管理端登录请求体
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// IngestRequest 手册入库请求体；Dir 为空时使用配置的手册目录
type IngestRequest struct {
	Dir string `json:"dir"`
}
