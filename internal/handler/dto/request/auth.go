package request

// RegisterUserRequest carries the messenger profile the bot backend relays.
type RegisterUserRequest struct {
	UserID    int64  `json:"user_id" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
}

type AdminLoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}
