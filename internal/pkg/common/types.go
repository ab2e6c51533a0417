package common

// Role 使用者角色
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Viewer 呼叫者身分，用於關鍵字擁有權判斷
type Viewer struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// IsAdmin 是否為管理員
func (v Viewer) IsAdmin() bool {
	return v.Role == RoleAdmin
}

// CanAccess 管理員可存取所有資料，員工只能存取自己的
func (v Viewer) CanAccess(ownerID string) bool {
	return v.IsAdmin() || (v.UserID != "" && v.UserID == ownerID)
}
