package model

// User 用户表 — 对应 users
type User struct {
	ID           uint   `gorm:"primaryKey"                  json:"id"`
	Username     string `gorm:"type:varchar(80);not null"   json:"username"`
	Email        string `gorm:"type:varchar(120);not null"  json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"  json:"-"`
	IsAdmin      bool   `gorm:"not null;default:false"      json:"is_admin"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
