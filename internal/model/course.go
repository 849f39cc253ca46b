package model

// Course 课程表 — 对应 courses
type Course struct {
	ID   uint   `gorm:"primaryKey"                 json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
	Code string `gorm:"type:varchar(20);not null"  json:"code"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }
