package model

// QuestionPaper 试卷表 — 对应 question_papers
type QuestionPaper struct {
	ID         uint   `gorm:"primaryKey"                 json:"id"`
	Title      string `gorm:"type:varchar(200);not null" json:"title"`
	Subject    string `gorm:"type:varchar(100);not null" json:"subject"`
	Year       int    `gorm:"not null"                   json:"year"`
	Semester   int    `gorm:"not null"                   json:"semester"`
	Filename   string `gorm:"type:varchar(255);not null" json:"filename"`
	FilePath   string `gorm:"type:varchar(500);not null" json:"-"`
	CourseID   uint   `gorm:"not null"                   json:"course_id"`
	UploadedBy uint   `gorm:"not null"                   json:"uploaded_by"`
	BaseModel

	// 关联
	Course   *Course `gorm:"foreignKey:CourseID;references:ID"   json:"course,omitempty"`
	Uploader *User   `gorm:"foreignKey:UploadedBy;references:ID" json:"uploader,omitempty"`
}

// TableName 指定表名
func (QuestionPaper) TableName() string { return "question_papers" }
