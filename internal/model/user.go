package model

// User 用户模型
type User struct {
	ID       int64   `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	UserName string  `gorm:"size:255;not null;uniqueIndex;comment:用户名" json:"user_name"`
	Password string  `gorm:"size:255;not null;comment:密码" json:"-"` // json:"-" 序列化时忽略密码
	Handle   *string `gorm:"size:255;comment:展示昵称" json:"handle"`
	Avatar   *string `gorm:"size:500;comment:用户头像" json:"avatar"`
	UserRole string  `gorm:"size:256;not null;default:'user';comment:用户角色" json:"user_role"`
	IsDelete int64   `gorm:"not null;default:0;comment:删除标识" json:"-"`

	// 关联关系
	Posts    []Post    `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
	Comments []Comment `gorm:"foreignKey:AuthorID" json:"comments,omitempty"`
}

func (User) TableName() string {
	return "users"
}
