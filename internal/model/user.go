package model

// Portal roles
const (
	RoleAdmin       = "ADMIN"
	RoleCoordinator = "COORDINADOR"
	RoleTeacher     = "DOCENTE"
)

// Roles every assignable role, in display order
var Roles = []string{RoleAdmin, RoleCoordinator, RoleTeacher}

// IsValidRole reports whether r is one of Roles
func IsValidRole(r string) bool {
	for _, role := range Roles {
		if role == r {
			return true
		}
	}
	return false
}

// User portal account (table users)
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string  `gorm:"type:varchar(50);not null"                      json:"username"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	FullName     string  `gorm:"type:varchar(200);not null;default:''"          json:"full_name"`
	Email        string  `gorm:"type:varchar(255);not null;default:''"          json:"email"`
	Role         string  `gorm:"type:varchar(20);not null"                      json:"role"`
	TeacherID    *string `gorm:"type:uuid"                                      json:"teacher_id,omitempty"` // DOCENTE accounts only
	VersionedModel

	Teacher *Teacher `gorm:"foreignKey:TeacherID;references:TeacherID" json:"teacher,omitempty"`
}

// TableName table name
func (User) TableName() string { return "users" }
