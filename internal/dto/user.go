package dto

// UserListRequest user list filters
type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"    binding:"omitempty,oneof=ADMIN COORDINADOR DOCENTE"`
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// CreateUserRequest new portal user
type CreateUserRequest struct {
	Username  string  `json:"username"   binding:"required,min=3,max=50"`
	Password  string  `json:"password"   binding:"required,min=8,max=72"`
	FullName  string  `json:"full_name"  binding:"omitempty,max=200"`
	Email     string  `json:"email"      binding:"omitempty,email"`
	Role      string  `json:"role"       binding:"required,oneof=ADMIN COORDINADOR DOCENTE"`
	TeacherID *string `json:"teacher_id" binding:"omitempty,uuid"`
}

// UpdateUserRequest partial user update; Password resets the credential when set
type UpdateUserRequest struct {
	Username  *string `json:"username"   binding:"omitempty,min=3,max=50"`
	Password  *string `json:"password"   binding:"omitempty,min=8,max=72"`
	FullName  *string `json:"full_name"  binding:"omitempty,max=200"`
	Email     *string `json:"email"      binding:"omitempty,email"`
	Role      *string `json:"role"       binding:"omitempty,oneof=ADMIN COORDINADOR DOCENTE"`
	TeacherID *string `json:"teacher_id" binding:"omitempty,uuid"`
}
