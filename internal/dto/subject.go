package dto

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	Name     string `json:"name" validate:"required"`
	Code     string `json:"code" validate:"required"`
	Semester int    `json:"semester" validate:"required,gte=1,lte=8"`
}

// UpdateSubjectRequest is the payload for updating a subject.
type UpdateSubjectRequest struct {
	Name     string `json:"name" validate:"required"`
	Code     string `json:"code" validate:"required"`
	Semester int    `json:"semester" validate:"required,gte=1,lte=8"`
}

// AssignTeacherRequest binds a teacher to a subject.
type AssignTeacherRequest struct {
	TeacherID string `json:"teacher_id" validate:"required"`
}
