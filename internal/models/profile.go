package models

// EducationLevel enumerates accepted education levels.
type EducationLevel string

const (
	EducationHighSchool EducationLevel = "high_school"
	EducationBachelor   EducationLevel = "bachelor"
	EducationMaster     EducationLevel = "master"
	EducationOther      EducationLevel = "other"
)

// StudentProfile is the full placement profile of a student.
type StudentProfile struct {
	ID                   string         `json:"id,omitempty"`
	FirstName            string         `json:"firstName"`
	LastName             string         `json:"lastName"`
	Email                string         `json:"email"`
	AvatarURL            string         `json:"avatarUrl,omitempty"`
	Phone                string         `json:"phone"`
	EducationLevel       EducationLevel `json:"educationLevel"`
	FieldOfStudy         string         `json:"fieldOfStudy"`
	GraduationYear       string         `json:"graduationYear"`
	PreferredCountry     string         `json:"preferredCountry"`
	PreferredIndustry    string         `json:"preferredIndustry"`
	Languages            string         `json:"languages"`
	HousingSupportNeeded bool           `json:"housingSupportNeeded"`
	Bio                  string         `json:"bio"`
	ResumeFileName       string         `json:"resumeFileName,omitempty"`
	ResumeURL            string         `json:"resumeUrl,omitempty"`
	ResumeUploadedAt     string         `json:"resumeUploadedAt,omitempty"`
	Completion           int            `json:"completion"`
}

// ProfilePayload is the update payload; completion is always recomputed
// server-side and never accepted from the caller.
type ProfilePayload struct {
	FirstName            string         `json:"firstName" validate:"required"`
	LastName             string         `json:"lastName" validate:"required"`
	Email                string         `json:"email" validate:"required,email"`
	AvatarURL            string         `json:"avatarUrl,omitempty"`
	Phone                string         `json:"phone"`
	EducationLevel       EducationLevel `json:"educationLevel" validate:"omitempty,oneof=high_school bachelor master other"`
	FieldOfStudy         string         `json:"fieldOfStudy"`
	GraduationYear       string         `json:"graduationYear"`
	PreferredCountry     string         `json:"preferredCountry"`
	PreferredIndustry    string         `json:"preferredIndustry"`
	Languages            string         `json:"languages"`
	HousingSupportNeeded bool           `json:"housingSupportNeeded"`
	Bio                  string         `json:"bio"`
	ResumeFileName       string         `json:"resumeFileName,omitempty"`
	ResumeURL            string         `json:"resumeUrl,omitempty"`
	ResumeUploadedAt     string         `json:"resumeUploadedAt,omitempty"`
}
