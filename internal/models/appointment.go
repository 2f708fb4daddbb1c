package models

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// AppointmentType enumerates the kinds of appointments offered.
type AppointmentType string

const (
	AppointmentInterview   AppointmentType = "interview"
	AppointmentCoaching    AppointmentType = "coaching"
	AppointmentOrientation AppointmentType = "orientation"
)

// Appointment is a scheduled meeting between student and agency or company.
type Appointment struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Date   string            `json:"date"`
	Status AppointmentStatus `json:"status"`
	Type   AppointmentType   `json:"type"`
	Notes  string            `json:"notes,omitempty"`
}

// AppointmentsQuery filters and paginates the appointment list.
type AppointmentsQuery struct {
	Page     int
	PageSize int
	Status   AppointmentStatus
}

// CreateAppointmentPayload books a new appointment; it is always created in
// the scheduled state.
type CreateAppointmentPayload struct {
	Title string          `json:"title" validate:"required"`
	Date  string          `json:"date" validate:"required"`
	Type  AppointmentType `json:"type" validate:"required,oneof=interview coaching orientation"`
	Notes string          `json:"notes,omitempty"`
}
