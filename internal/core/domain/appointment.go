package domain

// AppointmentService is the kind of slot booked.
type AppointmentService string

const (
	ServiceVeterinary AppointmentService = "veterinary"
	ServiceGrooming   AppointmentService = "grooming"
)

// Appointment layouts for Date and Time.
const (
	AppointmentDateLayout = "2006-01-02"
	AppointmentTimeLayout = "15:04"
)

// Appointment is a booked slot (turno) for a pet.
type Appointment struct {
	ID      string             `json:"id"`
	Service AppointmentService `json:"service"`
	Date    string             `json:"date"`
	Time    string             `json:"time"`
	Pet     string             `json:"pet"`
	Owner   string             `json:"owner"`
}
