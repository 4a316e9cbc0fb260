package handler

import (
	"github.com/huellitas/vetrecords/internal/core/clinical"
	"github.com/huellitas/vetrecords/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Session ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token    string      `json:"token,omitempty"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// --- Users ---

type createUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role"     validate:"required,oneof=administrator veterinarian staff"`
}

type updateUserRequest struct {
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role"     validate:"required,oneof=administrator veterinarian staff"`
}

// --- Pets ---

type petRequest struct {
	Name      string `json:"name"       validate:"required"`
	Species   string `json:"species"    validate:"required"`
	Breed     string `json:"breed"`
	BirthYear int    `json:"birth_year" validate:"omitempty,gte=1900,lte=2100"`
	Owner     string `json:"owner"`
}

func (r petRequest) profile() domain.PetProfile {
	return domain.PetProfile{
		Name:      r.Name,
		Species:   r.Species,
		Breed:     r.Breed,
		BirthYear: r.BirthYear,
		Owner:     r.Owner,
	}
}

type visitRequest struct {
	Veterinarian  string `json:"veterinarian"`
	ConsultReason string `json:"consult_reason"`
	Observations  string `json:"observations"`
}

func (r visitRequest) visit() clinical.Visit {
	return clinical.Visit{
		Veterinarian:  r.Veterinarian,
		ConsultReason: r.ConsultReason,
		Observations:  r.Observations,
	}
}

// historyResponse carries both renderings of a clinical record: the flat
// text shown to staff and the dated entries it was built from.
type historyResponse struct {
	PetID   string          `json:"pet_id"`
	Name    string          `json:"name"`
	Visits  int             `json:"visits"`
	Text    clinical.Text   `json:"text"`
	Entries clinical.Record `json:"entries"`
}

func toHistoryResponse(p *domain.Pet) historyResponse {
	return historyResponse{
		PetID:   p.ID,
		Name:    p.Name,
		Visits:  p.History.Visits(),
		Text:    p.History.Text(),
		Entries: p.History,
	}
}

// --- Products ---

type productRequest struct {
	Name     string  `json:"name"     validate:"required"`
	Price    float64 `json:"price"    validate:"gte=0"`
	Stock    int     `json:"stock"    validate:"gte=0"`
	Category string  `json:"category"`
}

func (r productRequest) product(id string) domain.Product {
	return domain.Product{ID: id, Name: r.Name, Price: r.Price, Stock: r.Stock, Category: r.Category}
}

// --- Appointments ---

type appointmentRequest struct {
	Service string `json:"service" validate:"required,oneof=veterinary grooming"`
	Date    string `json:"date"    validate:"required,datetime=2006-01-02"`
	Time    string `json:"time"    validate:"required,datetime=15:04"`
	Pet     string `json:"pet"     validate:"required"`
	Owner   string `json:"owner"`
}

func (r appointmentRequest) appointment(id string) domain.Appointment {
	return domain.Appointment{
		ID:      id,
		Service: domain.AppointmentService(r.Service),
		Date:    r.Date,
		Time:    r.Time,
		Pet:     r.Pet,
		Owner:   r.Owner,
	}
}
