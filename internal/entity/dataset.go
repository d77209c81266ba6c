package entity

const (
	UnknownStaff     = "Unknown Staff"
	UnknownClient    = "Unknown Client"
	UnknownService   = "Unknown Service"
	UnknownProduct   = "Unknown Product"
	UnknownPromotion = "Unknown Promotion"
)

// Dataset is an immutable snapshot of every record collection the dashboard reads.
type Dataset struct {
	Version      string        `json:"version"`
	Appointments []Appointment `json:"appointments"`
	Staff        []StaffMember `json:"staff"`
	Clients      []Client      `json:"clients"`
	Products     []Product     `json:"products"`
	Promotions   []Promotion   `json:"promotions"`
	Services     []Service     `json:"services"`
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
