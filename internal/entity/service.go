package entity

// Service is a bookable treatment from the salon menu.
type Service struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	BusinessID string `json:"businessId"`
}

func (s Service) DisplayName() string {
	return nameOr(s.Name, UnknownService)
}
