package entity

// DefaultViewCount is assumed for promotions without tracked views.
const DefaultViewCount = 100

// Promotion is a marketing offer redeemed through Appointment.PromoID.
type Promotion struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Code       string `json:"code"`
	ViewCount  int    `json:"viewCount"`
	BusinessID string `json:"businessId"`
}

func (p Promotion) DisplayName() string {
	return nameOr(p.Name, UnknownPromotion)
}

// Views returns the tracked view count, or DefaultViewCount when none was recorded.
func (p Promotion) Views() int {
	if p.ViewCount <= 0 {
		return DefaultViewCount
	}
	return p.ViewCount
}
