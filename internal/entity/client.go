package entity

type Client struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	BusinessID string `json:"businessId"`
}

func (c Client) DisplayName() string {
	return nameOr(c.Name, UnknownClient)
}
