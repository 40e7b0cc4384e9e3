package model

// Cabin represents a bookable treatment room within a clinic.
type Cabin struct {
	ID       int64  `json:"id" yaml:"id"`
	Code     string `json:"code" yaml:"code"`
	Name     string `json:"name" yaml:"name"`
	Color    string `json:"color" yaml:"color"`
	IsActive bool   `json:"is_active" yaml:"is_active"`
	Order    int    `json:"order" yaml:"order"`
}
