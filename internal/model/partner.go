package model

import "time"

// Partner is a business whose customers and loans the console manages.
// Partners are read-only from the console.
type Partner struct {
	ID          int64     `json:"id"`
	CompanyName string    `json:"company_name"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
}
