package domain

import (
	"encoding/json"
	"time"
)

// ExploriumCompany é uma linha da tabela explorium. Campos opcionais são ponteiros
// porque a fonte não garante nenhuma coluna além de business_id.
type ExploriumCompany struct {
	BusinessID           string   `json:"business_id"`
	Name                 *string  `json:"name"`
	Domain               *string  `json:"domain"`
	Website              *string  `json:"website"`
	BusinessDescription  *string  `json:"business_description"`
	CompanyDescription   *string  `json:"company_description"`
	Logo                 *string  `json:"logo"`
	Score                *float64 `json:"score"`
	Industry             *string  `json:"industry"`
	Region               *string  `json:"region"`
	CountryName          *string  `json:"country_name"`
	EmployeesRange       *string  `json:"number_of_employees_range"`
	CompanySize          *string  `json:"company_size"`
	FoundedYear          *int     `json:"founded_year"`
	MainProductsServices *string  `json:"main_products_services"`
	LinkedinURL          *string  `json:"linkedin-url"`
}

// ExploriumEventRow é uma linha crua da tabela explorium_events
type ExploriumEventRow struct {
	EventID   string
	EventName string
	EventTime time.Time
	Data      []byte // nil quando a coluna é NULL
	ExaID     string
}

type ExploriumEvent struct {
	EventID   string          `json:"event_id"`
	EventName string          `json:"event_name"`
	EventTime time.Time       `json:"event_time"`
	Data      json.RawMessage `json:"data"`
	DataError string          `json:"data_error,omitempty"`
	ExaID     string          `json:"exa_id"`
}
