package models

import (
	"strings"
)

// Address is the postal address of a directory user.
type Address struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	StateCode  string `json:"stateCode"`
	PostalCode string `json:"postalCode"`
}

// UserRecord is a directory user as delivered by the upstream users API.
// Only the fields read by the directory view are decoded.
type UserRecord struct {
	ID         int     `json:"id"`
	FirstName  string  `json:"firstName"`
	MaidenName string  `json:"maidenName"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Gender     string  `json:"gender"`
	Age        int     `json:"age"`
	Image      string  `json:"image"`
	Address    Address `json:"address"`
}

// FullName joins given, maiden and family name with single spaces.
// Empty parts are skipped so the result never holds double spaces.
func (u UserRecord) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.FirstName, u.MaidenName, u.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

type Bank struct {
	CardExpire string `json:"cardExpire"`
	CardNumber string `json:"cardNumber"`
	CardType   string `json:"cardType"`
	Currency   string `json:"currency"`
	IBAN       string `json:"iban"`
}

type Company struct {
	Department string  `json:"department"`
	Name       string  `json:"name"`
	Title      string  `json:"title"`
	Address    Address `json:"address"`
}

// UserDetail is the full record behind the per-user detail view.
type UserDetail struct {
	UserRecord
	Username   string  `json:"username"`
	BirthDate  string  `json:"birthDate"`
	BloodGroup string  `json:"bloodGroup"`
	University string  `json:"university"`
	Bank       Bank    `json:"bank"`
	Company    Company `json:"company"`
}

// Detail view tabs
const (
	SectionGeneral = "general"
	SectionBank    = "bank"
	SectionCompany = "company"
)

// DetailSections lists the detail view tabs in display order
var DetailSections = []string{SectionGeneral, SectionBank, SectionCompany}

// IsValidSection reports whether name is one of the detail view tabs
func IsValidSection(name string) bool {
	for _, s := range DetailSections {
		if s == name {
			return true
		}
	}
	return false
}
