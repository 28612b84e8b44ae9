package model

import "strings"

type Phone struct {
	Phone string `json:"phone"`
	Label string `json:"label"`
}

type Contact struct {
	ContactID string  `json:"contact_id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Phones    []Phone `json:"phones"`
	Email     string  `json:"email"`
	Notes     string  `json:"notes"`
	Photo     string  `json:"photo,omitempty"`
}

type ContactInput struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Phones  []Phone `json:"phones"`
	Email   string  `json:"email"`
	Notes   string  `json:"notes"`
	Photo   string  `json:"photo,omitempty"`
}

// Validate drops blank phone rows and labels the rest.
func (in *ContactInput) Validate() error {
	if err := required("name", in.Name); err != nil {
		return err
	}
	phones := in.Phones[:0]
	for _, p := range in.Phones {
		p.Phone = strings.TrimSpace(p.Phone)
		if p.Phone == "" {
			continue
		}
		if p.Label == "" {
			p.Label = "mobile"
		}
		phones = append(phones, p)
	}
	in.Phones = phones
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		return invalid("email", "must be an email address")
	}
	return nil
}

// Matches reports whether the contact's name, email or any phone contains q.
func (c Contact) Matches(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Email), q) {
		return true
	}
	for _, p := range c.Phones {
		if strings.Contains(p.Phone, q) {
			return true
		}
	}
	return false
}
