package model

import "regexp"

var hexColorRegexp = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// DefaultChildColor is the tag color used when none is chosen.
const DefaultChildColor = "#3B82F6"

type Child struct {
	ChildID     string `json:"child_id"`
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	Notes       string `json:"notes"`
	Photo       string `json:"photo,omitempty"`
	Color       string `json:"color,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type ChildInput struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	Notes       string `json:"notes"`
	Photo       string `json:"photo,omitempty"`
	Color       string `json:"color"`
}

func (in *ChildInput) Validate() error {
	if err := required("name", in.Name); err != nil {
		return err
	}
	if _, err := checkDate("date_of_birth", in.DateOfBirth); err != nil {
		return err
	}
	if in.Color == "" {
		in.Color = DefaultChildColor
	}
	if !hexColorRegexp.MatchString(in.Color) {
		return invalid("color", "must be a #RRGGBB color")
	}
	return nil
}

// ChildNames maps ids to names, using "Unknown" for ids with no match.
func ChildNames(children []Child, ids []string) []string {
	byID := make(map[string]string, len(children))
	for _, c := range children {
		byID[c.ChildID] = c.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name, ok := byID[id]
		if !ok {
			name = "Unknown"
		}
		names = append(names, name)
	}
	return names
}
