package model

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggled returns the opposite theme. Unknown values toggle to dark, as
// they display as light.
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func ParseTheme(s string) (Theme, error) {
	t := Theme(s)
	if err := checkEnum("theme", t, Theme.Valid); err != nil {
		return ThemeLight, err
	}
	return t, nil
}
