package board

import "taskflow/internal/storage"

// Theme is the persisted color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ThemeKey is the storage key holding the selected theme.
const ThemeKey = "theme"

const themeSchema = `{"enum": ["light", "dark"]}`

var themeValidator = storage.MustCompileSchema("taskflow://theme.json", themeSchema)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
