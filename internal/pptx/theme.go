package pptx

// Theme is a color scheme bound into the document theme part. Values are
// RRGGBB hex without the leading hash.
type Theme struct {
	Name   string
	Dark   string
	Light  string
	Accent string
}

// DefaultTheme is used when the requested theme key is unknown or empty.
const DefaultTheme = "default"

var themes = map[string]Theme{
	"default":    {Name: "Office", Dark: "1F2937", Light: "FFFFFF", Accent: "4472C4"},
	"dark":       {Name: "Slate", Dark: "F9FAFB", Light: "111827", Accent: "60A5FA"},
	"warm":       {Name: "Ember", Dark: "431407", Light: "FFF7ED", Accent: "EA580C"},
	"forest":     {Name: "Forest", Dark: "052E16", Light: "F0FDF4", Accent: "16A34A"},
	"monochrome": {Name: "Mono", Dark: "000000", Light: "FFFFFF", Accent: "525252"},
}

func themeByName(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[DefaultTheme]
}
