package catalog

// Category groups entries in the component sidebar
type Category string

const (
	CategorySource     Category = "Source"
	CategoryTransform  Category = "Transform"
	CategoryAI         Category = "AI"
	CategoryGeoscience Category = "Geoscience Solutions"
)

// Categories returns every category in sidebar order
func Categories() []Category {
	return []Category{CategorySource, CategoryTransform, CategoryAI, CategoryGeoscience}
}

// Style is the accent a category paints on its cards
type Style struct {
	Border string `json:"border"`
	Icon   string `json:"icon"`
}

var categoryStyles = map[Category]Style{
	CategorySource:     {Border: "border-l-green-500", Icon: "text-green-500"},
	CategoryTransform:  {Border: "border-l-blue-500", Icon: "text-blue-500"},
	CategoryAI:         {Border: "border-l-yellow-500", Icon: "text-yellow-500"},
	CategoryGeoscience: {Border: "border-l-purple-500", Icon: "text-purple-500"},
}

var fallbackStyle = Style{Border: "border-l-gray-500", Icon: "text-gray-500"}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	_, ok := categoryStyles[c]
	return ok
}

// Style returns the category accent, gray for unknown categories
func (c Category) Style() Style {
	if s, ok := categoryStyles[c]; ok {
		return s
	}
	return fallbackStyle
}

// Icon is the fixed set of glyph keys an entry may reference
type Icon string

const (
	IconSource       Icon = "source"
	IconUpload       Icon = "upload"
	IconDownload     Icon = "download"
	IconFilter       Icon = "filter"
	IconCalculator   Icon = "calculator"
	IconJoin         Icon = "join"
	IconAggregate    Icon = "aggregate"
	IconDistinct     Icon = "distinct"
	IconSparkles     Icon = "sparkles"
	IconFileText     Icon = "fileText"
	IconLightbulb    Icon = "lightbulb"
	IconBot          Icon = "bot"
	IconCPU          Icon = "cpu"
	IconGravity      Icon = "gravity"
	IconConductivity Icon = "conductivity"
	IconResistivity  Icon = "resistivity"
	IconIP           Icon = "ip"
)

// iconGlyphs maps each icon key to the glyph the client draws
var iconGlyphs = map[Icon]string{
	IconSource:       "database",
	IconUpload:       "upload",
	IconDownload:     "download",
	IconFilter:       "filter",
	IconCalculator:   "calculator",
	IconJoin:         "git-merge",
	IconAggregate:    "sigma",
	IconDistinct:     "copy-minus",
	IconSparkles:     "sparkles",
	IconFileText:     "file-text",
	IconLightbulb:    "lightbulb",
	IconBot:          "bot",
	IconCPU:          "cpu",
	IconGravity:      "orbit",
	IconConductivity: "zap",
	IconResistivity:  "activity",
	IconIP:           "waves",
}

// Valid reports whether i is a known icon
func (i Icon) Valid() bool {
	_, ok := iconGlyphs[i]
	return ok
}

// Glyph returns the glyph name for i, "box" for unknown icons
func (i Icon) Glyph() string {
	if g, ok := iconGlyphs[i]; ok {
		return g
	}
	return "box"
}
