package models

// SettingKind describes how a setting value is validated.
type SettingKind int

const (
	SettingText SettingKind = iota
	SettingURL
	SettingColor
	SettingSize
	SettingGrid
)

func (k SettingKind) String() string {
	switch k {
	case SettingURL:
		return "url"
	case SettingColor:
		return "color"
	case SettingSize:
		return "size"
	case SettingGrid:
		return "grid"
	default:
		return "text"
	}
}

// SettingSpec is a recognised setting key with its kind and compiled default.
type SettingSpec struct {
	Key     string
	Kind    SettingKind
	Default string
}

// SettingSpecs lists every recognised setting key.
var SettingSpecs = []SettingSpec{
	// landing page
	{"site_title", SettingText, "Menü"},
	{"bg_color", SettingColor, "#ffffff"},
	{"landing_bg_color", SettingColor, "#ffffff"},
	{"logo_url", SettingURL, ""},
	{"logo_width", SettingSize, "200"},
	{"welcome_text", SettingText, "Hoş Geldiniz"},
	{"welcome_font_size", SettingSize, "24"},
	{"welcome_color", SettingColor, "#000000"},
	{"button_text", SettingText, "Menüyü Görüntüle"},
	{"button_bg_color", SettingColor, "#000000"},
	{"button_text_color", SettingColor, "#ffffff"},

	// header
	{"header_logo_url", SettingURL, ""},
	{"header_logo_width", SettingSize, "120"},
	{"header_bg_color", SettingColor, "#ffffff"},
	{"header_text_color", SettingColor, "#000000"},
	{"header_height", SettingSize, "64"},

	// navigation
	{"nav_bg_color", SettingColor, "#ffffff"},
	{"nav_text_color", SettingColor, "#000000"},
	{"nav_hover_bg_color", SettingColor, "#f3f4f6"},
	{"nav_font_size", SettingSize, "16"},

	// categories
	{"categories_bg_color", SettingColor, "#ffffff"},
	{"category_grid", SettingGrid, "two"},
	{"category_grid_cols", SettingSize, "2"},
	{"category_name_color", SettingColor, "#ffffff"},
	{"category_name_font_size", SettingSize, "18"},
	{"category_text_color", SettingColor, "#ffffff"},

	// products
	{"products_bg_color", SettingColor, "#ffffff"},
	{"product_grid", SettingGrid, "one"},
	{"product_grid_cols", SettingSize, "1"},
	{"product_image_width", SettingSize, "96"},
	{"product_name_color", SettingColor, "#000000"},
	{"product_name_font_size", SettingSize, "16"},
	{"product_description_color", SettingColor, "#6b7280"},
	{"product_description_font_size", SettingSize, "14"},
	{"product_price_color", SettingColor, "#000000"},
	{"product_price_font_size", SettingSize, "16"},
	{"product_warning_color", SettingColor, "#dc2626"},
	{"product_warning_font_size", SettingSize, "12"},
	{"product_warning_bg_color", SettingColor, "#fef2f2"},

	// back button
	{"back_button_bg_color", SettingColor, "#000000"},
	{"back_button_text_color", SettingColor, "#ffffff"},
	{"back_button_hover_bg_color", SettingColor, "#374151"},
}

var settingIndex = func() map[string]SettingSpec {
	index := make(map[string]SettingSpec, len(SettingSpecs))
	for _, spec := range SettingSpecs {
		index[spec.Key] = spec
	}
	return index
}()

// LookupSetting returns the spec of a recognised key.
func LookupSetting(key string) (SettingSpec, bool) {
	spec, ok := settingIndex[key]
	return spec, ok
}

// DefaultSettings returns a fresh map of compiled defaults.
func DefaultSettings() map[string]string {
	values := make(map[string]string, len(SettingSpecs))
	for _, spec := range SettingSpecs {
		values[spec.Key] = spec.Default
	}
	return values
}

// Settings is the typed view of the folded settings map.
type Settings struct {
	SiteTitle       string `json:"site_title"`
	BgColor         string `json:"bg_color"`
	LandingBgColor  string `json:"landing_bg_color"`
	LogoURL         string `json:"logo_url"`
	LogoWidth       int    `json:"logo_width"`
	WelcomeText     string `json:"welcome_text"`
	WelcomeFontSize int    `json:"welcome_font_size"`
	WelcomeColor    string `json:"welcome_color"`
	ButtonText      string `json:"button_text"`
	ButtonBgColor   string `json:"button_bg_color"`
	ButtonTextColor string `json:"button_text_color"`

	HeaderLogoURL   string `json:"header_logo_url"`
	HeaderLogoWidth int    `json:"header_logo_width"`
	HeaderBgColor   string `json:"header_bg_color"`
	HeaderTextColor string `json:"header_text_color"`
	HeaderHeight    int    `json:"header_height"`

	NavBgColor      string `json:"nav_bg_color"`
	NavTextColor    string `json:"nav_text_color"`
	NavHoverBgColor string `json:"nav_hover_bg_color"`
	NavFontSize     int    `json:"nav_font_size"`

	CategoriesBgColor    string `json:"categories_bg_color"`
	CategoryGrid         string `json:"category_grid"`
	CategoryGridCols     int    `json:"category_grid_cols"`
	CategoryNameColor    string `json:"category_name_color"`
	CategoryNameFontSize int    `json:"category_name_font_size"`
	CategoryTextColor    string `json:"category_text_color"`

	ProductsBgColor            string `json:"products_bg_color"`
	ProductGrid                string `json:"product_grid"`
	ProductGridCols            int    `json:"product_grid_cols"`
	ProductImageWidth          int    `json:"product_image_width"`
	ProductNameColor           string `json:"product_name_color"`
	ProductNameFontSize        int    `json:"product_name_font_size"`
	ProductDescriptionColor    string `json:"product_description_color"`
	ProductDescriptionFontSize int    `json:"product_description_font_size"`
	ProductPriceColor          string `json:"product_price_color"`
	ProductPriceFontSize       int    `json:"product_price_font_size"`
	ProductWarningColor        string `json:"product_warning_color"`
	ProductWarningFontSize     int    `json:"product_warning_font_size"`
	ProductWarningBgColor      string `json:"product_warning_bg_color"`

	BackButtonBgColor      string `json:"back_button_bg_color"`
	BackButtonTextColor    string `json:"back_button_text_color"`
	BackButtonHoverBgColor string `json:"back_button_hover_bg_color"`
}
