package document

import "golang.org/x/text/language"

// Locale is a document language. Belgian documents are issued in Dutch,
// French or English.
type Locale string

const (
	LocaleNL Locale = "nl"
	LocaleFR Locale = "fr"
	LocaleEN Locale = "en"
)

// DefaultLocale is used when the requested language is not supported
const DefaultLocale = LocaleFR

var localeMatcher = language.NewMatcher([]language.Tag{
	language.French,
	language.Dutch,
	language.English,
})

// NormalizeLocale maps a language tag or Accept-Language header value
// ("nl-BE", "en-GB,en;q=0.9") to a supported Locale.
func NormalizeLocale(s string) Locale {
	if s == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(s)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	tag, _, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return DefaultLocale
	}
	base, _ := tag.Base()
	switch Locale(base.String()) {
	case LocaleNL:
		return LocaleNL
	case LocaleEN:
		return LocaleEN
	default:
		return LocaleFR
	}
}
