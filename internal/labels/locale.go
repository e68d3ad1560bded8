package labels

import (
	"golang.org/x/text/language"

	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// The first entry is the fallback.
var supported = []language.Tag{language.English, language.Nepali}

var matcher = language.NewMatcher(supported)

// NegotiateLocale picks the UI locale.  An explicit choice (a query or form
// value, or a cookie) wins; otherwise the Accept-Language header is matched
// against the supported locales.  The default is English.
func NegotiateLocale(acceptLanguage, explicit string) nlp.Locale {
	if explicit != "" {
		return nlp.ParseLocale(explicit)
	}
	if acceptLanguage == "" {
		return nlp.LocaleEnglish
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return nlp.LocaleEnglish
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return nlp.LocaleEnglish
	}
	if supported[idx] == language.Nepali {
		return nlp.LocaleNepali
	}
	return nlp.LocaleEnglish
}
