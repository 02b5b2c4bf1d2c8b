package flash

import (
	"maps"
	"net/http"

	"golang.org/x/text/language"
)

// bundled lists the locales with built-in default messages. The first entry
// is the fallback for unmatched tags.
var bundled = []language.Tag{language.English, language.Japanese}

var matcher = language.NewMatcher(bundled)

var builtinDefaults = map[language.Tag]map[string]string{
	language.English: {
		Success: "Completed successfully!",
		Warning: "Attention is required.",
		Error:   "An error occurred.",
		Info:    "There is a notice.",
	},
	language.Japanese: {
		Success: "成功しました！",
		Warning: "注意が必要です。",
		Error:   "エラーが発生しました。",
		Info:    "お知らせがあります。",
	},
}

// defaultMessages returns a fresh copy of the defaults closest to tag.
func defaultMessages(tag language.Tag) map[string]string {
	_, idx, _ := matcher.Match(tag)
	return maps.Clone(builtinDefaults[bundled[idx]])
}

// negotiateLocale picks a bundled locale from the request's Accept-Language
// header, defaulting to English.
func negotiateLocale(r *http.Request) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, idx, _ := matcher.Match(tags...)
	return bundled[idx]
}
