package pagectx

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale can be detected.
const DefaultLocale = "en-US"

// DetectLocale returns a BCP 47 tag from the POSIX locale variables,
// checked in LC_ALL, LC_MESSAGES, LANG order.
func DetectLocale(getenv func(string) string) string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if tag, ok := parsePOSIXLocale(getenv(key)); ok {
			return tag
		}
	}
	return DefaultLocale
}

// parsePOSIXLocale turns "pt_BR.UTF-8@euro" into "pt-BR".
func parsePOSIXLocale(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "" || v == "C" || v == "POSIX" {
		return "", false
	}

	tag, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
	if err != nil {
		return "", false
	}
	return tag.String(), true
}
