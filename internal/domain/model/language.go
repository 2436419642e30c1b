package model

import "fmt"

// Language is the closed set of languages the platform can grade. Anything
// outside this set is rejected before a problem or the sandbox ever sees it.
type Language string

const (
	LangPython     Language = "python"
	LangCPP        Language = "cpp"
	LangJava       Language = "java"
	LangJavaScript Language = "javascript"
)

var supportedLanguages = []Language{LangPython, LangCPP, LangJava, LangJavaScript}

func SupportedLanguages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// ParseLanguage maps a free-form selector from the API to a Language.
func ParseLanguage(s string) (Language, error) {
	for _, l := range supportedLanguages {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown language %q", s)
}
