package codegen

import (
	"fmt"
	"strings"
)

// Language is a target ecosystem for a generated snippet.
type Language string

// Supported languages.
const (
	Fetch  Language = "fetch"  // JavaScript using the native fetch API with async/await
	Axios  Language = "axios"  // JavaScript using the axios HTTP client
	Python Language = "python" // Python using requests
	Curl   Language = "curl"   // A curl command line
)

// Languages returns every supported language in display order.
func Languages() []Language {
	return []Language{Fetch, Axios, Python, Curl}
}

// ParseLanguage parses a language name, case insensitively.
//
// "js" and "javascript" are accepted as aliases for [Fetch] and "py" for [Python].
func ParseLanguage(name string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fetch", "js", "javascript":
		return Fetch, nil
	case "axios":
		return Axios, nil
	case "python", "py":
		return Python, nil
	case "curl":
		return Curl, nil
	default:
		return "", fmt.Errorf("unsupported language %q, allowed values are fetch, axios, python, curl", name)
	}
}

// String implements [fmt.Stringer] for [Language].
func (l Language) String() string {
	return string(l)
}

// Title returns the human readable name of the language.
func (l Language) Title() string {
	switch l {
	case Fetch:
		return "JavaScript (fetch)"
	case Axios:
		return "JavaScript (axios)"
	case Python:
		return "Python (requests)"
	case Curl:
		return "cURL"
	default:
		return string(l)
	}
}

// template returns the name of the embedded template that renders l.
func (l Language) template() string {
	switch l {
	case Fetch:
		return "fetch.js.tmpl"
	case Axios:
		return "axios.js.tmpl"
	case Python:
		return "python.py.tmpl"
	case Curl:
		return "curl.sh.tmpl"
	default:
		return ""
	}
}
