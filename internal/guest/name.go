package guest

import (
	"net/url"
	"strings"
	"unicode"
)

const unknownPerson = "Unknown Person"

// NameFromURL derives a display name from a social or personal URL.
func NameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return unknownPerson
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return unknownPerson
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segments := pathSegments(u.Path)

	var name string
	switch {
	case host == "twitter.com" || host == "x.com":
		if len(segments) > 0 {
			name = strings.ReplaceAll(strings.TrimPrefix(segments[0], "@"), "_", " ")
		}
	case strings.HasSuffix(host, "linkedin.com"):
		for i, seg := range segments {
			if seg == "in" && i+1 < len(segments) {
				name = strings.ReplaceAll(segments[i+1], "-", " ")
				break
			}
		}
	case host == "youtube.com" || host == "m.youtube.com":
		if len(segments) > 0 {
			switch {
			case strings.HasPrefix(segments[0], "@"):
				name = strings.TrimPrefix(segments[0], "@")
			case (segments[0] == "c" || segments[0] == "channel" || segments[0] == "user") && len(segments) > 1:
				name = segments[1]
			}
		}
	default:
		if len(segments) > 0 {
			name = strings.NewReplacer("-", " ", "_", " ").Replace(segments[len(segments)-1])
		}
	}

	name = titleCase(name)
	if name == "" {
		return unknownPerson
	}
	return name
}

func pathSegments(path string) []string {
	var out []string
	for _, seg := range strings.Split(path, "/") {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
