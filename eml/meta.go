package eml

import (
	"strings"

	"github.com/machinefabric/exteditor-go/compose"
)

// canFold reports whether every setting and custom header fits in a single
// X-Meta line. Folding is all-or-nothing.
func canFold(settings []setting, custom []compose.CustomHeader) bool {
	for _, s := range settings {
		if strings.ContainsAny(s.value, ",:") {
			return false
		}
	}
	for _, h := range custom {
		if !IsCustomHeaderName(h.Name) || IsKnownHeader(h.Name) {
			return false
		}
		if strings.ContainsAny(h.Name, ",=") || strings.ContainsAny(h.Value, ",:") {
			return false
		}
	}
	return true
}

func foldMeta(settings []setting, custom []compose.CustomHeader) string {
	pairs := make([]string, 0, len(settings)+len(custom))
	for _, s := range settings {
		pairs = append(pairs, s.metaKey+"="+s.value)
	}
	for _, h := range custom {
		pairs = append(pairs, h.Name+"="+h.Value)
	}
	return strings.Join(pairs, ", ")
}

type metaPair struct {
	key   string
	value string
}

// unfoldMeta splits an X-Meta value into key/value pairs. Entries without
// '=' are returned with ok=false.
func unfoldMeta(value string) (pairs []metaPair, malformed []string) {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			malformed = append(malformed, part)
			continue
		}
		pairs = append(pairs, metaPair{key: strings.TrimSpace(k), value: strings.TrimSpace(v)})
	}
	return pairs, malformed
}
