package aiturn

import "regexp"

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSONObject pulls the first JSON object out of a free-form oracle
// response. A fenced ```json block wins; otherwise the first
// balanced-brace span is taken. Oracles wrap their answers in prose more
// often than not.
func ExtractJSONObject(raw string) (string, bool) {
	if m := fencedJSONRe.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	return firstBalancedObject(raw)
}

func firstBalancedObject(raw string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}
