package valueparsing

import (
	"bufio"
	"strings"

	"gitlab.com/shar-workflow/iflowscan/model"
)

// ParseProperties parses the text of an externalised parameter file into a parameter map.
// Blank lines and lines starting with # are skipped.  Each remaining line is split on its first '=',
// and both sides are trimmed, so values may contain '=' and may be empty.  Lines without '=' are ignored.
// A repeated key keeps its last value.
func ParseProperties(text string) model.ParameterMap {
	vals := make(map[string]string)
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		key, value, ok := extract(sc.Text())
		if !ok {
			continue
		}
		vals[key] = value
	}
	return model.NewParameterMap(vals)
}

func extract(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}
