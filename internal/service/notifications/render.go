package notifications

import (
	"regexp"
	"sort"
)

var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_]+)\}`)

// Render подставляет ${name} из vars. Неизвестные плейсхолдеры остаются как есть
// и возвращаются списком без повторов.
func Render(template string, vars map[string]string) (string, []string) {
	missingSet := make(map[string]struct{})

	rendered := placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		name := placeholderPattern.FindStringSubmatch(token)[1]
		if value, ok := vars[name]; ok {
			return value
		}
		missingSet[name] = struct{}{}
		return token
	})

	if len(missingSet) == 0 {
		return rendered, nil
	}

	missing := make([]string, 0, len(missingSet))
	for name := range missingSet {
		missing = append(missing, name)
	}
	sort.Strings(missing)
	return rendered, missing
}
