package metrics

import "strings"

// Label values are joined with a separator that cannot appear in the
// identifiers in use, so distinct entities never collide.
const keySeparator = "|"

// EntityKey derives a stable composite identity from an ordered subset
// of label values. Two series describe the same logical entity iff their
// keys are equal.
func EntityKey(labels map[string]string, fields []string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = labels[f]
	}
	return strings.Join(parts, keySeparator)
}
