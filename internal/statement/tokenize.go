package statement

import "strings"

// SplitLine splits one CSV line into trimmed fields. Commas inside
// double quotes do not split, and a field wrapped in quotes loses them.
// Unbalanced quotes never fail the line; the scan keeps whatever quote
// state it ends in. Callers skip blank lines.
func SplitLine(line string) []string {
	var fields []string
	start := 0
	inQuotes := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				fields = append(fields, line[start:i])
				start = i + 1
			}
		}
	}
	fields = append(fields, line[start:])

	for i, f := range fields {
		f = strings.TrimSpace(f)
		if len(f) >= 2 && f[0] == '"' && f[len(f)-1] == '"' {
			f = strings.TrimSpace(f[1 : len(f)-1])
		}
		fields[i] = f
	}
	return fields
}
