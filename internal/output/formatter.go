package output

import (
	"sort"

	"github.com/ichrago/ichrago/internal/quote"
)

// Formatter renders a group quote result for one output medium.
type Formatter interface {
	Name() string
	Format(result *quote.GroupQuoteResult) (string, error)
}

var formatters = map[string]Formatter{
	"table": &TableFormatter{},
	"json":  &JSONFormatter{Pretty: true},
	"csv":   &CSVFormatter{},
}

var aliases = map[string]string{
	"console": "table",
	"text":    "table",
}

// GetFormatterByName returns the formatter registered under the given name
// or alias, or nil when the name is unknown.
func GetFormatterByName(name string) Formatter {
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	return formatters[name]
}

// AvailableFormats lists the canonical format names.
func AvailableFormats() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
