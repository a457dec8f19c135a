package output

import (
	json "github.com/goccy/go-json"

	"github.com/ichrago/ichrago/internal/quote"
)

// JSONFormatter renders a group quote result as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

func (jf *JSONFormatter) Name() string { return "json" }

// Format generates JSON output for a group quote result
func (jf *JSONFormatter) Format(result *quote.GroupQuoteResult) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}
