package request

import (
	"io"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// Result is the resolved value of a successful call. For buffered calls,
// Value holds the parsed JSON body and Body the raw bytes; for streaming
// calls, Stream holds the live response body and the caller is responsible
// for consuming and closing it.
type Result struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       []byte
	Value      any
	Stream     io.ReadCloser
	Duration   time.Duration
}

func (r *Result) BodyString() string {
	return string(r.Body)
}

// Header returns a response header by case-insensitive name.
func (r *Result) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (r *Result) ContentType() string {
	return r.Header("Content-Type")
}

// Get queries the buffered body with a gjson path, e.g. "items.0.id".
func (r *Result) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// MatchesSchema validates the buffered body against a JSON Schema document.
// It returns the individual violation messages when the body does not match.
func (r *Result) MatchesSchema(schema []byte) (bool, []string, error) {
	schemaLoader := gojsonschema.NewBytesLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(r.Body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return false, nil, err
	}

	if result.Valid() {
		return true, nil, nil
	}

	var violations []string
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return false, violations, nil
}
