package ajax

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"strings"

	"github.com/google/go-querystring/query"
)

// encodeBody serializes payload to JSON unless it is already text.
// A nil payload sends no body.
func encodeBody(payload any) (io.Reader, error) {
	switch v := payload.(type) {
	case nil:
		return nil, nil
	case string:
		return strings.NewReader(v), nil
	case []byte:
		return bytes.NewReader(v), nil
	case json.RawMessage:
		return bytes.NewReader(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding payload: %w", err)
		}
		return bytes.NewReader(data), nil
	}
}

// encodeQuery turns a GET payload into query text. Strings are used verbatim,
// maps are encoded key by key and structs go through their `url` tags.
func encodeQuery(payload any) (string, error) {
	switch v := payload.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimPrefix(v, "?"), nil
	case url.Values:
		return v.Encode(), nil
	case map[string]string:
		values := make(url.Values, len(v))
		for key, value := range v {
			values.Set(key, value)
		}
		return values.Encode(), nil
	case map[string]any:
		values := make(url.Values, len(v))
		for key, value := range v {
			addQueryValue(values, key, value)
		}
		return values.Encode(), nil
	}

	rv := reflect.ValueOf(payload)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return "", fmt.Errorf("encoding query: unsupported payload type %T", payload)
	}

	values, err := query.Values(payload)
	if err != nil {
		return "", fmt.Errorf("encoding query: %w", err)
	}
	return values.Encode(), nil
}

// addQueryValue adds value under key, expanding slices into repeated keys
func addQueryValue(values url.Values, key string, value any) {
	switch v := value.(type) {
	case nil:
		values.Add(key, "")
	case []string:
		for _, item := range v {
			values.Add(key, item)
		}
	case []any:
		for _, item := range v {
			values.Add(key, fmt.Sprint(item))
		}
	default:
		values.Add(key, fmt.Sprint(v))
	}
}

// joinQuery appends q to an existing raw query
func joinQuery(existing, q string) string {
	switch {
	case existing == "":
		return q
	case q == "":
		return existing
	default:
		return existing + "&" + q
	}
}
