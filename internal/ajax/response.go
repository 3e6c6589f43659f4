package ajax

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// ErrInvalidJSON is the cause of an Error for a successful reply whose body
// is not JSON
var ErrInvalidJSON = errors.New("ajax: response is not valid JSON")

// maxTextMessage caps messages taken from plain text bodies
const maxTextMessage = 512

// Response is a successful JSON reply
type Response struct {
	StatusCode int
	Header     http.Header
	Data       json.RawMessage
}

// Decode unmarshals the reply body into v
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Data, v)
}

// Error describes a failed request: a transport failure, a non-2xx reply or
// a reply that is not JSON. Message is never empty.
type Error struct {
	Method     Method
	URL        string
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// rawDecoder captures the reply body into a *[]byte
type rawDecoder struct{}

func (rawDecoder) Decode(resp *http.Response, v interface{}) error {
	body, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("ajax: cannot decode into %T", v)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	*body = data
	return nil
}

// newResponse wraps a 2xx reply; empty bodies become JSON null
func newResponse(method Method, url string, resp *http.Response, body []byte) (*Response, *Error) {
	data := bytes.TrimSpace(body)
	if len(data) == 0 {
		data = []byte("null")
	}
	if !json.Valid(data) {
		return nil, &Error{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Header:     resp.Header,
			Body:       body,
			Message:    "invalid JSON response",
			Err:        ErrInvalidJSON,
		}
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Data:       json.RawMessage(data),
	}, nil
}

// newStatusError wraps a non-2xx reply
func newStatusError(method Method, url string, resp *http.Response, body []byte) *Error {
	return &Error{
		Method:     method,
		URL:        url,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       body,
		Message:    errorMessage(resp.StatusCode, resp.Header, body),
	}
}

// newTransportError wraps a failure to send the request or read the reply
func newTransportError(method Method, url string, resp *http.Response, err error) *Error {
	e := &Error{
		Method:  method,
		URL:     url,
		Message: err.Error(),
		Err:     err,
	}
	if resp != nil {
		e.StatusCode = resp.StatusCode
		e.Status = resp.Status
		e.Header = resp.Header
	}
	return e
}

// errorMessage picks the most useful human readable text from an error reply
func errorMessage(statusCode int, header http.Header, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 {
		if msg := jsonMessage(trimmed); msg != "" {
			return msg
		}
		if isHTML(header, trimmed) {
			if msg := htmlMessage(trimmed); msg != "" {
				return msg
			}
		} else if !json.Valid(trimmed) && utf8.Valid(trimmed) {
			return truncate(string(trimmed), maxTextMessage)
		}
	}
	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", statusCode)
}

// jsonMessage reads a "message" (or "error") field, or a bare JSON string
func jsonMessage(body []byte) string {
	var text string
	if err := json.Unmarshal(body, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err == nil && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func isHTML(header http.Header, body []byte) bool {
	if mediaType, _, err := mime.ParseMediaType(header.Get("Content-Type")); err == nil {
		return mediaType == "text/html"
	}
	return body[0] == '<'
}

// htmlMessage takes the page title, the first heading or the body text
func htmlMessage(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	for _, selector := range []string{"title", "h1"} {
		if text := collapse(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return truncate(collapse(doc.Find("body").Text()), maxTextMessage)
}

// collapse trims text and joins runs of whitespace with a single space
func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
