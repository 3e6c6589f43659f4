package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/webutils/internal/query"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// textResult is a result that knows its human-readable form
type textResult interface {
	writeText(w io.Writer, verbose bool) error
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result textResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return result.writeText(w, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// QueryResult is the output of the query command
type QueryResult struct {
	URL    string        `json:"url"`
	Count  int           `json:"count"`
	Params *query.Params `json:"params"`
}

func (r *QueryResult) writeText(w io.Writer, verbose bool) error {
	if verbose {
		fmt.Fprintf(w, "URL: %s\n", r.URL)
	}
	if r.Count == 0 {
		fmt.Fprintln(w, "No query parameters found.")
		return nil
	}
	for _, p := range r.Params.All() {
		if p.Present {
			fmt.Fprintf(w, "%s=%s\n", p.Name, p.Value)
		} else {
			fmt.Fprintf(w, "%s (no value)\n", p.Name)
		}
	}
	if verbose {
		fmt.Fprintf(w, "\nTotal: %d parameters\n", r.Count)
	}
	return nil
}

// DateResult is the output of the date command
type DateResult struct {
	At        time.Time `json:"at"`
	Pattern   string    `json:"pattern"`
	Formatted string    `json:"formatted"`
}

func (r *DateResult) writeText(w io.Writer, verbose bool) error {
	if verbose {
		fmt.Fprintf(w, "%s (%s)\n", r.Formatted, r.Pattern)
		return nil
	}
	fmt.Fprintln(w, r.Formatted)
	return nil
}

// StorageResult is the output of the storage commands
type StorageResult struct {
	Action   string  `json:"action"`
	Strategy string  `json:"strategy"`
	Name     string  `json:"name"`
	Value    *string `json:"value"`
	Found    bool    `json:"found"`
}

func (r *StorageResult) writeText(w io.Writer, verbose bool) error {
	switch {
	case r.Action == "set":
		fmt.Fprintf(w, "Stored %s in %s storage.\n", r.Name, r.Strategy)
	case !r.Found:
		fmt.Fprintf(w, "%s is not set in %s storage.\n", r.Name, r.Strategy)
	case verbose:
		fmt.Fprintf(w, "%s (%s): %s\n", r.Name, r.Strategy, *r.Value)
	default:
		fmt.Fprintln(w, *r.Value)
	}
	return nil
}

// HTTPResult is the output of the http commands
type HTTPResult struct {
	Method string          `json:"method"`
	URL    string          `json:"url"`
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func (r *HTTPResult) writeText(w io.Writer, verbose bool) error {
	if verbose {
		fmt.Fprintf(w, "%s %s -> %d\n", r.Method, r.URL, r.Status)
	}
	if r.Error != "" {
		fmt.Fprintln(w, r.Error)
		return nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Data, "", "  "); err != nil {
		return fmt.Errorf("formatting response: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
