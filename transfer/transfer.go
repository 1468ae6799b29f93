// Package transfer converts the durable blob to and from the versioned
// export file format.
package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"golang.org/x/text/encoding/unicode"

	"pin-editor/storage"
)

// Version is the export format version written by Export.
const Version = 1

// Document is the export file.
type Document struct {
	Version       int                               `json:"version"`
	ExportedAt    time.Time                         `json:"exportedAt"`
	Connectors    map[string]storage.ConnectorEntry `json:"connectors"`
	SavedConfigs  []storage.SavedConfig             `json:"savedConfigs"`
	LastConnector string                            `json:"lastConnector"`
}

// ImportError is returned when an import file cannot be used at all.
// Nothing is changed when it is returned.
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *ImportError) Unwrap() error { return e.Err }

// Result is a successfully parsed import.
type Result struct {
	Blob        storage.Blob         `json:"-"`
	Adjustments []storage.Adjustment `json:"adjustments"`
}

// Export builds the export document from a persisted blob.
func Export(b storage.Blob, now time.Time) Document {
	b = b.Clone()
	return Document{
		Version:       Version,
		ExportedAt:    now.UTC(),
		Connectors:    b.Connectors,
		SavedConfigs:  b.SavedConfigs,
		LastConnector: b.LastConnector,
	}
}

// FileName is the suggested download name for an export made at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("connector-pin-config-%s.json", now.UTC().Format("2006-01-02"))
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// Parse decodes an import file. The bytes are read as UTF-8 (a leading BOM
// is dropped). Anything that is not a JSON object, or that declares a newer
// format version, fails with *ImportError. Other shape problems are
// normalized and listed in Result.Adjustments.
func Parse(data []byte) (Result, error) {
	text, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return Result{}, &ImportError{Reason: "Invalid text encoding", Err: err}
	}
	text = bytes.TrimSpace(text)

	b, adj, err := storage.Decode(text)
	if err != nil {
		return Result{}, &ImportError{Reason: "Invalid JSON", Err: err}
	}

	var head struct {
		Version json.RawMessage `json:"version"`
	}
	_ = json.Unmarshal(text, &head)
	if len(head.Version) > 0 && string(head.Version) != "null" {
		var v float64
		if err := json.Unmarshal(head.Version, &v); err != nil {
			adj = append(adj, storage.Adjustment{Field: "version", Message: "not a number, ignored"})
		} else if v > Version {
			return Result{}, &ImportError{Reason: fmt.Sprintf("Unsupported export version %v", v)}
		}
	}

	return Result{Blob: b, Adjustments: adj}, nil
}

// Read reads all of r and parses it.
func Read(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, &ImportError{Reason: "Failed to read file", Err: err}
	}
	return Parse(data)
}
