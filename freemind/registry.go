package freemind

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

// document covers both shapes the server answers with: a registry listing
// entries directly under the root, and a part wrapping them in <data>.
type document struct {
	XMLName xml.Name
	Entries []Task `xml:"entry"`
	Data    struct {
		Entries []Task `xml:"entry"`
	} `xml:"data"`
}

// Decode reads the entries of a registry or part document.
func Decode(r io.Reader) ([]Task, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding registry")
	}
	if doc.XMLName.Local == "part" {
		return doc.Data.Entries, nil
	}
	return doc.Entries, nil
}

// UnmarshalXML decodes an entry. A due time that is not a number of seconds
// leaves the entry without one rather than failing the document.
func (t *Task) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type entry Task
	var raw struct {
		entry
		Due *string `xml:"due"`
	}
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	*t = Task(raw.entry)
	t.Due = nil
	if raw.Due == nil {
		return nil
	}
	due, err := strconv.ParseInt(strings.TrimSpace(*raw.Due), 10, 64)
	if err != nil {
		log.Warn().Str("task", t.Title).Str("due", *raw.Due).Msg("ignoring bad due time")
		return nil
	}
	t.Due = &due
	return nil
}
