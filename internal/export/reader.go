package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Contents is the text of a document body as read back from a DOCX file.
type Contents struct {
	// Paragraphs lists body paragraphs outside tables, in order.
	Paragraphs []string
	// Tables holds every table as rows of cell text.
	Tables [][][]string
	Header string
}

// ReadDOCX extracts paragraph and table text from a package written by
// WriteDOCX.
func ReadDOCX(data []byte) (*Contents, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}

	out := &Contents{}
	body, err := readPart(zr, "word/document.xml")
	if err != nil {
		return nil, err
	}
	if err := walkBody(body, out); err != nil {
		return nil, err
	}

	if header, err := readPart(zr, "word/header1.xml"); err == nil {
		hc := &Contents{}
		if err := walkBody(header, hc); err == nil {
			out.Header = strings.Join(hc.Paragraphs, "\n")
		}
	}
	return out, nil
}

// ReadIdeaTable returns the first table of the document, header row included.
func ReadIdeaTable(data []byte) ([][]string, error) {
	c, err := ReadDOCX(data)
	if err != nil {
		return nil, err
	}
	if len(c.Tables) == 0 {
		return nil, errors.New("document has no table")
	}
	return c.Tables[0], nil
}

func readPart(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, fmt.Errorf("document part %s: %w", name, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func walkBody(data []byte, out *Contents) error {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		depth int // table nesting
		table [][]string
		row   []string
		cell  strings.Builder
		para  strings.Builder
		inT   bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to parse document body: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				depth++
				if depth == 1 {
					table = nil
				}
			case "tr":
				row = nil
			case "tc":
				cell.Reset()
			case "p":
				para.Reset()
			case "t":
				inT = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				depth--
				if depth == 0 {
					out.Tables = append(out.Tables, table)
				}
			case "tr":
				table = append(table, row)
			case "tc":
				row = append(row, cell.String())
			case "p":
				if depth == 0 && para.Len() > 0 {
					out.Paragraphs = append(out.Paragraphs, para.String())
				}
			case "t":
				inT = false
			}
		case xml.CharData:
			if !inT {
				continue
			}
			if depth > 0 {
				cell.Write(t)
			} else {
				para.Write(t)
			}
		}
	}
}
