package extractor

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// extractDOCX returns every non-blank paragraph of word/document.xml in
// document order, one per line
func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: invalid docx: %v", ErrExtractionFailed, err)
	}
	defer doc.Close()

	paragraphs, err := documentParagraphs(doc.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("%w: invalid docx: %v", ErrExtractionFailed, err)
	}

	var b strings.Builder
	for _, p := range paragraphs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// documentParagraphs walks WordprocessingML and returns the text of each
// w:p element. Paragraphs nested in text boxes are emitted separately.
func documentParagraphs(documentXML string) ([]string, error) {
	dec := xml.NewDecoder(strings.NewReader(documentXML))

	var (
		paragraphs []string
		open       []*strings.Builder
		inText     bool
		runDepth   int // w:tab outside a run is a tab stop definition
		skipDepth  int // >0 while inside mc:Fallback, which repeats mc:Choice content
	)

	current := func() *strings.Builder {
		if len(open) == 0 {
			return nil
		}
		return open[len(open)-1]
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if skipDepth > 0 {
				skipDepth++
				continue
			}
			switch t.Name.Local {
			case "Fallback":
				skipDepth = 1
			case "p":
				open = append(open, &strings.Builder{})
			case "r":
				runDepth++
			case "t":
				inText = true
			case "tab":
				if b := current(); b != nil && runDepth > 0 {
					b.WriteByte('\t')
				}
			case "br", "cr":
				if b := current(); b != nil && runDepth > 0 {
					b.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if skipDepth > 0 {
				skipDepth--
				continue
			}
			switch t.Name.Local {
			case "p":
				if b := current(); b != nil {
					paragraphs = append(paragraphs, b.String())
					open = open[:len(open)-1]
				}
			case "r":
				if runDepth > 0 {
					runDepth--
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if skipDepth == 0 && inText {
				if b := current(); b != nil {
					b.Write(t)
				}
			}
		}
	}
	return paragraphs, nil
}
