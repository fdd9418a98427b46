package spotbugs

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/dshills/spotreview/internal/defect"
)

// Document is the part of a SpotBugs report the review needs.
type Document struct {
	Version    string
	Projects   []string
	SourceDirs []string
	Bugs       []defect.Raw
}

type bugCollection struct {
	XMLName  xml.Name      `xml:"BugCollection"`
	Version  string        `xml:"version,attr"`
	Projects []project     `xml:"Project"`
	Bugs     []bugInstance `xml:"BugInstance"`
}

type project struct {
	Name    string   `xml:"projectName,attr"`
	SrcDirs []string `xml:"SrcDir"`
}

type bugInstance struct {
	Type         string       `xml:"type,attr"`
	Priority     string       `xml:"priority,attr"`
	Rank         string       `xml:"rank,attr"`
	Category     string       `xml:"category,attr"`
	ShortMessage string       `xml:"ShortMessage"`
	LongMessage  string       `xml:"LongMessage"`
	SourceLines  []sourceLine `xml:"SourceLine"`
}

// Only direct SourceLine children are decoded; the ones nested under
// Class/Method/Field describe the enclosing element, not the defect.
type sourceLine struct {
	SourcePath string `xml:"sourcepath,attr"`
	Start      string `xml:"start,attr"`
}

// Parse decodes a SpotBugs XML report. Malformed XML or a document whose root
// is not BugCollection is an error.
func Parse(data []byte) (*Document, error) {
	var bc bugCollection
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&bc); err != nil {
		return nil, fmt.Errorf("decoding SpotBugs XML: %w", err)
	}

	doc := &Document{
		Version: bc.Version,
		Bugs:    make([]defect.Raw, 0, len(bc.Bugs)),
	}
	for _, p := range bc.Projects {
		if p.Name != "" {
			doc.Projects = append(doc.Projects, p.Name)
		}
		for _, dir := range p.SrcDirs {
			dir = strings.TrimSpace(dir)
			if dir != "" {
				doc.SourceDirs = append(doc.SourceDirs, dir)
			}
		}
	}
	for _, b := range bc.Bugs {
		raw := defect.Raw{
			Rank:         b.Rank,
			Type:         b.Type,
			Category:     b.Category,
			Priority:     b.Priority,
			ShortMessage: strings.TrimSpace(b.ShortMessage),
			LongMessage:  b.LongMessage,
		}
		for _, sl := range b.SourceLines {
			raw.SourceLines = append(raw.SourceLines, defect.SourceLine{
				SourcePath: sl.SourcePath,
				Start:      sl.Start,
			})
		}
		doc.Bugs = append(doc.Bugs, raw)
	}
	return doc, nil
}

// ParseFile reads and parses a SpotBugs report from disk.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	return Parse(data)
}
