package output

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/dshills/spotreview/internal/defect"
	"github.com/dshills/spotreview/internal/review"
)

// SARIFWriter outputs defects in SARIF v2.1.0 format.
type SARIFWriter struct{}

func (s *SARIFWriter) Write(w io.Writer, report *review.Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(buildSARIF(report)); err != nil {
		return fmt.Errorf("encoding SARIF: %w", err)
	}
	return nil
}

// SARIF schema types (v2.1.0)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool               sarifTool                        `json:"tool"`
	AutomationDetails  *sarifAutomationDetails          `json:"automationDetails,omitempty"`
	OriginalURIBaseIDs map[string]sarifArtifactLocation `json:"originalUriBaseIds,omitempty"`
	Results            []sarifResult                    `json:"results"`
}

type sarifAutomationDetails struct {
	ID string `json:"id"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string              `json:"id"`
	ShortDescription sarifMessage        `json:"shortDescription"`
	HelpURI          string              `json:"helpUri,omitempty"`
	Properties       sarifRuleProperties `json:"properties,omitempty"`
}

type sarifRuleProperties struct {
	Tags []string `json:"tags,omitempty"`
}

type sarifResult struct {
	RuleID     string                `json:"ruleId"`
	Level      string                `json:"level"`
	Message    sarifMessage          `json:"message"`
	Locations  []sarifLocation       `json:"locations,omitempty"`
	Properties sarifResultProperties `json:"properties"`
}

type sarifResultProperties struct {
	Rank int `json:"rank"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

const (
	bugDescriptionsURL = "https://spotbugs.readthedocs.io/en/latest/bugDescriptions.html"
	sarifSchemaURL     = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"
	// srcRoot names the review root; result URIs are relative to it.
	srcRoot = "SRCROOT"
)

func buildSARIF(report *review.Report) sarifLog {
	var rules []sarifRule
	seen := make(map[string]bool)
	results := []sarifResult{}

	for _, r := range report.Defects {
		ruleID := ruleIDFor(r)
		if !seen[ruleID] {
			seen[ruleID] = true
			rule := sarifRule{
				ID:               ruleID,
				ShortDescription: sarifMessage{Text: firstNonEmpty(r.ShortMessage(), ruleID)},
			}
			if r.Type() != "" {
				rule.HelpURI = bugDescriptionsURL + "#" + r.Type()
			}
			if r.Category() != "" {
				rule.Properties.Tags = []string{r.Category()}
			}
			rules = append(rules, rule)
		}

		loc := sarifLocation{PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{URI: r.RelativePath(), URIBaseID: srcRoot},
		}}
		if r.Line() > 0 {
			loc.PhysicalLocation.Region = &sarifRegion{StartLine: r.Line()}
		}

		results = append(results, sarifResult{
			RuleID:     ruleID,
			Level:      severityToLevel(r.Severity()),
			Message:    sarifMessage{Text: r.Description()},
			Locations:  []sarifLocation{loc},
			Properties: sarifResultProperties{Rank: r.Rank()},
		})
	}

	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           report.Tool,
			Version:        report.Version,
			InformationURI: "https://github.com/dshills/spotreview",
			Rules:          rules,
		}},
		Results: results,
	}
	if report.RunID != "" {
		run.AutomationDetails = &sarifAutomationDetails{ID: "spotreview/" + report.RunID}
	}
	if report.Repo.Root != "" {
		run.OriginalURIBaseIDs = map[string]sarifArtifactLocation{
			srcRoot: {URI: fileURI(defect.NormalizeRoot(report.Repo.Root))},
		}
	}
	return sarifLog{Version: "2.1.0", Schema: sarifSchemaURL, Runs: []sarifRun{run}}
}

// fileURI turns a slash-separated absolute directory into a file URI.
func fileURI(dir string) string {
	if !strings.HasPrefix(dir, "/") {
		dir = "/" + dir // C:/work/ style roots
	}
	return (&url.URL{Scheme: "file", Path: dir}).String()
}

func severityToLevel(s defect.Severity) string {
	if s == defect.Failure {
		return "error"
	}
	return "warning"
}

func ruleIDFor(r defect.Record) string {
	if r.Type() != "" {
		return r.Type()
	}
	return "spotbugs"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
