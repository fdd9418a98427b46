package spotbugs

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFile_Fixture(t *testing.T) {
	doc, err := ParseFile(filepath.Join("testdata", "spotbugs_report.xml"))
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}

	if doc.Version != "4.0.2" {
		t.Errorf("Version = %q, want 4.0.2", doc.Version)
	}
	if diff := cmp.Diff([]string{"app (spotbugsRelease)"}, doc.Projects); diff != "" {
		t.Errorf("Projects mismatch:\n%s", diff)
	}
	wantDirs := []string{
		"/Users/developer/project/sample/app/src/main/java",
		"/Users/developer/project/sample/app/src/main/java/com/github/sample/MainActivity.java",
		"/Users/developer/project/sample/app/src/main/java/com/github/sample/tools/Tools.java",
		"/Users/developer/project/sample/app/src/main/java/com/github/sample/view/ConversationAdapter.java",
		"/Users/developer/project/sample/app/src/main/java/com/github/sample/model/Conversation.java",
		"/Users/developer/project/sample/app/src/main/java/com/github/sample/model/Message.java",
	}
	if diff := cmp.Diff(wantDirs, doc.SourceDirs); diff != "" {
		t.Errorf("SourceDirs mismatch:\n%s", diff)
	}
	if len(doc.Bugs) != 10 {
		t.Fatalf("Bugs count = %d, want 10", len(doc.Bugs))
	}

	first := doc.Bugs[0]
	if first.Rank != "6" || first.Type != "NP_NULL_ON_SOME_PATH" || first.Category != "CORRECTNESS" {
		t.Errorf("first bug = %+v", first)
	}
	// The SourceLine nested under Class must not be picked up.
	if len(first.SourceLines) != 1 {
		t.Fatalf("first bug SourceLines = %d, want 1", len(first.SourceLines))
	}
	if first.SourceLines[0].Start != "29" {
		t.Errorf("first bug start = %q, want 29", first.SourceLines[0].Start)
	}
	if first.SourceLines[0].SourcePath != "com/github/sample/MainActivity.java" {
		t.Errorf("first bug sourcepath = %q", first.SourceLines[0].SourcePath)
	}
	if first.ShortMessage != "Possible null pointer dereference" {
		t.Errorf("ShortMessage = %q", first.ShortMessage)
	}

	classLevel := doc.Bugs[8]
	if classLevel.Type != "SE_BAD_FIELD" {
		t.Fatalf("bug 8 type = %q", classLevel.Type)
	}
	if classLevel.SourceLines[0].Start != "" {
		t.Errorf("class-level start = %q, want empty", classLevel.SourceLines[0].Start)
	}
}

func TestParse_DocumentOrder(t *testing.T) {
	data := []byte(`<BugCollection>
  <BugInstance rank="9"><LongMessage>first</LongMessage></BugInstance>
  <BugInstance rank="2"><LongMessage>second</LongMessage></BugInstance>
  <BugInstance rank="15"><LongMessage>third</LongMessage></BugInstance>
</BugCollection>`)
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	var got []string
	for _, b := range doc.Bugs {
		got = append(got, b.LongMessage)
	}
	if diff := cmp.Diff([]string{"first", "second", "third"}, got); diff != "" {
		t.Errorf("order mismatch:\n%s", diff)
	}
	if len(doc.SourceDirs) != 0 {
		t.Errorf("SourceDirs = %v, want none", doc.SourceDirs)
	}
}

func TestParse_EntitiesInMessages(t *testing.T) {
	data := []byte(`<BugCollection><BugInstance rank="7"><LongMessage>Comparison of String objects using == or != in a.B.c(List&lt;String&gt;)</LongMessage></BugInstance></BugCollection>`)
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if want := "Comparison of String objects using == or != in a.B.c(List<String>)"; doc.Bugs[0].LongMessage != want {
		t.Errorf("LongMessage = %q, want %q", doc.Bugs[0].LongMessage, want)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"not xml", "this is not xml"},
		{"unclosed", "<BugCollection><BugInstance rank=\"1\">"},
		{"mismatched tags", "<BugCollection><BugInstance></Project></BugCollection>"},
		{"wrong root", "<PmdReport></PmdReport>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseFile_Missing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "nope.xml")); err == nil {
		t.Error("expected error for missing file")
	}
}
