package defect

import (
	"encoding/json"
	"errors"
	"testing"
)

const sampleRoot = "/Users/developer/project/sample/"

var sampleSourceRoots = []string{
	"/Users/developer/project/sample/app/src/main/java",
	"/Users/developer/project/sample/app/src/main/java/com/github/sample/MainActivity.java",
	"/Users/developer/project/sample/app/src/main/java/com/github/sample/tools/Tools.java",
}

func mainActivityRaw() Raw {
	return Raw{
		Rank:         "6",
		Type:         "NP_NULL_ON_SOME_PATH",
		Category:     "CORRECTNESS",
		Priority:     "2",
		ShortMessage: "Possible null pointer dereference",
		LongMessage:  "Possible null pointer dereference of MainActivity.conversationAdapter in com.github.sample.MainActivity.onCreate(Bundle)",
		SourceLines: []SourceLine{
			{SourcePath: "com/github/sample/MainActivity.java", Start: "29"},
			{SourcePath: "com/github/sample/MainActivity.java", Start: "31"},
		},
	}
}

func TestSeverityForRank(t *testing.T) {
	tests := []struct {
		rank int
		want Severity
	}{
		{1, Failure},
		{3, Failure},
		{4, Failure},
		{5, Warning},
		{6, Warning},
		{20, Warning},
	}
	for _, tt := range tests {
		if got := SeverityForRank(tt.rank); got != tt.want {
			t.Errorf("SeverityForRank(%d) = %q, want %q", tt.rank, got, tt.want)
		}
	}
}

func TestMeetsThreshold(t *testing.T) {
	tests := []struct {
		severity  Severity
		threshold string
		want      bool
	}{
		{Failure, "none", false},
		{Failure, "", false},
		{Failure, "failure", true},
		{Failure, "warning", true},
		{Warning, "failure", false},
		{Warning, "warning", true},
	}
	for _, tt := range tests {
		got := MeetsThreshold(tt.severity, tt.threshold)
		if got != tt.want {
			t.Errorf("MeetsThreshold(%q, %q) = %v, want %v", tt.severity, tt.threshold, got, tt.want)
		}
	}
}

func TestNew_ResolvesFirstBugInstance(t *testing.T) {
	r, err := New(sampleRoot, sampleSourceRoots, mainActivityRaw())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if r.Rank() != 6 {
		t.Errorf("Rank = %d, want 6", r.Rank())
	}
	if r.Severity() != Warning {
		t.Errorf("Severity = %q, want %q", r.Severity(), Warning)
	}
	if r.Line() != 29 {
		t.Errorf("Line = %d, want 29 (first SourceLine only)", r.Line())
	}
	if r.SourcePath() != "com/github/sample/MainActivity.java" {
		t.Errorf("SourcePath = %q", r.SourcePath())
	}
	if !r.Resolved() {
		t.Fatal("expected record to be resolved")
	}
	if want := "/Users/developer/project/sample/app/src/main/java/com/github/sample/MainActivity.java"; r.AbsolutePath() != want {
		t.Errorf("AbsolutePath = %q, want %q", r.AbsolutePath(), want)
	}
	if want := "app/src/main/java/com/github/sample/MainActivity.java"; r.RelativePath() != want {
		t.Errorf("RelativePath = %q, want %q", r.RelativePath(), want)
	}
	if r.Description() != "Possible null pointer dereference of MainActivity.conversationAdapter in com.github.sample.MainActivity.onCreate(Bundle)" {
		t.Errorf("Description = %q", r.Description())
	}
	if r.Type() != "NP_NULL_ON_SOME_PATH" || r.Category() != "CORRECTNESS" || r.Priority() != "2" {
		t.Errorf("Type/Category/Priority = %q/%q/%q", r.Type(), r.Category(), r.Priority())
	}
}

func TestNew_RootWithoutTrailingSeparator(t *testing.T) {
	r, err := New("/Users/developer/project/sample", sampleSourceRoots, mainActivityRaw())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if want := "app/src/main/java/com/github/sample/MainActivity.java"; r.RelativePath() != want {
		t.Errorf("RelativePath = %q, want %q", r.RelativePath(), want)
	}
}

func TestNew_RootNotAPrefix(t *testing.T) {
	r, err := New("/Users/unknown", sampleSourceRoots, mainActivityRaw())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if r.RelativePath() != r.AbsolutePath() {
		t.Errorf("RelativePath = %q, want unmodified AbsolutePath %q", r.RelativePath(), r.AbsolutePath())
	}
}

func TestNew_RootPrefixIsCharacterExact(t *testing.T) {
	// "/Users/developer/project/sam" is not followed by a separator in the
	// absolute path, so nothing is stripped.
	r, err := New("/Users/developer/project/sam", sampleSourceRoots, mainActivityRaw())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if r.RelativePath() != r.AbsolutePath() {
		t.Errorf("RelativePath = %q, want %q", r.RelativePath(), r.AbsolutePath())
	}
}

func TestNew_FirstMatchingRootWins(t *testing.T) {
	roots := []string{
		"/a/module1/src/main/java/com/x/Util.java",
		"/a/module2/src/main/java/com/x/Util.java",
	}
	raw := Raw{Rank: "10", SourceLines: []SourceLine{{SourcePath: "com/x/Util.java", Start: "3"}}}
	r, err := New("/a", roots, raw)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if r.RelativePath() != "module1/src/main/java/com/x/Util.java" {
		t.Errorf("RelativePath = %q", r.RelativePath())
	}
}

func TestNew_Unresolved(t *testing.T) {
	raw := mainActivityRaw()
	raw.SourceLines[0].SourcePath = "com/github/sample/Missing.java"

	r, err := New(sampleRoot, sampleSourceRoots, raw)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if r.Resolved() {
		t.Error("expected unresolved record")
	}
	if r.AbsolutePath() != "" || r.RelativePath() != "" {
		t.Errorf("unresolved paths = %q / %q, want empty", r.AbsolutePath(), r.RelativePath())
	}
	if r.SourcePath() != "com/github/sample/Missing.java" {
		t.Errorf("SourcePath = %q", r.SourcePath())
	}
}

func TestNew_NoSourceRoots(t *testing.T) {
	r, err := New(sampleRoot, nil, mainActivityRaw())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if r.Resolved() {
		t.Error("expected unresolved record with no source roots")
	}
}

func TestNew_NoSourceLine(t *testing.T) {
	raw := Raw{
		Rank:        "3",
		LongMessage: "Class com.github.sample.Model defines non-transient non-serializable instance field",
	}
	r, err := New(sampleRoot, sampleSourceRoots, raw)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if r.Line() != 0 {
		t.Errorf("Line = %d, want 0", r.Line())
	}
	if r.Severity() != Failure {
		t.Errorf("Severity = %q, want %q", r.Severity(), Failure)
	}
	if r.Description() == "" {
		t.Error("Description should be kept")
	}
	if r.Resolved() {
		t.Error("empty source path should not resolve")
	}
}

func TestNew_SourceLineWithoutStart(t *testing.T) {
	raw := mainActivityRaw()
	raw.SourceLines = []SourceLine{{SourcePath: "com/github/sample/MainActivity.java"}}
	r, err := New(sampleRoot, sampleSourceRoots, raw)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if r.Line() != 0 {
		t.Errorf("Line = %d, want 0", r.Line())
	}
	if !r.Resolved() {
		t.Error("expected resolved record")
	}
}

func TestNew_BackslashPaths(t *testing.T) {
	roots := []string{`C:\work\sample\app\src\main\java\com\github\sample\MainActivity.java`}
	raw := mainActivityRaw()
	raw.SourceLines[0].SourcePath = `com\github\sample\MainActivity.java`

	r, err := New(`C:\work\sample`, roots, raw)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if want := "app/src/main/java/com/github/sample/MainActivity.java"; r.RelativePath() != want {
		t.Errorf("RelativePath = %q, want %q", r.RelativePath(), want)
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  Raw
	}{
		{"missing rank", Raw{SourceLines: []SourceLine{{SourcePath: "a/B.java", Start: "1"}}}},
		{"non-numeric rank", Raw{Rank: "high"}},
		{"non-numeric start", Raw{Rank: "5", SourceLines: []SourceLine{{SourcePath: "a/B.java", Start: "x"}}}},
		{"negative start", Raw{Rank: "5", SourceLines: []SourceLine{{SourcePath: "a/B.java", Start: "-2"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(sampleRoot, sampleSourceRoots, tt.raw); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := New(sampleRoot, nil, Raw{})
	if !errors.Is(err, ErrMissingRank) {
		t.Errorf("err = %v, want ErrMissingRank", err)
	}
}

func TestNew_Idempotent(t *testing.T) {
	a, err := New(sampleRoot, sampleSourceRoots, mainActivityRaw())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	b, err := New(sampleRoot, sampleSourceRoots, mainActivityRaw())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if a != b {
		t.Errorf("records differ:\n%+v\n%+v", a, b)
	}
}

func TestNormalizeRoot(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/a/b", "/a/b/"},
		{"/a/b/", "/a/b/"},
		{"/a/b//", "/a/b/"},
		{`C:\a\b`, "C:/a/b/"},
		{"/", "/"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeRoot(tt.in); got != tt.want {
			t.Errorf("NormalizeRoot(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRecord_MarshalJSON(t *testing.T) {
	r, err := New(sampleRoot, sampleSourceRoots, mainActivityRaw())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if got["relativePath"] != "app/src/main/java/com/github/sample/MainActivity.java" {
		t.Errorf("relativePath = %v", got["relativePath"])
	}
	if got["severity"] != "warning" {
		t.Errorf("severity = %v", got["severity"])
	}
	if got["line"] != float64(29) {
		t.Errorf("line = %v", got["line"])
	}
}
