package checks

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cratedoctor/cratedoctor/pkg/diagnostics"
	"github.com/cratedoctor/cratedoctor/pkg/project"
)

var (
	unwrapPattern     = regexp.MustCompile(`\.unwrap\(\)`)
	expectPattern     = regexp.MustCompile(`\.expect\s*\(`)
	debugMacroPattern = regexp.MustCompile(`(println!|dbg!)\s*\(`)
	todoPattern       = regexp.MustCompile(`//\s*(TODO|FIXME|XXX)`)
)

var checkUnwrap = Check{
	Descriptor: Descriptor{
		Code:     "CODE001",
		Name:     "unwrap in library code",
		Category: "code-pattern",
		Kind:     KindFileScan,
		Default:  diagnostics.SeverityWarning,
	},
	Run: scanLibrarySources(func(file project.SourceFile, lineNo int, line string) *diagnostics.Finding {
		if !unwrapPattern.MatchString(line) {
			return nil
		}
		f := diagnostics.NewFinding("CODE001", diagnostics.SeverityWarning,
			"Use of .unwrap() in library code.").
			WithLine(file.Rel, lineNo).
			WithHint("Propagate the error with ? or handle it explicitly instead of panicking.")
		return &f
	}),
}

var checkExpect = Check{
	Descriptor: Descriptor{
		Code:     "CODE002",
		Name:     "expect in library code",
		Category: "code-pattern",
		Kind:     KindFileScan,
		Default:  diagnostics.SeverityNote,
	},
	Run: scanLibrarySources(func(file project.SourceFile, lineNo int, line string) *diagnostics.Finding {
		if !expectPattern.MatchString(line) {
			return nil
		}
		f := diagnostics.NewFinding("CODE002", diagnostics.SeverityNote,
			"Use of .expect() in library code.").
			WithLine(file.Rel, lineNo).
			WithHint("Prefer returning the error; .expect() panics at runtime.")
		return &f
	}),
}

var checkDebugMacros = Check{
	Descriptor: Descriptor{
		Code:     "CODE003",
		Name:     "debug output in library code",
		Category: "code-pattern",
		Kind:     KindFileScan,
		Default:  diagnostics.SeverityNote,
	},
	Run: scanLibrarySources(func(file project.SourceFile, lineNo int, line string) *diagnostics.Finding {
		m := debugMacroPattern.FindStringSubmatch(line)
		if m == nil {
			return nil
		}
		f := diagnostics.NewFinding("CODE003", diagnostics.SeverityNote,
			fmt.Sprintf("Use of %s in library code.", m[1])).
			WithLine(file.Rel, lineNo).
			WithHint("Use a logging facade instead of printing to stdout from a library.")
		return &f
	}),
}

var checkTodoComments = Check{
	Descriptor: Descriptor{
		Code:     "CODE004",
		Name:     "unresolved marker comment",
		Category: "code-pattern",
		Kind:     KindFileScan,
		Default:  diagnostics.SeverityNote,
	},
	Run: scanAllSources(func(file project.SourceFile, lineNo int, line string) *diagnostics.Finding {
		m := todoPattern.FindStringSubmatch(line)
		if m == nil {
			return nil
		}
		f := diagnostics.NewFinding("CODE004", diagnostics.SeverityNote,
			fmt.Sprintf("%s comment found.", m[1])).
			WithLine(file.Rel, lineNo)
		return &f
	}),
}

var checkUnreadableSources = Check{
	Descriptor: Descriptor{
		Code:     "IO001",
		Name:     "unreadable source file",
		Category: "io",
		Kind:     KindFileScan,
		Default:  diagnostics.SeverityWarning,
	},
	Run: func(_ context.Context, pctx *project.Context, clients Clients) []diagnostics.Finding {
		var findings []diagnostics.Finding
		for _, file := range pctx.Sources {
			if _, err := clients.Sources.Load(file.Path); err != nil {
				findings = append(findings, diagnostics.NewFinding("IO001", diagnostics.SeverityWarning,
					fmt.Sprintf("Could not read source file: %v.", err)).
					WithFile(file.Rel))
			}
		}
		return findings
	},
}

// lineVisitor inspects one line and returns a finding for it, or nil.
type lineVisitor func(file project.SourceFile, lineNo int, line string) *diagnostics.Finding

func scanLibrarySources(visit lineVisitor) RunFunc {
	return scanSources(true, visit)
}

func scanAllSources(visit lineVisitor) RunFunc {
	return scanSources(false, visit)
}

// scanSources builds a RunFunc that walks the classified source listing in
// order and applies the visitor line by line. Unreadable files are skipped
// silently here; IO001 owns reporting them, so four pattern checks sharing a
// broken file do not produce four duplicate findings.
func scanSources(libraryOnly bool, visit lineVisitor) RunFunc {
	return func(_ context.Context, pctx *project.Context, clients Clients) []diagnostics.Finding {
		var findings []diagnostics.Finding
		for _, file := range pctx.Sources {
			if libraryOnly && !file.LibraryContext {
				continue
			}
			content, err := clients.Sources.Load(file.Path)
			if err != nil {
				continue
			}
			for i, line := range strings.Split(content, "\n") {
				if f := visit(file, i+1, line); f != nil {
					findings = append(findings, *f)
				}
			}
		}
		return findings
	}
}
