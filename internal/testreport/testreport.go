// Copyright 2026 The RentDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testreport joins the annotation headers on test functions with
// the results of a `go test -json` run.
package testreport

import (
	"bufio"
	"encoding/json"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

// Test statuses.
const (
	StatusPass   = "pass"
	StatusFail   = "fail"
	StatusSkip   = "skip"
	StatusNotRun = "not run"
)

// Annotation is the header written above a test function.
type Annotation struct {
	Name       string `json:"name"`
	Package    string `json:"package"`
	Purpose    string `json:"purpose,omitempty"`
	Scope      string `json:"scope,omitempty"`
	Expected   string `json:"expected,omitempty"`
	TestCaseID string `json:"test_case_id,omitempty"`
	Area       string `json:"area"`
}

// Result is one test with its outcome.
type Result struct {
	Annotation
	Status  string  `json:"status"`
	Elapsed float64 `json:"elapsed_seconds"`
	Output  string  `json:"failure_output,omitempty"`
}

// Report is the summary of a run.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Total       int       `json:"total"`
	Passed      int       `json:"passed"`
	Failed      int       `json:"failed"`
	Skipped     int       `json:"skipped"`
	Results     []Result  `json:"results"`
}

// event is one line of `go test -json`.
type event struct {
	Action  string  `json:"Action"`
	Package string  `json:"Package"`
	Test    string  `json:"Test"`
	Elapsed float64 `json:"Elapsed"`
	Output  string  `json:"Output"`
}

var headerFields = map[string]func(*Annotation, string){
	"TestPurpose:":  func(a *Annotation, v string) { a.Purpose = v },
	"Scope:":        func(a *Annotation, v string) { a.Scope = v },
	"Expected:":     func(a *Annotation, v string) { a.Expected = v },
	"Test Case ID:": func(a *Annotation, v string) { a.TestCaseID = v },
}

// areas maps a package directory prefix onto the part of the product it
// covers. Longer prefixes are checked first.
var areas = []struct{ prefix, area string }{
	{"internal/transport/http", "Pages"},
	{"internal/store", "Sessions"},
	{"internal/session", "Sessions"},
	{"internal/billing", "Billing"},
	{"internal/tenant", "Dashboards"},
	{"internal/apiclient", "Rental API"},
	{"internal/view", "Navigation"},
	{"internal/forms", "Forms"},
	{"internal/poll", "Live updates"},
	{"internal/audit", "Audit"},
}

func areaFor(dir string) string {
	for _, a := range areas {
		if strings.HasPrefix(dir, a.prefix) {
			return a.area
		}
	}
	return "Other"
}

// Scan reads the test annotations of every _test.go file in fsys. Keys are
// "<import path>.<TestName>".
func Scan(fsys fs.FS, modulePath string) (map[string]Annotation, error) {
	out := make(map[string]Annotation)
	fset := token.NewFileSet()

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); p != "." && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == "vendor") {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(p, "_test.go") {
			return nil
		}

		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		file, err := parser.ParseFile(fset, p, src, parser.ParseComments)
		if err != nil {
			return nil
		}

		dir := path.Dir(p)
		pkg := modulePath
		if dir != "." {
			pkg = modulePath + "/" + dir
		}
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv != nil || !strings.HasPrefix(fn.Name.Name, "Test") {
				continue
			}
			a := Annotation{Name: fn.Name.Name, Package: pkg, Area: areaFor(dir)}
			if fn.Doc != nil {
				for _, c := range fn.Doc.List {
					text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
					for prefix, set := range headerFields {
						if strings.HasPrefix(text, prefix) {
							set(&a, strings.TrimSpace(strings.TrimPrefix(text, prefix)))
						}
					}
				}
			}
			out[pkg+"."+a.Name] = a
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan tests: %w", err)
	}
	return out, nil
}

// Merge folds a `go test -json` stream into the annotated tests. Subtests
// inherit their parent's annotation; annotated tests that never ran are
// reported as not run.
func Merge(r io.Reader, annotations map[string]Annotation) (*Report, error) {
	results := make(map[string]*Result, len(annotations))
	for key, a := range annotations {
		results[key] = &Result{Annotation: a, Status: StatusNotRun}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var ev event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil || ev.Test == "" {
			continue
		}

		key := ev.Package + "." + ev.Test
		res, ok := results[key]
		if !ok {
			parent, _, _ := strings.Cut(ev.Test, "/")
			a, found := annotations[ev.Package+"."+parent]
			if !found {
				a = Annotation{Package: ev.Package, Area: "Other"}
			}
			a.Name = ev.Test
			res = &Result{Annotation: a}
			results[key] = res
		}

		switch ev.Action {
		case "pass":
			res.Status, res.Elapsed = StatusPass, ev.Elapsed
		case "fail":
			res.Status, res.Elapsed = StatusFail, ev.Elapsed
		case "skip":
			res.Status = StatusSkip
		case "output":
			res.Output += ev.Output
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read test output: %w", err)
	}

	rep := &Report{GeneratedAt: time.Now().UTC()}
	for _, res := range results {
		if res.Status != StatusFail {
			res.Output = ""
		}
		rep.Results = append(rep.Results, *res)
		rep.Total++
		switch res.Status {
		case StatusPass:
			rep.Passed++
		case StatusFail:
			rep.Failed++
		case StatusSkip:
			rep.Skipped++
		}
	}
	sort.Slice(rep.Results, func(i, j int) bool {
		a, b := rep.Results[i], rep.Results[j]
		if a.Area != b.Area {
			return a.Area < b.Area
		}
		if a.Package != b.Package {
			return a.Package < b.Package
		}
		return a.Name < b.Name
	})
	return rep, nil
}

// PassRate is the percentage of tests that passed.
func (r *Report) PassRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total) * 100
}

var statusMarks = map[string]string{
	StatusPass:   "pass",
	StatusFail:   "**FAIL**",
	StatusSkip:   "skip",
	StatusNotRun: "not run",
}

// WriteMarkdown renders the report grouped by area.
func (r *Report) WriteMarkdown(w io.Writer, title string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# RentDesk %s\n\n", title)
	fmt.Fprintf(&sb, "Generated %s\n\n", r.GeneratedAt.Format(time.RFC1123))
	sb.WriteString("| Total | Passed | Failed | Skipped | Pass rate |\n")
	sb.WriteString("|-------|--------|--------|---------|-----------|\n")
	fmt.Fprintf(&sb, "| %d | %d | %d | %d | %.1f%% |\n", r.Total, r.Passed, r.Failed, r.Skipped, r.PassRate())

	area := ""
	for _, res := range r.Results {
		if res.Area != area {
			area = res.Area
			fmt.Fprintf(&sb, "\n## %s\n\n", area)
			sb.WriteString("| ID | Test | Status | Purpose |\n")
			sb.WriteString("|----|------|--------|---------|\n")
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", res.TestCaseID, res.Name, statusMarks[res.Status], res.Purpose)
	}

	if r.Failed > 0 {
		sb.WriteString("\n## Failures\n")
		for _, res := range r.Results {
			if res.Status == StatusFail {
				fmt.Fprintf(&sb, "\n### %s (%s)\n\n```\n%s```\n", res.Name, res.Package, res.Output)
			}
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
