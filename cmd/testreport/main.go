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

// Command testreport turns `go test -json` output into JSON and Markdown
// reports annotated with each test's header.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rentdesk/rentdesk/internal/testreport"
)

func main() {
	input := flag.String("input", "", "Path to go test -json output")
	outJSON := flag.String("out-json", "", "Path for the JSON report")
	outMD := flag.String("out-md", "", "Path for the Markdown report")
	title := flag.String("title", "Test Report", "Report title")
	root := flag.String("root", ".", "Module root to scan for tests")
	module := flag.String("module", "github.com/rentdesk/rentdesk", "Module import path")
	flag.Parse()

	if *input == "" || *outJSON == "" || *outMD == "" {
		fmt.Println("Usage: testreport -input <json_file> -out-json <out_json> -out-md <out_md>")
		os.Exit(1)
	}

	if err := run(*input, *outJSON, *outMD, *title, *root, *module); err != nil {
		fmt.Fprintf(os.Stderr, "testreport: %v\n", err)
		os.Exit(1)
	}
}

func run(input, outJSON, outMD, title, root, module string) error {
	ann, err := testreport.Scan(os.DirFS(root), module)
	if err != nil {
		return err
	}

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("failed to open test output: %w", err)
	}
	defer f.Close()

	rep, err := testreport.Merge(f, ann)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFile(outJSON, data); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outMD), 0o755); err != nil {
		return err
	}
	md, err := os.Create(outMD)
	if err != nil {
		return err
	}
	defer md.Close()
	if err := rep.WriteMarkdown(md, title); err != nil {
		return err
	}

	if rep.Failed > 0 {
		return fmt.Errorf("%d tests failed", rep.Failed)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
