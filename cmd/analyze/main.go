// Command analyze scores a CV file from the command line:
//
//	go run ./cmd/analyze -cv resume.pdf [-jd job.txt] [-pretty]
//
// A .json file is read as a structured CV; any other file goes through text
// extraction and section parsing first.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cv-analyzer/internal/analyzer"
	"cv-analyzer/internal/extract"
	"cv-analyzer/internal/shared/util"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "analyze:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	cvPath := fs.String("cv", "", "path to the CV (.json, .pdf, .docx or .txt)")
	jdPath := fs.String("jd", "", "path to a job description text file")
	pretty := fs.Bool("pretty", false, "indent the JSON output")
	limit := fs.Int("keywords", analyzer.DefaultKeywordLimit, "maximum job description keywords")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *cvPath == "" {
		return errors.New("-cv is required")
	}

	doc, err := loadDocument(ctx, *cvPath)
	if err != nil {
		return err
	}
	var jd string
	if *jdPath != "" {
		raw, err := os.ReadFile(*jdPath)
		if err != nil {
			return fmt.Errorf("read job description: %w", err)
		}
		jd = string(raw)
	}

	result := analyzer.New(analyzer.WithKeywordLimit(*limit)).Analyze(doc, jd)

	enc := json.NewEncoder(stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

func loadDocument(ctx context.Context, path string) (analyzer.CVDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return analyzer.CVDocument{}, fmt.Errorf("read cv: %w", err)
	}
	ext := util.FileExtension(path)
	if ext == "json" {
		var doc analyzer.CVDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return analyzer.CVDocument{}, fmt.Errorf("decode cv json: %w", err)
		}
		return doc, nil
	}
	text, err := extract.ExtractTextFromBytes(ctx, raw, "", filepath.Base(path))
	if err != nil {
		return analyzer.CVDocument{}, fmt.Errorf("extract %s: %w", strings.ToUpper(ext), err)
	}
	return extract.ParseDocument(text, ext), nil
}
