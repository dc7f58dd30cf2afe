package about_writer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/meysamhadeli/aboutwriter/about_writer/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, time.March, 5, 9, 7, 3, 0, time.Local)

func testWriter(opts Options) *AboutWriter {
	if opts.Author == "" {
		opts.Author = "Ada"
	}
	opts.Timestamp = func(string) time.Time { return fixedTime }
	return newAboutWriter(opts)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(data)
}

type collectingReporter struct {
	results []models.Result
}

func (r *collectingReporter) Report(result models.Result) {
	r.results = append(r.results, result)
}

type failingChecker struct{}

func (failingChecker) Supports(string) bool { return true }
func (failingChecker) Check(context.Context, string, []byte, []byte) error {
	return errors.New("broken")
}

func TestProcessFile_AnnotatesFile(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "main.c", "int main(void) { return 0; }\n")

	result := testWriter(Options{}).ProcessFile(context.Background(), p)

	require.Equal(t, models.StatusProcessed, result.Status, result.Reason)
	want := "/*\nMAIN.C C Source Code\nAuthor: Ada\nCreated: 5 March 2024 @ 09:07:03\n*/\n\nint main(void) { return 0; }\n"
	assert.Equal(t, want, readFile(t, p))
	assert.Empty(t, result.Backup)
}

func TestProcessFile_PythonPreamble(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "app.py", "#!/usr/bin/env python\n# -*- coding: utf-8 -*-\nprint(\"hi\")\n")

	result := testWriter(Options{}).ProcessFile(context.Background(), p)

	require.Equal(t, models.StatusProcessed, result.Status)
	want := "#!/usr/bin/env python\n# -*- coding: utf-8 -*-\n" +
		"\"\"\"\nAPP.PY Python Script\nAuthor: Ada\nCreated: 5 March 2024 @ 09:07:03\n\"\"\"\n\n" +
		"print(\"hi\")\n"
	assert.Equal(t, want, readFile(t, p))
}

func TestProcessFile_Doctype(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "index.html", "<!DOCTYPE html>\n<html></html>\n")

	result := testWriter(Options{}).ProcessFile(context.Background(), p)

	require.Equal(t, models.StatusProcessed, result.Status)
	got := readFile(t, p)
	assert.True(t, strings.HasPrefix(got, "<!DOCTYPE html>\n<!--\nINDEX.HTML "), got)
	assert.True(t, strings.HasSuffix(got, "-->\n\n<html></html>\n"), got)
}

func TestProcessFile_Idempotent(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "main.go", "package main\n")
	writer := testWriter(Options{})

	first := writer.ProcessFile(context.Background(), p)
	require.Equal(t, models.StatusProcessed, first.Status)
	annotated := readFile(t, p)

	second := writer.ProcessFile(context.Background(), p)
	assert.Equal(t, models.StatusSkipped, second.Status)
	assert.Equal(t, ErrAlreadyAnnotated.Error(), second.Reason)
	assert.Equal(t, annotated, readFile(t, p))
}

func TestProcessFile_ForceAddsSecondStatement(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "main.go", "package main\n")
	writer := testWriter(Options{Force: true})

	require.Equal(t, models.StatusProcessed, writer.ProcessFile(context.Background(), p).Status)
	require.Equal(t, models.StatusProcessed, writer.ProcessFile(context.Background(), p).Status)

	assert.Equal(t, 2, strings.Count(readFile(t, p), "// Author: Ada"))
}

func TestProcessFile_Backup(t *testing.T) {
	dir := t.TempDir()
	big := strings.Repeat("int a;\n", 1500)
	bigPath := writeFile(t, dir, "big.c", big)
	smallPath := writeFile(t, dir, "small.c", "int a;\n")
	writer := testWriter(Options{})

	result := writer.ProcessFile(context.Background(), bigPath)
	require.Equal(t, models.StatusProcessed, result.Status)
	assert.Equal(t, bigPath+".bak", result.Backup)
	assert.Equal(t, big, readFile(t, bigPath+".bak"))

	result = writer.ProcessFile(context.Background(), smallPath)
	require.Equal(t, models.StatusProcessed, result.Status)
	assert.Empty(t, result.Backup)
	assert.NoFileExists(t, smallPath+".bak")
}

func TestProcessFile_BackupThresholdIsExclusive(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "edge.txt", strings.Repeat("a", int(DefaultBackupThreshold)))

	result := testWriter(Options{}).ProcessFile(context.Background(), p)

	require.Equal(t, models.StatusProcessed, result.Status)
	assert.NoFileExists(t, p+".bak")
}

func TestProcessFile_DryRun(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "main.c", "int x;\n")

	result := testWriter(Options{DryRun: true}).ProcessFile(context.Background(), p)

	assert.Equal(t, models.StatusProcessed, result.Status)
	assert.Equal(t, "dry run", result.Reason)
	assert.Contains(t, result.Statement, "MAIN.C C Source Code")
	assert.Equal(t, "int x;\n", readFile(t, p))
}

func TestProcessFile_Errors(t *testing.T) {
	dir := t.TempDir()
	unsupported := writeFile(t, dir, "data.bin", "x")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pkg.go"), 0755))
	writer := testWriter(Options{})

	cases := map[string]struct {
		path string
		want error
	}{
		"unsupported extension": {path: unsupported, want: ErrUnsupportedFormat},
		"missing file":          {path: filepath.Join(dir, "missing.c"), want: ErrNotFound},
		"directory":             {path: filepath.Join(dir, "pkg.go"), want: ErrNotAFile},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			result := writer.ProcessFile(context.Background(), tc.path)
			assert.Equal(t, models.StatusError, result.Status)
			assert.ErrorIs(t, result.Err, tc.want)
			assert.NotEmpty(t, result.Reason)
		})
	}
	assert.Equal(t, "x", readFile(t, unsupported))
}

func TestProcessFile_VerifyFailureLeavesFile(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "main.go", "package main\n")

	result := testWriter(Options{Verify: true, Checker: failingChecker{}}).ProcessFile(context.Background(), p)

	assert.Equal(t, models.StatusError, result.Status)
	assert.ErrorIs(t, result.Err, ErrVerifyFailure)
	assert.Equal(t, "package main\n", readFile(t, p))
}

func TestProcessFile_AtomicWriteKeepsMode(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "run.sh", "#!/bin/sh\necho hi\n")
	require.NoError(t, os.Chmod(p, 0755))

	result := testWriter(Options{AtomicWrite: true}).ProcessFile(context.Background(), p)
	require.Equal(t, models.StatusProcessed, result.Status)

	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	assert.True(t, strings.HasPrefix(readFile(t, p), "#!/bin/sh\n: '\nRUN.SH Shell Script\n"))
}

func TestProcessFile_SymlinkKeepsLink(t *testing.T) {
	for name, atomicWrite := range map[string]bool{"atomic": true, "in place": false} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			target := writeFile(t, dir, "real/lib.c", "int x;\n")
			link := filepath.Join(dir, "src", "lib.c")
			require.NoError(t, os.MkdirAll(filepath.Dir(link), 0755))
			if err := os.Symlink(target, link); err != nil {
				t.Skipf("symlinks unavailable: %v", err)
			}

			result := testWriter(Options{AtomicWrite: atomicWrite}).ProcessFile(context.Background(), link)
			require.Equal(t, models.StatusProcessed, result.Status, result.Reason)

			info, err := os.Lstat(link)
			require.NoError(t, err)
			assert.NotZero(t, info.Mode()&os.ModeSymlink, "link replaced by a regular file")
			assert.True(t, strings.HasPrefix(readFile(t, target), "/*\nLIB.C C Source Code\n"))
			assert.True(t, strings.HasSuffix(readFile(t, target), "int x;\n"))
		})
	}
}

func TestProcessFile_LedgerSkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	ledger, err := NewLedger(t.TempDir())
	require.NoError(t, err)
	p := writeFile(t, dir, "main.c", "int x;\n")

	writer := testWriter(Options{Ledger: ledger})
	require.Equal(t, models.StatusProcessed, writer.ProcessFile(context.Background(), p).Status)

	second := writer.ProcessFile(context.Background(), p)
	assert.Equal(t, models.StatusSkipped, second.Status)
	assert.Equal(t, "unchanged since last annotation", second.Reason)

	stats := ledger.GetPerformanceStats()
	assert.Equal(t, int64(1), stats["hits"])
}

func TestRun_Summary(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.c", "int a;\n"),
		writeFile(t, dir, "b.py", "print(1)\n"),
		writeFile(t, dir, "c.go", "// C.GO\npackage c\n"),
		filepath.Join(dir, "gone.js"),
	}
	reporter := &collectingReporter{}

	summary, err := testWriter(Options{Reporter: reporter}).Run(context.Background(), paths)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 4, summary.Total())
	require.Len(t, reporter.results, 4)
	assert.Equal(t, paths[3], reporter.results[3].Path)
}

func TestRun_Interrupted(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.c", "int a;\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := testWriter(Options{}).Run(ctx, []string{p})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Total())
	assert.Equal(t, "int a;\n", readFile(t, p))
}
