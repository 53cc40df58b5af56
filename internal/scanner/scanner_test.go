package scanner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"toukei/internal/languages"
)

// writeFixtureFile 是测试辅助函数，用于在临时目录快速落地测试文件。
func writeFixtureFile(t *testing.T, path string, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir fixture dir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture file failed: %v", err)
	}
}

func quietRegistry() *languages.Registry {
	return languages.Build(languages.BuiltinDefinitions(), log.New(io.Discard, "", 0))
}

// TestScanDirectoryTotals 验证目录扫描按语言聚合，未注册后缀被忽略。
func TestScanDirectoryTotals(t *testing.T) {
	tempDir := t.TempDir()

	writeFixtureFile(t, filepath.Join(tempDir, "main.go"), strings.Join([]string{
		"package main",
		"",
		"// entry point",
		"func main() {}",
	}, "\n"))
	writeFixtureFile(t, filepath.Join(tempDir, "pkg", "util.go"), "package pkg\n")
	writeFixtureFile(t, filepath.Join(tempDir, "web", "app.js"), "/* app */\nconst x = 1;\n")
	writeFixtureFile(t, filepath.Join(tempDir, "README.txt"), "not a source file")
	writeFixtureFile(t, filepath.Join(tempDir, "LOUD.GO"), "package loud\n")

	service := NewService(quietRegistry(), Options{Workers: 4})
	result, err := service.ScanPath(context.Background(), tempDir)
	if err != nil {
		t.Fatalf("scan directory failed: %v", err)
	}

	if len(result.Languages) != 2 {
		t.Fatalf("expected 2 language summaries, got %d", len(result.Languages))
	}

	goTotals := result.Languages[languages.Go]
	if goTotals == nil || goTotals.Files != 2 {
		t.Fatalf("unexpected go totals: %+v", goTotals)
	}
	if goTotals.Metrics.Total != 5 || goTotals.Metrics.Code != 3 || goTotals.Metrics.Comment != 1 || goTotals.Metrics.Blank != 1 {
		t.Fatalf("unexpected go metrics: %+v", goTotals.Metrics)
	}

	jsTotals := result.Languages[languages.JavaScript]
	if jsTotals == nil || jsTotals.Metrics.Comment != 1 || jsTotals.Metrics.Code != 1 {
		t.Fatalf("unexpected js totals: %+v", jsTotals)
	}

	total := result.Total()
	if total.Files != 3 || total.Total != 7 {
		t.Fatalf("unexpected total: %+v", total)
	}
	if total.Code+total.Comment+total.Blank != total.Total {
		t.Fatalf("total invariant broken: %+v", total)
	}
}

func TestScanMissingPath(t *testing.T) {
	service := NewService(quietRegistry(), Options{Workers: 1})
	_, err := service.ScanPath(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
}

func TestScanFileIsNotDirectory(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "single.go")
	writeFixtureFile(t, filePath, "package main\n")

	service := NewService(quietRegistry(), Options{Workers: 1})
	_, err := service.ScanPath(context.Background(), filePath)
	if !errors.Is(err, ErrNotDirectory) {
		t.Fatalf("expected ErrNotDirectory, got %v", err)
	}
}

// TestScanLanguageFilter 验证被过滤的语言在扫描阶段就被跳过。
func TestScanLanguageFilter(t *testing.T) {
	tempDir := t.TempDir()
	writeFixtureFile(t, filepath.Join(tempDir, "lib.rs"), "fn main() {\n}\n")
	writeFixtureFile(t, filepath.Join(tempDir, "tool.py"), "print(1)\n")
	writeFixtureFile(t, filepath.Join(tempDir, "main.go"), "package main\n")

	service := NewService(quietRegistry(), Options{Workers: 2, Filters: []string{"rust", "py"}})
	result, err := service.ScanPath(context.Background(), tempDir)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if len(result.Languages) != 2 {
		t.Fatalf("expected 2 languages, got %d", len(result.Languages))
	}
	if _, ok := result.Languages[languages.Go]; ok {
		t.Fatalf("filtered language must not be counted")
	}
	if result.Languages[languages.Rust] == nil || result.Languages[languages.Python] == nil {
		t.Fatalf("expected rust and python entries: %+v", result.Languages)
	}
}

func TestScanFunctionLengths(t *testing.T) {
	tempDir := t.TempDir()
	writeFixtureFile(t, filepath.Join(tempDir, "a.cpp"), "int f() {\n  a;\n  b;\n}\n")
	writeFixtureFile(t, filepath.Join(tempDir, "b.py"), "def f():\n    a = 1\n    b = 2\nx = 1\n")

	service := NewService(quietRegistry(), Options{Workers: 2, Functions: true})
	result, err := service.ScanPath(context.Background(), tempDir)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	cpp := result.Languages[languages.CPP]
	if cpp == nil || len(cpp.FunctionLengths) != 1 || cpp.FunctionLengths[0] != 4 {
		t.Fatalf("unexpected cpp function lengths: %+v", cpp)
	}
	python := result.Languages[languages.Python]
	if python == nil || len(python.FunctionLengths) != 1 || python.FunctionLengths[0] != 3 {
		t.Fatalf("unexpected python function lengths: %+v", python)
	}
	if !result.FunctionStats {
		t.Fatalf("expected function stats flag on result")
	}
}

func TestScanSkipsBinaryFiles(t *testing.T) {
	tempDir := t.TempDir()
	writeFixtureFile(t, filepath.Join(tempDir, "blob.c"), "int x;\x00\x01\x02\n")
	writeFixtureFile(t, filepath.Join(tempDir, "main.c"), "int y;\n")

	service := NewService(quietRegistry(), Options{Workers: 1})
	result, err := service.ScanPath(context.Background(), tempDir)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if got := result.Languages[languages.CPP]; got == nil || got.Files != 1 {
		t.Fatalf("binary file must be skipped: %+v", got)
	}
}

func TestScanExcludeAndVendor(t *testing.T) {
	tempDir := t.TempDir()
	writeFixtureFile(t, filepath.Join(tempDir, "main.go"), "package main\n")
	writeFixtureFile(t, filepath.Join(tempDir, "main_test.go"), "package main\n")
	writeFixtureFile(t, filepath.Join(tempDir, "generated", "types.go"), "package generated\n")
	writeFixtureFile(t, filepath.Join(tempDir, "node_modules", "dep", "index.js"), "module.exports = 1;\n")

	service := NewService(quietRegistry(), Options{
		Workers:    2,
		Exclude:    []string{"*_test.go", "generated"},
		SkipVendor: true,
	})
	result, err := service.ScanPath(context.Background(), tempDir)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if len(result.Languages) != 1 {
		t.Fatalf("expected only go to remain, got %d languages", len(result.Languages))
	}
	if got := result.Languages[languages.Go]; got == nil || got.Files != 1 {
		t.Fatalf("unexpected go totals: %+v", got)
	}
}

// TestScanUnreadableFileIsSoftError 验证无法读取的文件被跳过且不中断扫描。
func TestScanUnreadableFileIsSoftError(t *testing.T) {
	tempDir := t.TempDir()
	writeFixtureFile(t, filepath.Join(tempDir, "locked.go"), "package locked\n")
	writeFixtureFile(t, filepath.Join(tempDir, "open.go"), "package open\n")

	var logs bytes.Buffer
	service := NewService(quietRegistry(), Options{Workers: 2, Logger: log.New(&logs, "", 0)})
	service.readFile = func(name string) ([]byte, error) {
		if filepath.Base(name) == "locked.go" {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
		}
		return os.ReadFile(name)
	}

	result, err := service.ScanPath(context.Background(), tempDir)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if got := result.Languages[languages.Go]; got == nil || got.Files != 1 || got.Metrics.Total != 1 {
		t.Fatalf("unreadable file must not affect counters: %+v", got)
	}
	if len(result.Errors) != 1 || result.Errors[0].Path != "locked.go" {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}
	if !strings.Contains(result.Errors[0].Error, "permission denied") {
		t.Fatalf("unexpected error message: %s", result.Errors[0].Error)
	}
	if !strings.Contains(logs.String(), "locked.go") {
		t.Fatalf("expected diagnostic for locked.go, got %q", logs.String())
	}
}

// TestScanWorkerCountDoesNotChangeTotals 验证并发度不影响聚合结果。
func TestScanWorkerCountDoesNotChangeTotals(t *testing.T) {
	tempDir := t.TempDir()
	for i, body := range []string{"int a() {\n}\n", "// c\nint b;\n\n", "/*\n*/\n"} {
		writeFixtureFile(t, filepath.Join(tempDir, "src", string(rune('a'+i))+".c"), body)
	}

	single, err := NewService(quietRegistry(), Options{Workers: 1, Functions: true}).ScanPath(context.Background(), tempDir)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	parallel, err := NewService(quietRegistry(), Options{Workers: 8, Functions: true}).ScanPath(context.Background(), tempDir)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	left := single.Languages[languages.CPP]
	right := parallel.Languages[languages.CPP]
	if left.Files != right.Files || left.Metrics != right.Metrics || len(left.FunctionLengths) != len(right.FunctionLengths) {
		t.Fatalf("totals differ: %+v vs %+v", left, right)
	}
}

func TestScanCancelled(t *testing.T) {
	tempDir := t.TempDir()
	writeFixtureFile(t, filepath.Join(tempDir, "main.go"), "package main\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewService(quietRegistry(), Options{Workers: 1}).ScanPath(ctx, tempDir)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
