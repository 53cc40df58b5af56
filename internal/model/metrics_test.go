package model

import (
	"sort"
	"testing"

	"toukei/internal/languages"
)

func sampleResults() (FileScanResult, FileScanResult) {
	a := FileScanResult{
		Metrics:         LineMetrics{Total: 10, Code: 6, Comment: 3, Blank: 1},
		FunctionLengths: []int{4, 2},
	}
	b := FileScanResult{
		Metrics:         LineMetrics{Total: 7, Code: 5, Comment: 0, Blank: 2},
		FunctionLengths: []int{5},
	}
	return a, b
}

func sortedCopy(values []int) []int {
	result := append([]int(nil), values...)
	sort.Ints(result)
	return result
}

// TestMergeOrderIndependent 验证先合并 A 再合并 B 与相反顺序得到相同累计值。
func TestMergeOrderIndependent(t *testing.T) {
	a, b := sampleResults()

	forward := Totals{}
	forward.Entry(languages.Go, "Go").Merge(a)
	forward.Entry(languages.Go, "Go").Merge(b)

	backward := Totals{}
	backward.Entry(languages.Go, "Go").Merge(b)
	backward.Entry(languages.Go, "Go").Merge(a)

	left := forward[languages.Go]
	right := backward[languages.Go]

	if left.Files != right.Files || left.Metrics != right.Metrics {
		t.Fatalf("totals differ: %+v vs %+v", left, right)
	}

	leftSample := sortedCopy(left.FunctionLengths)
	rightSample := sortedCopy(right.FunctionLengths)
	if len(leftSample) != 3 || len(rightSample) != 3 {
		t.Fatalf("unexpected samples: %v vs %v", leftSample, rightSample)
	}
	for i := range leftSample {
		if leftSample[i] != rightSample[i] {
			t.Fatalf("samples differ: %v vs %v", leftSample, rightSample)
		}
	}

	if left.Metrics.Total != 17 || left.Files != 2 {
		t.Fatalf("unexpected merged totals: %+v", left)
	}
}

func TestMergeDropsNonPositiveSamples(t *testing.T) {
	totals := Totals{}
	totals.Entry(languages.Python, "Python").Merge(FileScanResult{FunctionLengths: []int{0, -1, 3}})

	got := totals[languages.Python].FunctionLengths
	if len(got) != 1 || got[0] != 3 {
		t.Fatalf("unexpected sample: %v", got)
	}
}

func TestSortedByTotalDescending(t *testing.T) {
	totals := Totals{}
	totals.Entry(languages.Go, "Go").Merge(FileScanResult{Metrics: LineMetrics{Total: 5, Code: 5}})
	totals.Entry(languages.Python, "Python").Merge(FileScanResult{Metrics: LineMetrics{Total: 9, Code: 9}})
	totals.Entry(languages.CPP, "C/C++").Merge(FileScanResult{Metrics: LineMetrics{Total: 5, Code: 5}})
	totals.Entry(languages.Rust, "Rust")

	sorted := totals.Sorted()
	if len(sorted) != 3 {
		t.Fatalf("languages without files must be omitted, got %d entries", len(sorted))
	}
	if sorted[0].Language != languages.Python || sorted[1].Language != languages.CPP || sorted[2].Language != languages.Go {
		t.Fatalf("unexpected order: %s, %s, %s", sorted[0].Language, sorted[1].Language, sorted[2].Language)
	}

	sum := totals.Sum()
	if sum.Files != 3 || sum.Total != 19 || sum.Code != 19 {
		t.Fatalf("unexpected sum: %+v", sum)
	}
}
