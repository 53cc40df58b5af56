// Package stats 计算样本的均值、中位数与极值。
package stats

import "sort"

// Summary 是一个非空样本的统计摘要。
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

// Summarize 计算样本摘要。空样本返回 false，调用方应直接省略该语言。
func Summarize(values []int) (Summary, bool) {
	if len(values) == 0 {
		return Summary{}, false
	}

	summary := Summary{
		Count: len(values),
		Min:   values[0],
		Max:   values[0],
	}

	sum := 0
	for _, value := range values {
		sum += value
		if value < summary.Min {
			summary.Min = value
		}
		if value > summary.Max {
			summary.Max = value
		}
	}
	summary.Mean = float64(sum) / float64(len(values))
	summary.Median = Median(values)

	return summary, true
}

// Median 在排序副本上取中位数：奇数个取中间值，偶数个取中间两值的平均。
// 空样本返回 0。
func Median(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := append([]int(nil), values...)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return float64(sorted[mid-1]+sorted[mid]) / 2
	}
	return float64(sorted[mid])
}
