package eval

import (
	"fmt"
	"strings"
)

// ConfusionMatrix counts binary predictions against ground truth.
// Cells are indexed [actual][predicted] with 0 = not a violation and 1 = violation.
type ConfusionMatrix struct {
	Counts [2][2]int
	Total  int
}

// Add records one example.
func (m *ConfusionMatrix) Add(actual, predicted bool) {
	m.Counts[b2i(actual)][b2i(predicted)]++
	m.Total++
}

// Percentages returns every cell as a percentage of the grand total.
// An empty matrix yields all zeros.
func (m *ConfusionMatrix) Percentages() [2][2]float64 {
	var out [2][2]float64
	if m.Total == 0 {
		return out
	}

	for actual := range 2 {
		for predicted := range 2 {
			out[actual][predicted] = float64(m.Counts[actual][predicted]) * 100 / float64(m.Total)
		}
	}

	return out
}

// TruePositives returns violations predicted as violations.
func (m *ConfusionMatrix) TruePositives() int { return m.Counts[1][1] }

// TrueNegatives returns non-violations predicted as non-violations.
func (m *ConfusionMatrix) TrueNegatives() int { return m.Counts[0][0] }

// FalsePositives returns non-violations predicted as violations.
func (m *ConfusionMatrix) FalsePositives() int { return m.Counts[0][1] }

// FalseNegatives returns violations predicted as non-violations.
func (m *ConfusionMatrix) FalseNegatives() int { return m.Counts[1][0] }

// Accuracy returns the share of correct predictions, or 0 for an empty matrix.
func (m *ConfusionMatrix) Accuracy() float64 {
	return ratio(m.TruePositives()+m.TrueNegatives(), m.Total)
}

// Precision returns TP / (TP + FP).
func (m *ConfusionMatrix) Precision() float64 {
	return ratio(m.TruePositives(), m.TruePositives()+m.FalsePositives())
}

// Recall returns TP / (TP + FN).
func (m *ConfusionMatrix) Recall() float64 {
	return ratio(m.TruePositives(), m.TruePositives()+m.FalseNegatives())
}

// Format renders the percentage grid as a fixed-width table.
func (m *ConfusionMatrix) Format() string {
	pct := m.Percentages()

	var b strings.Builder

	fmt.Fprintf(&b, "%-12s %14s %14s\n", "", "Predicted: No", "Predicted: Yes")
	fmt.Fprintf(&b, "%-12s %13.2f%% %13.2f%%\n", "Actual: No", pct[0][0], pct[0][1])
	fmt.Fprintf(&b, "%-12s %13.2f%% %13.2f%%\n", "Actual: Yes", pct[1][0], pct[1][1])
	fmt.Fprintf(&b, "\nExamples: %d | Accuracy: %.2f%% | Precision: %.2f%% | Recall: %.2f%%",
		m.Total, m.Accuracy()*100, m.Precision()*100, m.Recall()*100)

	return b.String()
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}

	return float64(num) / float64(den)
}

func b2i(v bool) int {
	if v {
		return 1
	}

	return 0
}
