package risk

import "strings"

// Severity band derived from a score. Never stored independently of the score.
type Severity string

const (
	SeverityLow  Severity = "Low"
	SeverityMed  Severity = "Med"
	SeverityHigh Severity = "High"
)

const (
	MinScore = 0
	MaxScore = 100

	medThreshold  = 35
	highThreshold = 70
)

// method weights, keyed by the normalized (trimmed, upper-cased) method
var methodWeights = map[string]int{
	"ILI":    10,
	"CPCM":   5,
	"VISUAL": 0,
}

const unknownMethodWeight = 2

// MethodWeight returns the additive weight for an inspection method.
func MethodWeight(method string) int {
	if w, ok := methodWeights[strings.ToUpper(strings.TrimSpace(method))]; ok {
		return w
	}
	return unknownMethodWeight
}

// Score computes maxDepthPct + method weight, clamped to [MinScore, MaxScore].
func Score(method string, maxDepthPct int) int {
	return clamp(maxDepthPct + MethodWeight(method))
}

// SeverityFor maps a score onto its band.
func SeverityFor(score int) Severity {
	switch {
	case score < medThreshold:
		return SeverityLow
	case score < highThreshold:
		return SeverityMed
	default:
		return SeverityHigh
	}
}

// Assessment is a score together with its band.
type Assessment struct {
	Score    int
	Severity Severity
}

// Assess applies the scoring rule to one inspection result.
func Assess(method string, maxDepthPct int) Assessment {
	s := Score(method, maxDepthPct)
	return Assessment{Score: s, Severity: SeverityFor(s)}
}

// Baseline is the assessment of a segment that has never been inspected.
func Baseline() Assessment {
	return Assessment{Score: MinScore, Severity: SeverityFor(MinScore)}
}

func clamp(s int) int {
	if s < MinScore {
		return MinScore
	}
	if s > MaxScore {
		return MaxScore
	}
	return s
}
