package governance

import "math"

// anomalyZThreshold flags values more than four standard deviations from the
// historical mean.
const anomalyZThreshold = 4.0

// anomalyMinHistory is the minimum number of history rows required before the
// detector says anything at all.
const anomalyMinHistory = 3

// Anomaly is one metric whose current value sits far outside its history.
type Anomaly struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	ZScore float64 `json:"z_score"`
}

// AnomalyReport summarizes a detection pass over one snapshot.
type AnomalyReport struct {
	Anomalies []Anomaly `json:"anomalies"`
	Severity  Severity  `json:"severity,omitempty"`
}

// DetectAnomalies compares each current metric against its own history using
// z-scores. Pure: the report is advisory and feeds no state transition. Fewer
// than three history rows produce an empty report.
func DetectAnomalies(current map[string]float64, history []map[string]float64) AnomalyReport {
	if len(history) < anomalyMinHistory {
		return AnomalyReport{}
	}

	var report AnomalyReport
	for metric, value := range current {
		var values []float64
		for _, row := range history {
			if v, ok := row[metric]; ok {
				values = append(values, v)
			}
		}
		if len(values) < anomalyMinHistory {
			continue
		}

		mean := 0.0
		for _, v := range values {
			mean += v
		}
		mean /= float64(len(values))

		variance := 0.0
		for _, v := range values {
			variance += (v - mean) * (v - mean)
		}
		stdDev := math.Sqrt(variance / float64(len(values)))
		if stdDev == 0 {
			continue
		}

		z := math.Abs(value-mean) / stdDev
		if z > anomalyZThreshold {
			report.Anomalies = append(report.Anomalies, Anomaly{
				Metric: metric,
				Value:  value,
				Mean:   mean,
				StdDev: stdDev,
				ZScore: z,
			})
		}
	}

	switch {
	case len(report.Anomalies) >= 3:
		report.Severity = SeverityCritical
	case len(report.Anomalies) == 2:
		report.Severity = SeverityHigh
	case len(report.Anomalies) == 1:
		report.Severity = SeverityMedium
	}
	return report
}
