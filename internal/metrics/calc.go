package metrics

import (
	"fmt"
	"sort"

	"github.com/recmetrics/recmetrics/internal/dataset"
	apperrors "github.com/recmetrics/recmetrics/pkg/errors"
)

// calcConfusionsFn is swapped in tests to count confusion builds.
var calcConfusionsFn = CalcConfusions

// tableKey identifies one shared confusion table: the cutoff plus the
// debias bucket. Metrics with identical downsampling parameters share a
// downsampled table.
type tableKey struct {
	k        int
	debiased bool
	params   dataset.DownsampleParams
}

// CalcClassificationMetrics evaluates a set of named metric configurations
// against a prebuilt merged table, building each required confusion table
// at most once per (cutoff, debias bucket) pair.
//
// It fails with a validation error when a catalog-dependent metric is
// requested without a catalog, and with a contract error when a metric
// value implements neither calculator capability.
func CalcClassificationMetrics(requested map[string]Metric, merged []dataset.MergedRow, catalog dataset.Catalog) (map[string]float64, error) {
	names := make([]string, 0, len(requested))
	for name := range requested {
		names = append(names, name)
	}
	sort.Strings(names)

	tables := make(map[tableKey]ConfusionTable)
	results := make(map[string]float64, len(requested))

	for _, name := range names {
		metric := requested[name]

		key := tableKey{k: metric.Cutoff()}
		if p := metric.Debiased(); p != nil {
			key.debiased = true
			key.params = *p
		}

		table, ok := tables[key]
		if !ok {
			rows := merged
			if key.debiased {
				rows = dataset.DownsampleMerged(merged, key.params)
			}
			table = calcConfusionsFn(rows, key.k)
			tables[key] = table
		}

		switch m := metric.(type) {
		case SimpleClassificationMetric:
			results[name] = m.CalcFromConfusions(table)
		case ClassificationMetric:
			if catalog == nil {
				return nil, apperrors.NewValidationError(fmt.Sprintf("metric %q requires a catalog", name))
			}
			results[name] = m.CalcFromConfusions(table, catalog)
		default:
			return nil, apperrors.NewContractError(fmt.Sprintf("unexpected classification metric %q (%T)", name, metric))
		}
	}

	return results, nil
}
