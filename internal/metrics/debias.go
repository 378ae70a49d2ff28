package metrics

import "github.com/recmetrics/recmetrics/internal/dataset"

// DebiasedSimpleMetric wraps a catalog-free metric with a popularity
// downsampling pre-step. The wrapped formula is untouched; only the
// interaction table fed into confusion counting changes. Results are
// deterministic for a fixed seed.
type DebiasedSimpleMetric struct {
	inner  SimpleClassificationMetric
	params dataset.DownsampleParams
}

// NewDebiasedSimple wraps a catalog-free metric with debiasing.
func NewDebiasedSimple(inner SimpleClassificationMetric, params dataset.DownsampleParams) *DebiasedSimpleMetric {
	return &DebiasedSimpleMetric{inner: inner, params: params}
}

// Cutoff returns the wrapped metric's cutoff.
func (m *DebiasedSimpleMetric) Cutoff() int { return m.inner.Cutoff() }

// NeedsCatalog reports the wrapped metric's catalog requirement.
func (m *DebiasedSimpleMetric) NeedsCatalog() bool { return m.inner.NeedsCatalog() }

// Debiased returns the downsampling parameters.
func (m *DebiasedSimpleMetric) Debiased() *dataset.DownsampleParams {
	p := m.params
	return &p
}

// Calc downsamples interactions, then evaluates the wrapped metric.
func (m *DebiasedSimpleMetric) Calc(reco []dataset.RecoRow, interactions []dataset.Interaction) float64 {
	return m.inner.Calc(reco, dataset.Downsample(interactions, m.params))
}

// CalcPerUser downsamples interactions, then evaluates per user.
func (m *DebiasedSimpleMetric) CalcPerUser(reco []dataset.RecoRow, interactions []dataset.Interaction) PerUser {
	return m.inner.CalcPerUser(reco, dataset.Downsample(interactions, m.params))
}

// CalcFromConfusions evaluates a confusion table that is expected to have
// been built from downsampled data already.
func (m *DebiasedSimpleMetric) CalcFromConfusions(table ConfusionTable) float64 {
	return m.inner.CalcFromConfusions(table)
}

// CalcPerUserFromConfusions evaluates a prebuilt confusion table per user.
func (m *DebiasedSimpleMetric) CalcPerUserFromConfusions(table ConfusionTable) PerUser {
	return m.inner.CalcPerUserFromConfusions(table)
}

// DebiasedCatalogMetric is the debiasing wrapper for catalog-dependent
// metrics.
type DebiasedCatalogMetric struct {
	inner  ClassificationMetric
	params dataset.DownsampleParams
}

// NewDebiasedCatalog wraps a catalog-dependent metric with debiasing.
func NewDebiasedCatalog(inner ClassificationMetric, params dataset.DownsampleParams) *DebiasedCatalogMetric {
	return &DebiasedCatalogMetric{inner: inner, params: params}
}

// Cutoff returns the wrapped metric's cutoff.
func (m *DebiasedCatalogMetric) Cutoff() int { return m.inner.Cutoff() }

// NeedsCatalog reports the wrapped metric's catalog requirement.
func (m *DebiasedCatalogMetric) NeedsCatalog() bool { return m.inner.NeedsCatalog() }

// Debiased returns the downsampling parameters.
func (m *DebiasedCatalogMetric) Debiased() *dataset.DownsampleParams {
	p := m.params
	return &p
}

// Calc downsamples interactions, then evaluates the wrapped metric.
func (m *DebiasedCatalogMetric) Calc(reco []dataset.RecoRow, interactions []dataset.Interaction, catalog dataset.Catalog) float64 {
	return m.inner.Calc(reco, dataset.Downsample(interactions, m.params), catalog)
}

// CalcPerUser downsamples interactions, then evaluates per user.
func (m *DebiasedCatalogMetric) CalcPerUser(reco []dataset.RecoRow, interactions []dataset.Interaction, catalog dataset.Catalog) PerUser {
	return m.inner.CalcPerUser(reco, dataset.Downsample(interactions, m.params), catalog)
}

// CalcFromConfusions evaluates a confusion table that is expected to have
// been built from downsampled data already.
func (m *DebiasedCatalogMetric) CalcFromConfusions(table ConfusionTable, catalog dataset.Catalog) float64 {
	return m.inner.CalcFromConfusions(table, catalog)
}

// CalcPerUserFromConfusions evaluates a prebuilt confusion table per user.
func (m *DebiasedCatalogMetric) CalcPerUserFromConfusions(table ConfusionTable, catalog dataset.Catalog) PerUser {
	return m.inner.CalcPerUserFromConfusions(table, catalog)
}
