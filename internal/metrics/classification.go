package metrics

import (
	"math"

	"github.com/recmetrics/recmetrics/internal/dataset"
)

// PerUser holds a metric value per user id. Undefined values (e.g. recall
// for a user with no interactions) are NaN, never silently zeroed.
type PerUser map[string]float64

// Mean averages the defined values, skipping NaN entries. It returns NaN
// when no value is defined.
func (p PerUser) Mean() float64 {
	var sum float64
	var n int
	for _, v := range p {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Metric is the capability surface shared by every classification metric
// variant. NeedsCatalog and Debiased are static declarations the batch
// driver groups and dispatches on.
type Metric interface {
	// Cutoff returns k, the number of top-ranked items considered per user.
	Cutoff() int
	// NeedsCatalog reports whether the metric derives true negatives and
	// therefore requires a catalog.
	NeedsCatalog() bool
	// Debiased returns the downsampling parameters for debiased variants,
	// or nil for plain metrics.
	Debiased() *dataset.DownsampleParams
}

// SimpleClassificationMetric is a classification metric computable from
// confusion counts alone: precision, recall, F-beta and their debiased
// variants.
type SimpleClassificationMetric interface {
	Metric
	Calc(reco []dataset.RecoRow, interactions []dataset.Interaction) float64
	CalcPerUser(reco []dataset.RecoRow, interactions []dataset.Interaction) PerUser
	CalcFromConfusions(table ConfusionTable) float64
	CalcPerUserFromConfusions(table ConfusionTable) PerUser
}

// ClassificationMetric is a classification metric that also needs the
// catalog size to derive true negatives: accuracy, MCC and their debiased
// variants.
type ClassificationMetric interface {
	Metric
	Calc(reco []dataset.RecoRow, interactions []dataset.Interaction, catalog dataset.Catalog) float64
	CalcPerUser(reco []dataset.RecoRow, interactions []dataset.Interaction, catalog dataset.Catalog) PerUser
	CalcFromConfusions(table ConfusionTable, catalog dataset.Catalog) float64
	CalcPerUserFromConfusions(table ConfusionTable, catalog dataset.Catalog) PerUser
}

// simpleBase carries the four-method calculator surface for catalog-free
// metrics; concrete metrics supply the per-row formula.
type simpleBase struct {
	k   int
	row func(c Confusion) float64
}

func (b simpleBase) Cutoff() int { return b.k }
func (b simpleBase) NeedsCatalog() bool { return false }
func (b simpleBase) Debiased() *dataset.DownsampleParams { return nil }

func (b simpleBase) CalcPerUserFromConfusions(table ConfusionTable) PerUser {
	values := make(PerUser, len(table))
	for user, c := range table {
		values[user] = b.row(c)
	}
	return values
}

func (b simpleBase) CalcFromConfusions(table ConfusionTable) float64 {
	return b.CalcPerUserFromConfusions(table).Mean()
}

func (b simpleBase) CalcPerUser(reco []dataset.RecoRow, interactions []dataset.Interaction) PerUser {
	return b.CalcPerUserFromConfusions(MakeConfusions(reco, interactions, b.k))
}

func (b simpleBase) Calc(reco []dataset.RecoRow, interactions []dataset.Interaction) float64 {
	return b.CalcPerUser(reco, interactions).Mean()
}

// catalogBase is the counterpart for metrics that derive true negatives.
// Rows where TN would go negative (catalog smaller than k + FN) are
// reported as NaN.
type catalogBase struct {
	k   int
	row func(c Confusion, tn, catalogSize int) float64
}

func (b catalogBase) Cutoff() int { return b.k }
func (b catalogBase) NeedsCatalog() bool { return true }
func (b catalogBase) Debiased() *dataset.DownsampleParams { return nil }

func (b catalogBase) CalcPerUserFromConfusions(table ConfusionTable, catalog dataset.Catalog) PerUser {
	size := catalog.Size()
	values := make(PerUser, len(table))
	for user, c := range table {
		tn := trueNegatives(c, b.k, size)
		if tn < 0 {
			values[user] = math.NaN()
			continue
		}
		values[user] = b.row(c, tn, size)
	}
	return values
}

func (b catalogBase) CalcFromConfusions(table ConfusionTable, catalog dataset.Catalog) float64 {
	return b.CalcPerUserFromConfusions(table, catalog).Mean()
}

func (b catalogBase) CalcPerUser(reco []dataset.RecoRow, interactions []dataset.Interaction, catalog dataset.Catalog) PerUser {
	return b.CalcPerUserFromConfusions(MakeConfusions(reco, interactions, b.k), catalog)
}

func (b catalogBase) Calc(reco []dataset.RecoRow, interactions []dataset.Interaction, catalog dataset.Catalog) float64 {
	return b.CalcPerUser(reco, interactions, catalog).Mean()
}

// Precision is the ratio of relevant items among the top-k recommended
// items: TP / k.
type Precision struct{ simpleBase }

// NewPrecision builds precision@k.
func NewPrecision(k int) Precision {
	return Precision{simpleBase{k: k, row: func(c Confusion) float64 {
		return float64(c.TP) / float64(k)
	}}}
}

// Recall is the ratio of relevant recommended items among everything the
// user interacted with: TP / liked. Undefined (NaN) when the user has no
// interactions; that edge is meaningful and intentionally not masked.
type Recall struct{ simpleBase }

// NewRecall builds recall@k.
func NewRecall(k int) Recall {
	return Recall{simpleBase{k: k, row: func(c Confusion) float64 {
		if c.Liked == 0 {
			return math.NaN()
		}
		return float64(c.TP) / float64(c.Liked)
	}}}
}

// FBeta is the weighted harmonic mean of precision@k and recall@k:
// (1 + beta^2) * P * R / (beta^2 * P + R). Zero when both P and R are
// zero, which is the algebraic limit at that singular point.
type FBeta struct {
	simpleBase
	Beta float64
}

// NewFBeta builds F-beta@k with the given recall weight.
func NewFBeta(k int, beta float64) FBeta {
	betaSqr := beta * beta
	return FBeta{
		simpleBase: simpleBase{k: k, row: func(c Confusion) float64 {
			p := float64(c.TP) / float64(k)
			if c.Liked == 0 {
				// recall undefined, so is the score
				return math.NaN()
			}
			r := float64(c.TP) / float64(c.Liked)
			if p == 0 && r == 0 {
				return 0
			}
			return (1 + betaSqr) * p * r / (betaSqr*p + r)
		}},
		Beta: beta,
	}
}

// Accuracy is the ratio of correctly classified items among the whole
// catalog: (TP + TN) / catalog_size.
type Accuracy struct{ catalogBase }

// NewAccuracy builds accuracy@k.
func NewAccuracy(k int) Accuracy {
	return Accuracy{catalogBase{k: k, row: func(c Confusion, tn, catalogSize int) float64 {
		return float64(c.TP+tn) / float64(catalogSize)
	}}}
}

// MCC is the Matthews correlation coefficient between actual and predicted
// classification at cutoff k, in [-1, 1]. Zero when the four-factor
// denominator vanishes; the numerator is provably zero there too.
type MCC struct{ catalogBase }

// NewMCC builds MCC@k.
func NewMCC(k int) MCC {
	return MCC{catalogBase{k: k, row: func(c Confusion, tn, catalogSize int) float64 {
		tp := float64(c.TP)
		fp := float64(c.FP)
		fn := float64(c.FN)
		tnf := float64(tn)

		denominator := math.Sqrt((tp + fp) * (tp + fn) * (tnf + fp) * (tnf + fn))
		if denominator == 0 {
			return 0
		}
		return (tp*tnf - fp*fn) / denominator
	}}}
}
