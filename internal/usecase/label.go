package usecase

import "SentiGauge/internal/domain/models"

// Label boundary schemes. Both map the composite score to five buckets and
// differ only in which bucket owns the exact boundary values: the strict
// scheme keeps 25 and 45 out of the lower buckets, the inclusive scheme
// hands every boundary to the lower bucket.
const (
	LabelSchemeStrict    = "strict"
	LabelSchemeInclusive = "inclusive"
)

// LabelFor maps a composite score to its sentiment bucket under the given
// boundary scheme. Unknown schemes fall back to strict.
func LabelFor(score float64, scheme string) models.Label {
	if scheme == LabelSchemeInclusive {
		switch {
		case score <= 25:
			return models.LabelExtremeFear
		case score <= 45:
			return models.LabelFear
		case score <= 55:
			return models.LabelNeutral
		case score <= 75:
			return models.LabelGreed
		default:
			return models.LabelExtremeGreed
		}
	}
	switch {
	case score < 25:
		return models.LabelExtremeFear
	case score < 45:
		return models.LabelFear
	case score <= 55:
		return models.LabelNeutral
	case score <= 75:
		return models.LabelGreed
	default:
		return models.LabelExtremeGreed
	}
}
