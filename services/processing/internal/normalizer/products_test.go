package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recnorm/services/processing/internal/categorizer"
	apperrors "recnorm/services/processing/internal/errors"
	"recnorm/services/processing/internal/models"
	"recnorm/services/processing/internal/parser"
)

func testLogger() *zap.Logger { return zap.NewNop() }

func newTestNormalizer() *Normalizer {
	return New(testLogger(), parser.DefaultStrategies())
}

func productBatch() *models.Table {
	return models.NewTable(
		[]string{"Unnamed: 0", "name", "main_category", "sub_category", "image", "ratings", "no_of_ratings", "discount_price", "actual_price"},
		[]models.Record{
			{"Unnamed: 0": "0", "name": " Lloyd 1.5 Ton AC ", "main_category": "appliances", "sub_category": " air conditioners ",
				"image": "https://img/1.jpg", "ratings": "4.2", "no_of_ratings": "2,255", "discount_price": "₹32,999", "actual_price": "₹58,990"},
			{"Unnamed: 0": "1", "name": "LG Inverter AC", "main_category": "appliances", "sub_category": "air conditioners",
				"image": "https://img/2.jpg", "ratings": "Get", "no_of_ratings": nil, "discount_price": "call us", "actual_price": "₹75,990"},
			{"Unnamed: 0": "2", "name": "Carrier AC", "main_category": nil, "sub_category": "nan",
				"image": "", "ratings": "3.9", "no_of_ratings": "1,001", "discount_price": "₹37,500", "actual_price": "₹64,000"},
		},
	)
}

func TestNormalizeProductsEndToEnd(t *testing.T) {
	out, rep := newTestNormalizer().NormalizeProducts(productBatch())
	require.Len(t, out.Rows, 3)

	assert.NotContains(t, out.Columns, "Unnamed: 0")
	assert.NotContains(t, out.Columns, models.ColDiscountPrice)
	assert.NotContains(t, out.Columns, models.ColActualPrice)
	assert.Equal(t, []string{"Unnamed: 0"}, rep.DroppedColumns)

	good := out.Rows[0]
	assert.Equal(t, "Lloyd 1.5 Ton AC", good[models.ColName])
	assert.Equal(t, int64(32999), good[models.ColDiscountPriceValue])
	assert.Equal(t, "₹", good[models.ColDiscountPriceCurrency])
	assert.Equal(t, int64(58990), good[models.ColActualPriceValue])
	assert.Equal(t, 25991.0, good[models.ColDiscountAmount])
	assert.Equal(t, 44.06, good[models.ColDiscountPercent])
	assert.Equal(t, categorizer.SavingsHigh, good[models.ColSavingsLevel])
	assert.Equal(t, 4.2, good[models.ColRatings])
	assert.Equal(t, int64(2255), good[models.ColNoOfRatings])
	assert.Equal(t, categorizer.RatingVeryGood, good[models.ColRatingCategory])
	assert.Equal(t, "Appliances", good[models.ColMainCategory])
	assert.Equal(t, "Air Conditioners", good[models.ColSubCategory])
	assert.NotNil(t, good[models.ColPriceCategory])
	assert.Equal(t, true, good[models.ColHasDiscount])
	assert.Equal(t, true, good[models.ColHasImage])
	assert.Equal(t, int64(100), good[models.ColCompletenessScore])

	bad := out.Rows[1]
	assert.Nil(t, bad[models.ColDiscountPriceValue])
	assert.Nil(t, bad[models.ColDiscountAmount])
	assert.Nil(t, bad[models.ColDiscountPercent])
	assert.Nil(t, bad[models.ColSavingsLevel])
	assert.Equal(t, false, bad[models.ColHasDiscount])
	assert.Nil(t, bad[models.ColRatings])
	assert.Equal(t, false, bad[models.ColHasRating])
	assert.Equal(t, categorizer.RatingNone, bad[models.ColRatingCategory])
	assert.Equal(t, categorizer.PriceUnknown, bad[models.ColPriceCategory])
	assert.Equal(t, int64(50), bad[models.ColCompletenessScore])

	third := out.Rows[2]
	assert.Equal(t, 26500.0, third[models.ColDiscountAmount])
	assert.Equal(t, 41.41, third[models.ColDiscountPercent])
	assert.Equal(t, "Unknown", third[models.ColMainCategory])
	assert.Equal(t, "Unknown", third[models.ColSubCategory])
	assert.Equal(t, false, third[models.ColHasImage])
	assert.Equal(t, int64(100), third[models.ColCompletenessScore])
	assert.NotNil(t, third[models.ColPriceCategory])

	assert.Equal(t, 1, rep.Failures(models.ColDiscountPriceValue))
	assert.Equal(t, 1, rep.Failures(models.ColRatings))
	assert.Equal(t, 3, rep.InputRows)
	assert.Equal(t, 3, rep.OutputRows)
	assert.Empty(t, rep.Skipped)
}

func TestNormalizeProductsInvariants(t *testing.T) {
	out, _ := newTestNormalizer().NormalizeProducts(productBatch())
	for _, r := range out.Rows {
		if amt, ok := r[models.ColDiscountAmount].(float64); ok {
			assert.GreaterOrEqual(t, amt, 0.0)
		}
		score, ok := r[models.ColCompletenessScore].(int64)
		require.True(t, ok)
		assert.GreaterOrEqual(t, score, int64(0))
		assert.LessOrEqual(t, score, int64(100))
	}
}

func TestNormalizeProductsDoesNotMutateInput(t *testing.T) {
	in := productBatch()
	before := in.Clone()

	_, _ = newTestNormalizer().NormalizeProducts(in)

	assert.Equal(t, before, in)
}

func TestNormalizeProductsClampsNegativeDiscount(t *testing.T) {
	in := models.NewTable(
		[]string{"discount_price", "actual_price"},
		[]models.Record{
			{"discount_price": "$120", "actual_price": "$100"},
			{"discount_price": "$80", "actual_price": "$100"},
		},
	)
	out, _ := newTestNormalizer().NormalizeProducts(in)
	require.Len(t, out.Rows, 2)

	assert.Equal(t, 0.0, out.Rows[0][models.ColDiscountAmount])
	assert.Equal(t, 0.0, out.Rows[0][models.ColDiscountPercent])
	assert.Equal(t, categorizer.SavingsNone, out.Rows[0][models.ColSavingsLevel])

	assert.Equal(t, 20.0, out.Rows[1][models.ColDiscountAmount])
	assert.Equal(t, 20.0, out.Rows[1][models.ColDiscountPercent])
	assert.Equal(t, categorizer.SavingsMedium, out.Rows[1][models.ColSavingsLevel])
}

func TestNormalizeProductsZeroActualPrice(t *testing.T) {
	amount, percent := discountMetrics(floatOf(int64(0)), floatOf(int64(0)))
	require.NotNil(t, amount)
	assert.Equal(t, 0.0, *amount)
	assert.Nil(t, percent)
}

func TestNormalizeProductsSkipsStagesForMissingColumns(t *testing.T) {
	in := models.NewTable(
		[]string{"name", "ratings"},
		[]models.Record{
			{"name": "a", "ratings": 6.0},
			{"name": "b", "ratings": "4.6"},
		},
	)
	out, rep := newTestNormalizer().NormalizeProducts(in)
	require.Len(t, out.Rows, 2)

	assert.Nil(t, out.Rows[0][models.ColRatings])
	assert.Equal(t, categorizer.RatingExcellent, out.Rows[1][models.ColRatingCategory])
	assert.NotContains(t, out.Columns, models.ColDiscountAmount)
	assert.NotContains(t, out.Columns, models.ColPriceCategory)
	assert.Equal(t, int64(100), out.Rows[1][models.ColCompletenessScore])
	assert.Equal(t, int64(50), out.Rows[0][models.ColCompletenessScore])

	skipped := map[string]bool{}
	for _, s := range rep.Skipped {
		skipped[s.Stage] = true
		assert.Equal(t, apperrors.ErrTypeSchemaAbsent, s.Type, s.Stage)
	}
	assert.True(t, skipped["parse_discount_price"])
	assert.True(t, skipped["discount_metrics"])
	assert.True(t, skipped[models.ColHasImage])
	assert.Contains(t, rep.Applied, "cast_ratings")
}

func TestNormalizeProductsPriceCategorySkippedWithoutPrices(t *testing.T) {
	in := models.NewTable(
		[]string{"discount_price"},
		[]models.Record{{"discount_price": nil}, {"discount_price": "free"}},
	)
	out, rep := newTestNormalizer().NormalizeProducts(in)
	assert.NotContains(t, out.Columns, models.ColPriceCategory)
	assert.NotContains(t, rep.Applied, models.ColPriceCategory)
	assert.Equal(t, 1, rep.Failures(models.ColDiscountPriceValue))
	for _, s := range rep.Skipped {
		if s.Stage == models.ColPriceCategory {
			assert.Empty(t, s.Type)
		}
	}
}

func TestNormalizeProductsDropsExactDuplicates(t *testing.T) {
	row := func() models.Record {
		return models.Record{"name": "Helmet", "discount_price": "₹999", "actual_price": "₹1,499", "ratings": "4.0"}
	}
	in := models.NewTable([]string{"name", "discount_price", "actual_price", "ratings"}, []models.Record{row(), row()})

	out, rep := newTestNormalizer().NormalizeProducts(in)
	assert.Len(t, out.Rows, 1)
	assert.Equal(t, 1, rep.DuplicatesRemoved)
}

func TestNormalizeProductsWhitespaceImageIsPresent(t *testing.T) {
	in := models.NewTable(
		[]string{"name", "image"},
		[]models.Record{{"name": "a", "image": "  "}, {"name": "b", "image": ""}},
	)
	out, _ := newTestNormalizer().NormalizeProducts(in)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, true, out.Rows[0][models.ColHasImage])
	assert.Equal(t, "", out.Rows[0][models.ColImage])
	assert.Equal(t, false, out.Rows[1][models.ColHasImage])
}

func TestNormalizeCategoryIsIdempotent(t *testing.T) {
	once := NormalizeCategory("  ktm ")
	twice := NormalizeCategory(once)
	assert.Equal(t, "Ktm", once)
	assert.Equal(t, "Ktm", twice)

	assert.Equal(t, UnknownLabel, NormalizeCategory(nil))
	assert.Equal(t, UnknownLabel, NormalizeCategory("   "))
	assert.Equal(t, UnknownLabel, NormalizeCategory("NaN"))
	assert.Equal(t, "Air Conditioners", NormalizeCategory("air CONDITIONERS"))
}
