package normalizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recnorm/services/processing/internal/categorizer"
	"recnorm/services/processing/internal/models"
	"recnorm/services/processing/internal/parser"
)

func jobBatch() *models.Table {
	return models.NewTable(
		[]string{"job_title", "company", "salary_estimate", "company_rating", "posted_datetime"},
		[]models.Record{
			{"job_title": " Data Engineer ", "company": "Acme", "salary_estimate": "$50k - $80k per year",
				"company_rating": "4.1", "posted_datetime": "2024-12-23 17:00+07:00"},
			{"job_title": "Barista", "company": nil, "salary_estimate": "$15 - $18 per hour",
				"company_rating": nil, "posted_datetime": "not a date"},
			{"job_title": "Data Engineer", "company": "Acme", "salary_estimate": "$50k - $80k per year",
				"company_rating": "4.1", "posted_datetime": "2024-12-23 17:00+07:00"},
		},
	)
}

func TestNormalizeJobPostings(t *testing.T) {
	out, rep := newTestNormalizer().NormalizeJobPostings(jobBatch())

	require.Len(t, out.Rows, 2, "whitespace-only differences collapse after trimming")
	assert.Equal(t, 1, rep.DuplicatesRemoved)

	assert.NotContains(t, out.Columns, "salary_estimate")
	assert.NotContains(t, out.Columns, "posted_datetime")
	for _, c := range []string{models.ColDate, models.ColTime, models.ColTimezone, models.ColUTCOffset,
		models.ColSalaryMin, models.ColSalaryMax, models.ColSalaryAvg, models.ColSalaryCurrency, models.ColSalaryPeriod} {
		assert.Contains(t, out.Columns, c)
	}

	first := out.Rows[0]
	assert.Equal(t, "Data Engineer", first[models.ColJobTitle])
	assert.Equal(t, time.Date(2024, 12, 23, 0, 0, 0, 0, time.UTC), first[models.ColDate])
	assert.Equal(t, models.TimeOfDay{Hour: 17}, first[models.ColTime])
	assert.Equal(t, models.DefaultTimezone, first[models.ColTimezone])
	assert.Equal(t, "+07:00", first[models.ColUTCOffset])
	assert.Equal(t, 50000.0, first[models.ColSalaryMin])
	assert.Equal(t, 80000.0, first[models.ColSalaryMax])
	assert.Equal(t, 65000.0, first[models.ColSalaryAvg])
	assert.Equal(t, "USD", first[models.ColSalaryCurrency])
	assert.Equal(t, "yearly", first[models.ColSalaryPeriod])
	assert.Equal(t, 4.1, first[models.ColCompanyRating])
	assert.Equal(t, categorizer.RatingVeryGood, first[models.ColCompanyRatingCategory])
	assert.Equal(t, true, first[models.ColHasSalary])
	assert.Equal(t, int64(100), first[models.ColCompletenessScore])

	second := out.Rows[1]
	assert.Nil(t, second[models.ColDate])
	assert.Nil(t, second[models.ColTime])
	assert.Nil(t, second[models.ColUTCOffset])
	assert.Equal(t, models.DefaultTimezone, second[models.ColTimezone])
	assert.Equal(t, "hourly", second[models.ColSalaryPeriod])
	assert.Equal(t, 16.5, second[models.ColSalaryAvg])
	assert.Equal(t, UnknownLabel, second[models.ColCompany])
	assert.Nil(t, second[models.ColCompanyRating])
	assert.Equal(t, categorizer.RatingNone, second[models.ColCompanyRatingCategory])
	assert.Equal(t, int64(40), second[models.ColCompletenessScore])

	assert.Equal(t, 1, rep.Failures(models.ColDate))
}

func TestNormalizeJobPostingsWithDollarRangeStrategy(t *testing.T) {
	s, err := parser.NewStrategies(parser.SalaryStrategyDollarRange, "UTC")
	require.NoError(t, err)

	out, _ := New(testLogger(), s).NormalizeJobPostings(jobBatch())
	require.Len(t, out.Rows, 2)
	assert.Equal(t, 65000.0, out.Rows[0][models.ColSalaryAvg])
	assert.Equal(t, "UTC", out.Rows[0][models.ColTimezone])
	assert.Equal(t, "yearly", out.Rows[1][models.ColSalaryPeriod])
}

func TestNormalizeJobPostingsGajiColumn(t *testing.T) {
	in := models.NewTable(
		[]string{"posisi", "gaji"},
		[]models.Record{{"posisi": "Staff", "gaji": "Rp 5.000.000 - 7.000.000"}},
	)
	out, rep := newTestNormalizer().NormalizeJobPostings(in)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, 6000000.0, out.Rows[0][models.ColSalaryAvg])
	assert.Equal(t, "IDR", out.Rows[0][models.ColSalaryCurrency])
	assert.NotContains(t, rep.Applied, "split_datetime")
}

func TestNormalizeDispatch(t *testing.T) {
	n := newTestNormalizer()
	_, rep, err := n.Normalize(models.DomainJobPostings, jobBatch())
	require.NoError(t, err)
	assert.Equal(t, models.DomainJobPostings, rep.Domain)

	_, _, err = n.Normalize("pets", jobBatch())
	assert.Error(t, err)
}
