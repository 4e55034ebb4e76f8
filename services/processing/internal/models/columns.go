package models

// Product listing columns.
const (
	ColName          = "name"
	ColRatings       = "ratings"
	ColNoOfRatings   = "no_of_ratings"
	ColDiscountPrice = "discount_price"
	ColActualPrice   = "actual_price"
	ColMainCategory  = "main_category"
	ColSubCategory   = "sub_category"
	ColImage         = "image"

	ColDiscountPriceValue    = "discount_price_value"
	ColDiscountPriceCurrency = "discount_price_currency"
	ColActualPriceValue      = "actual_price_value"
	ColActualPriceCurrency   = "actual_price_currency"
	ColDiscountAmount        = "discount_amount"
	ColDiscountPercent       = "discount_percent"
	ColRatingCategory        = "rating_category"
	ColPriceCategory         = "price_category"
	ColSavingsLevel          = "savings_level"
	ColHasDiscount           = "has_discount"
	ColHasRating             = "has_rating"
	ColHasImage              = "has_image"
	ColCompletenessScore     = "completeness_score"
)

// Job posting columns.
const (
	ColJobTitle      = "job_title"
	ColCompany       = "company"
	ColCompanyRating = "company_rating"

	ColDate                  = "date"
	ColTime                  = "time"
	ColTimezone              = "timezone"
	ColUTCOffset             = "utc_offset"
	ColSalaryMin             = "salary_min"
	ColSalaryMax             = "salary_max"
	ColSalaryAvg             = "salary_avg"
	ColSalaryCurrency        = "salary_currency"
	ColSalaryPeriod          = "salary_period"
	ColCompanyRatingCategory = "company_rating_category"
	ColHasSalary             = "has_salary"
)

// Domain selects which normalization pipeline a batch goes through.
type Domain string

const (
	DomainProducts    Domain = "products"
	DomainJobPostings Domain = "jobs"
)

func (d Domain) Valid() bool {
	return d == DomainProducts || d == DomainJobPostings
}
