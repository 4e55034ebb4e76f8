package migrations

import "recnorm/common/database/schema"

var CreateJobPostingsTable = schema.Migration{
	Version:     2,
	Description: "Create job_postings table",
	Up: `
		CREATE TABLE IF NOT EXISTS job_postings (
			run_id UUID,
			dataset String,
			row_index UInt32,
			loaded_at DateTime,
			job_title Nullable(String),
			company Nullable(String),
			company_rating Nullable(Float64),
			company_rating_category Nullable(String),
			date Nullable(Date),
			time Nullable(String),
			timezone Nullable(String),
			utc_offset Nullable(String),
			salary_min Nullable(Float64),
			salary_max Nullable(Float64),
			salary_avg Nullable(Float64),
			salary_currency Nullable(String),
			salary_period Nullable(String),
			has_salary Nullable(Bool),
			completeness_score Nullable(Int64)
		) ENGINE = ReplacingMergeTree(loaded_at)
		PARTITION BY toYYYYMM(loaded_at)
		ORDER BY (dataset, run_id, row_index)
		SETTINGS index_granularity = 8192
	`,
	Down: `DROP TABLE IF EXISTS job_postings`,
}
