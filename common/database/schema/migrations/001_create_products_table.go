package migrations

import "recnorm/common/database/schema"

var CreateProductsTable = schema.Migration{
	Version:     1,
	Description: "Create products table",
	Up: `
		CREATE TABLE IF NOT EXISTS products (
			run_id UUID,
			dataset String,
			row_index UInt32,
			loaded_at DateTime,
			name Nullable(String),
			main_category Nullable(String),
			sub_category Nullable(String),
			image Nullable(String),
			ratings Nullable(Float64),
			no_of_ratings Nullable(Int64),
			discount_price_value Nullable(Int64),
			discount_price_currency Nullable(String),
			actual_price_value Nullable(Int64),
			actual_price_currency Nullable(String),
			discount_amount Nullable(Float64),
			discount_percent Nullable(Float64),
			rating_category Nullable(String),
			price_category Nullable(String),
			savings_level Nullable(String),
			has_discount Nullable(Bool),
			has_rating Nullable(Bool),
			has_image Nullable(Bool),
			completeness_score Nullable(Int64)
		) ENGINE = ReplacingMergeTree(loaded_at)
		PARTITION BY toYYYYMM(loaded_at)
		ORDER BY (dataset, run_id, row_index)
		SETTINGS index_granularity = 8192
	`,
	Down: `DROP TABLE IF EXISTS products`,
}
