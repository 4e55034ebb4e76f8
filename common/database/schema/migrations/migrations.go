package migrations

import "recnorm/common/database/schema"

// All lists every migration in version order.
var All = []schema.Migration{
	CreateProductsTable,
	CreateJobPostingsTable,
}
