package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestSplitFQN(t *testing.T) {
	assert.Equal(t, pgx.Identifier{"public", "products"}, SplitFQN("public.products"))
	assert.Equal(t, pgx.Identifier{"products"}, SplitFQN("products"))
	assert.Equal(t, pgx.Identifier{"products"}, SplitFQN(".products"))
}

func TestQuoting(t *testing.T) {
	assert.Equal(t, `"time"`, Ident("time"))
	assert.Equal(t, `"a""b"`, Ident(`a"b`))
	assert.Equal(t, `"analytics"."job_postings"`, FQN("analytics.job_postings"))
}
