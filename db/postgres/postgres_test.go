package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/suxatcode/mindtree/db"
)

func TestDSN(t *testing.T) {
	assert := assert.New(t)
	conf := db.Config{PGHost: "pg", PGPort: 5433, PGUser: "u", PGPassword: "p", PGDatabase: "maps"}
	assert.Equal("host=pg user=u password=p dbname=maps port=5433 sslmode=disable", dsn(conf))
}
