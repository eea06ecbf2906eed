package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvConfig(t *testing.T) {
	assert := assert.New(t)
	t.Setenv("DB_PG_HOST", "db.internal")
	t.Setenv("DB_PG_PORT", "6543")
	conf := GetEnvConfig()
	assert.Equal("db.internal", conf.PGHost)
	assert.Equal(6543, conf.PGPort)
	assert.Equal("mindtree", conf.PGUser)
}
