package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/suxatcode/mindtree/db"
)

var TESTONLY_Config = db.Config{
	PGHost:     "localhost",
	PGPort:     5432,
	PGUser:     "mindtree",
	PGPassword: "example",
	PGDatabase: "mindtree",
}

// TESTONLY_SetupAndCleanup drops all tables and returns a freshly migrated
// database.
func TESTONLY_SetupAndCleanup(t *testing.T) *PostgresDB {
	assert := assert.New(t)
	pgdb, err := NewPostgresDB(TESTONLY_Config)
	if !assert.NoError(err) {
		t.FailNow()
	}
	pg := pgdb.(*PostgresDB)
	pg.db.Exec(`DROP TABLE IF EXISTS conditions CASCADE`)
	pg.db.Exec(`DROP TABLE IF EXISTS nodes CASCADE`)
	pg.db.Exec(`DROP TABLE IF EXISTS trees CASCADE`)
	_, err = pg.init()
	assert.NoError(err)
	t.Cleanup(func() {
		sqlDB, err := pg.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return pg
}
