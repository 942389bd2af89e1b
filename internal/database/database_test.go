package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: "5433", User: "hotel", Password: "pw", DBName: "rooms", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5433 user=hotel password=pw dbname=rooms sslmode=disable", cfg.DSN())
}

func TestSchemaIsEmbedded(t *testing.T) {
	for _, table := range []string{"rooms", "bookings", "users", "roles", "user_roles"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
}
