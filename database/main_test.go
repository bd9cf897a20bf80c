package database

import (
	"context"
	"log"
	"testing"

	"github.com/scenlens/matrixer/helper"
	loadSql "github.com/scenlens/matrixer/sql"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

const testEmbeddingDim = 3

var dbPort string

func TestMain(m *testing.M) {
	var teardown func(ctx context.Context, opts ...testcontainers.TerminateOption) error
	var err error
	teardown, dbPort, err = helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("error starting postgres container: %v", err)
	}

	m.Run()

	if teardown != nil && teardown(context.Background()) != nil {
		log.Fatalf("error tearing down postgres container: %v", err)
	}
}

func initTestHandlers(t *testing.T) (*EntitiesDBHandler, *ChunksDBHandler) {
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err, "failed to create database configuration")
	db := helper.NewTestDatabase(dbConfig)

	err = loadSql.Init(db.Instance)
	require.NoError(t, err)

	entities, err := NewEntitiesDBHandler(db, false)
	require.NoError(t, err, "failed to create entities handler")

	chunks, err := NewChunksDBHandler(db, testEmbeddingDim, false)
	require.NoError(t, err, "failed to create chunks handler")

	return entities, chunks
}
