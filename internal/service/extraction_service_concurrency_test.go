package service_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"extractd/internal/config"
	"extractd/internal/domain"
	"extractd/internal/queue"
	"extractd/internal/repository/sqlstore"
	"extractd/internal/service"
)

// Concurrent submissions with one idempotency key must converge on a single
// record and a single queue entry, exercised against the real store rather
// than mocked conflict branches.
func TestSubmit_ConcurrentSameKey_SingleRecordSingleEnqueue(t *testing.T) {
	cfg := &config.DBConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "extractd_test.db"),
	}
	db, err := sqlstore.NewDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlstore.EnsureSchema(context.Background(), db))

	repo := sqlstore.NewRequestRepo(db)
	taskQueue := queue.NewMemory(64)
	svc := service.NewExtractionService(repo, taskQueue, config.StatusConfig{
		PollAttempts: 1,
		PollDelayMS:  1,
	})

	const submitters = 16
	ids := make([]string, submitters)
	errs := make([]error, submitters)

	var wg sync.WaitGroup
	wg.Add(submitters)
	for i := 0; i < submitters; i++ {
		go func(i int) {
			defer wg.Done()
			req, err := svc.Submit(context.Background(), "order-42", "Invoice Number: INV-1")
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = req.ID
		}(i)
	}
	wg.Wait()

	for i := 0; i < submitters; i++ {
		require.NoError(t, errs[i])
	}

	// Every caller saw the same request id.
	for i := 1; i < submitters; i++ {
		assert.Equal(t, ids[0], ids[i])
	}

	// Exactly one record in the store and one queue entry.
	_, total, err := repo.List(context.Background(), 0, submitters)
	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, taskQueue.Len())

	created, err := repo.GetByIdempotencyKey(context.Background(), "order-42")
	assert.NoError(t, err)
	assert.Equal(t, ids[0], created.ID)
	assert.Equal(t, domain.StatusPending, created.Status)
}
