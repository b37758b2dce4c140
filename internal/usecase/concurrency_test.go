package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// fakeLockRepo reproduz em memória a semântica CAS do run_locks: adquire se
// o lock não existe ou se já expirou, numa operação atômica.
type fakeLockRepo struct {
	mu    sync.Mutex
	locks map[string]fakeLock
}

type fakeLock struct {
	holderID  string
	expiresAt time.Time
}

func newFakeLockRepo() *fakeLockRepo {
	return &fakeLockRepo{locks: make(map[string]fakeLock)}
}

func (r *fakeLockRepo) Acquire(_ context.Context, name, holderID string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, exists := r.locks[name]
	if exists && current.expiresAt.After(time.Now()) {
		return false, nil
	}
	r.locks[name] = fakeLock{holderID: holderID, expiresAt: time.Now().Add(ttl)}
	return true, nil
}

func (r *fakeLockRepo) Extend(_ context.Context, name, holderID string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, exists := r.locks[name]
	if !exists || current.holderID != holderID {
		return false, nil
	}
	current.expiresAt = time.Now().Add(ttl)
	r.locks[name] = current
	return true, nil
}

func (r *fakeLockRepo) Release(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, name)
	return nil
}

func TestLockAcquireIsMutuallyExclusive(t *testing.T) {
	repo := newFakeLockRepo()

	const contenders = 20
	var wg sync.WaitGroup
	results := make(chan bool, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			acquired, err := repo.Acquire(context.Background(), "lead-pipeline-run",
				string(rune('a'+n)), 5*time.Minute)
			assert.NoError(t, err)
			results <- acquired
		}(i)
	}
	wg.Wait()
	close(results)

	winners := 0
	for acquired := range results {
		if acquired {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestLockAcquireTakesOverExpiredLock(t *testing.T) {
	repo := newFakeLockRepo()

	acquired, err := repo.Acquire(context.Background(), "lead-pipeline-run", "crashed", 1*time.Millisecond)
	assert.NoError(t, err)
	assert.True(t, acquired)

	time.Sleep(5 * time.Millisecond)

	// Run anterior morreu sem Release: o TTL expirado libera a vaga.
	acquired, err = repo.Acquire(context.Background(), "lead-pipeline-run", "fresh", 5*time.Minute)
	assert.NoError(t, err)
	assert.True(t, acquired)
}

// fakeRecipientRepo reproduz a seleção round-robin: o ativo com
// last_assigned_at mais antigo (NULL primeiro) ganha e tem o carimbo
// atualizado na mesma operação.
type fakeRecipientRepo struct {
	mu         sync.Mutex
	recipients []*entity.Recipient
}

func (r *fakeRecipientRepo) SelectNext(_ context.Context) (*entity.Recipient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var oldest *entity.Recipient
	for _, rec := range r.recipients {
		if !rec.Active {
			continue
		}
		if oldest == nil {
			oldest = rec
			continue
		}
		if rec.LastAssignedAt == nil && oldest.LastAssignedAt != nil {
			oldest = rec
			continue
		}
		if rec.LastAssignedAt != nil && oldest.LastAssignedAt != nil &&
			rec.LastAssignedAt.Before(*oldest.LastAssignedAt) {
			oldest = rec
		}
	}
	if oldest == nil {
		return nil, entity.ErrNoActiveRecipient
	}
	now := time.Now()
	oldest.LastAssignedAt = &now
	return oldest, nil
}

func (r *fakeRecipientRepo) ListActive(_ context.Context) ([]*entity.Recipient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []*entity.Recipient
	for _, rec := range r.recipients {
		if rec.Active {
			active = append(active, rec)
		}
	}
	return active, nil
}

func TestSelectNextDistributesEvenly(t *testing.T) {
	repo := &fakeRecipientRepo{recipients: []*entity.Recipient{
		{ID: "r1", Name: "Ana", Email: "ana@liguemedicina.com", Active: true},
		{ID: "r2", Name: "Bruno", Email: "bruno@liguemedicina.com", Active: true},
		{ID: "r3", Name: "Clara", Email: "clara@liguemedicina.com", Active: true},
	}}

	counts := make(map[string]int)
	for i := 0; i < 9; i++ {
		rec, err := repo.SelectNext(context.Background())
		assert.NoError(t, err)
		counts[rec.ID]++
		// Carimbos iguais empatam a ordenação; garante monotonia.
		time.Sleep(time.Millisecond)
	}

	// Três rodadas completas: cada destinatário recebeu exatamente três.
	assert.Equal(t, 3, counts["r1"])
	assert.Equal(t, 3, counts["r2"])
	assert.Equal(t, 3, counts["r3"])
}

func TestSelectNextSkipsInactive(t *testing.T) {
	repo := &fakeRecipientRepo{recipients: []*entity.Recipient{
		{ID: "r1", Name: "Ana", Email: "ana@liguemedicina.com", Active: false},
		{ID: "r2", Name: "Bruno", Email: "bruno@liguemedicina.com", Active: true},
	}}

	for i := 0; i < 3; i++ {
		rec, err := repo.SelectNext(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "r2", rec.ID)
		time.Sleep(time.Millisecond)
	}
}

func TestSelectNextWithNoActiveRecipient(t *testing.T) {
	repo := &fakeRecipientRepo{}

	_, err := repo.SelectNext(context.Background())
	assert.ErrorIs(t, err, entity.ErrNoActiveRecipient)
}
