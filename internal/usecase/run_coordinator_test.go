package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

func buildCoordinator(locks *MockLockRepository, processing *MockProcessingRepository,
	mailbox *MockMailboxGateway, processor *MockMessageProcessor) *RunCoordinator {
	return NewRunCoordinator(locks, processing, mailbox, processor,
		5*time.Minute, 0, 50, 5, 10)
}

func TestRunSkipsWhenLockHeld(t *testing.T) {
	locks := new(MockLockRepository)
	processing := new(MockProcessingRepository)
	mailbox := new(MockMailboxGateway)
	processor := new(MockMessageProcessor)

	locks.On("Acquire", mock.Anything, "lead-pipeline-run", mock.Anything, 5*time.Minute).
		Return(false, nil)

	rc := buildCoordinator(locks, processing, mailbox, processor)
	report, err := rc.Run(context.Background())

	// Contenção de lock é o resultado esperado de gatilhos sobrepostos,
	// nunca erro.
	assert.NoError(t, err)
	assert.True(t, report.Skipped)
	mailbox.AssertNotCalled(t, "ListCandidates", mock.Anything, mock.Anything)
	locks.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestRunProcessesCandidatesAndReleases(t *testing.T) {
	locks := new(MockLockRepository)
	processing := new(MockProcessingRepository)
	mailbox := new(MockMailboxGateway)
	processor := new(MockMessageProcessor)

	locks.On("Acquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	locks.On("Extend", mock.Anything, "lead-pipeline-run", mock.Anything, mock.Anything).Return(true, nil)
	locks.On("Release", mock.Anything, "lead-pipeline-run").Return(nil)

	mailbox.On("ListCandidates", mock.Anything, 50).Return([]string{"1", "2", "3"}, nil)
	// "2" já é SUCCESS: sai da lista antes do processamento.
	processing.On("FilterSucceeded", mock.Anything, []string{"1", "2", "3"}).
		Return([]string{"1", "3"}, nil)
	processing.On("ListFailedForRetry", mock.Anything, 5, 10).
		Return([]*entity.ProcessingRecord{}, nil)

	processor.On("Execute", mock.Anything, "1").Return(nil)
	processor.On("Execute", mock.Anything, "3").Return(errors.New("boom"))

	rc := buildCoordinator(locks, processing, mailbox, processor)
	report, err := rc.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	processor.AssertNotCalled(t, "Execute", mock.Anything, "2")
	locks.AssertExpectations(t)
}

// Erro individual de mensagem nunca aborta a iteração; erro de listagem é
// do coordenador e propaga — mas o lock é liberado mesmo assim.
func TestRunReleasesLockOnListFailure(t *testing.T) {
	locks := new(MockLockRepository)
	processing := new(MockProcessingRepository)
	mailbox := new(MockMailboxGateway)
	processor := new(MockMessageProcessor)

	locks.On("Acquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	locks.On("Release", mock.Anything, "lead-pipeline-run").Return(nil)
	mailbox.On("ListCandidates", mock.Anything, 50).Return(nil, errors.New("imap down"))

	rc := buildCoordinator(locks, processing, mailbox, processor)
	_, err := rc.Run(context.Background())

	assert.Error(t, err)
	locks.AssertCalled(t, "Release", mock.Anything, "lead-pipeline-run")
}

func TestRunRetriesFailedBelowCeiling(t *testing.T) {
	locks := new(MockLockRepository)
	processing := new(MockProcessingRepository)
	mailbox := new(MockMailboxGateway)
	processor := new(MockMessageProcessor)

	locks.On("Acquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	locks.On("Release", mock.Anything, mock.Anything).Return(nil)

	mailbox.On("ListCandidates", mock.Anything, 50).Return([]string{}, nil)
	processing.On("FilterSucceeded", mock.Anything, []string{}).Return([]string{}, nil)

	// O repositório já aplica o teto de tentativas: quem chegou no limite
	// não aparece aqui.
	processing.On("ListFailedForRetry", mock.Anything, 5, 10).Return([]*entity.ProcessingRecord{
		{MessageID: "8", Attempts: 2, Status: entity.StatusFailed},
		{MessageID: "4", Attempts: 4, Status: entity.StatusFailed},
	}, nil)

	processor.On("Execute", mock.Anything, "8").Return(nil)
	processor.On("Execute", mock.Anything, "4").Return(errors.New("ainda falhando"))

	rc := buildCoordinator(locks, processing, mailbox, processor)
	report, err := rc.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, report.Retried)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
}

// Mensagem que acabou de falhar no passe principal não é reprocessada no
// passe de retentativa do mesmo run.
func TestRunDoesNotRetryMessageFromSameRun(t *testing.T) {
	locks := new(MockLockRepository)
	processing := new(MockProcessingRepository)
	mailbox := new(MockMailboxGateway)
	processor := new(MockMessageProcessor)

	locks.On("Acquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	locks.On("Extend", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	locks.On("Release", mock.Anything, mock.Anything).Return(nil)

	mailbox.On("ListCandidates", mock.Anything, 50).Return([]string{"1"}, nil)
	processing.On("FilterSucceeded", mock.Anything, []string{"1"}).Return([]string{"1"}, nil)
	processing.On("ListFailedForRetry", mock.Anything, 5, 10).Return([]*entity.ProcessingRecord{
		{MessageID: "1", Attempts: 1, Status: entity.StatusFailed},
	}, nil)

	processor.On("Execute", mock.Anything, "1").Return(errors.New("falha")).Once()

	rc := buildCoordinator(locks, processing, mailbox, processor)
	report, err := rc.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 0, report.Retried)
	processor.AssertNumberOfCalls(t, "Execute", 1)
}

// Se o lock expirou durante o passe principal, o passe de retentativa é
// pulado: outro run pode já estar rodando.
func TestRunSkipsRetryPassWhenLockExpired(t *testing.T) {
	locks := new(MockLockRepository)
	processing := new(MockProcessingRepository)
	mailbox := new(MockMailboxGateway)
	processor := new(MockMessageProcessor)

	locks.On("Acquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	locks.On("Extend", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	locks.On("Release", mock.Anything, mock.Anything).Return(nil)

	mailbox.On("ListCandidates", mock.Anything, 50).Return([]string{"1"}, nil)
	processing.On("FilterSucceeded", mock.Anything, []string{"1"}).Return([]string{"1"}, nil)
	processor.On("Execute", mock.Anything, "1").Return(nil)

	rc := buildCoordinator(locks, processing, mailbox, processor)
	report, err := rc.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 0, report.Retried)
	processing.AssertNotCalled(t, "ListFailedForRetry", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunPaceRespectsCancellation(t *testing.T) {
	locks := new(MockLockRepository)
	processing := new(MockProcessingRepository)
	mailbox := new(MockMailboxGateway)
	processor := new(MockMessageProcessor)

	locks.On("Acquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	locks.On("Release", mock.Anything, mock.Anything).Return(nil)

	mailbox.On("ListCandidates", mock.Anything, 50).Return([]string{"1", "2"}, nil)
	processing.On("FilterSucceeded", mock.Anything, mock.Anything).Return([]string{"1", "2"}, nil)
	processor.On("Execute", mock.Anything, "1").Return(nil)

	ctx, cancel := context.WithCancel(context.Background())

	rc := NewRunCoordinator(locks, processing, mailbox, processor,
		5*time.Minute, 1*time.Hour, 50, 5, 10)
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	_, err := rc.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	processor.AssertNotCalled(t, "Execute", mock.Anything, "2")
	locks.AssertCalled(t, "Release", mock.Anything, mock.Anything)
}
