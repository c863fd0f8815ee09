package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kinopitch/trailers-backend/internal/models"
	"github.com/kinopitch/trailers-backend/internal/pkg/apperror"
	"github.com/kinopitch/trailers-backend/internal/repository/common"
	"github.com/kinopitch/trailers-backend/internal/validation"
)

type mockPollStore struct {
	mock.Mock
}

func (m *mockPollStore) Create(ctx context.Context, poll *models.Poll, optionTexts []string) error {
	args := m.Called(ctx, poll, optionTexts)
	if args.Error(0) == nil {
		poll.ID = uuid.New()
		poll.Options = make([]models.PollOption, 0, len(optionTexts))
		for i, text := range optionTexts {
			poll.Options = append(poll.Options, models.PollOption{
				ID:          uuid.New(),
				PollID:      poll.ID,
				OptionIndex: i,
				Text:        text,
			})
		}
	}
	return args.Error(0)
}

func (m *mockPollStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Poll), args.Error(1)
}

func (m *mockPollStore) GetByTrailerID(ctx context.Context, trailerID uuid.UUID) (*models.Poll, error) {
	args := m.Called(ctx, trailerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Poll), args.Error(1)
}

func (m *mockPollStore) InsertVote(ctx context.Context, pollID, userID uuid.UUID, optionIndex int) error {
	args := m.Called(ctx, pollID, userID, optionIndex)
	return args.Error(0)
}

func (m *mockPollStore) GetUserVote(ctx context.Context, pollID, userID uuid.UUID) (*models.PollVote, error) {
	args := m.Called(ctx, pollID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PollVote), args.Error(1)
}

func (m *mockPollStore) Reconcile(ctx context.Context, pollID uuid.UUID) error {
	args := m.Called(ctx, pollID)
	return args.Error(0)
}

type recordingNotifier struct {
	results []*models.PollResults
}

func (n *recordingNotifier) BroadcastPollResults(results *models.PollResults) {
	n.results = append(n.results, results)
}

// makePoll собирает опрос с заданными счётчиками голосов по вариантам.
func makePoll(votes ...int64) *models.Poll {
	poll := &models.Poll{
		ID:           uuid.New(),
		TrailerID:    uuid.New(),
		CreatorID:    uuid.New(),
		TemplateType: models.PollTemplateSequel,
		Question:     "Нужен ли сиквел?",
		CreatedAt:    time.Now(),
	}
	var total int64
	for i, v := range votes {
		poll.Options = append(poll.Options, models.PollOption{
			ID:          uuid.New(),
			PollID:      poll.ID,
			OptionIndex: i,
			Text:        "вариант",
			Votes:       v,
		})
		total += v
	}
	poll.TotalVotes = total
	return poll
}

func validCreateInput() validation.CreatePollInput {
	return validation.CreatePollInput{
		TemplateType: models.PollTemplateSequel,
		Question:     "Хотите продолжение этой истории?",
		Options:      []string{"Да", "Нет"},
	}
}

func TestPollService_CreatePoll_Success(t *testing.T) {
	store := new(mockPollStore)
	svc := NewPollService(store)
	ctx := context.Background()

	store.On("Create", ctx, mock.AnythingOfType("*models.Poll"), []string{"Да", "Нет"}).Return(nil)

	poll, err := svc.CreatePoll(ctx, uuid.New(), uuid.New(), validCreateInput())

	assert.NoError(t, err)
	assert.NotNil(t, poll)
	assert.Len(t, poll.Options, 2)
	assert.Equal(t, int64(0), poll.TotalVotes)
}

func TestPollService_CreatePoll_ValidationErrors(t *testing.T) {
	store := new(mockPollStore)
	svc := NewPollService(store)
	ctx := context.Background()

	// Слишком мало вариантов
	in := validCreateInput()
	in.Options = []string{"Да"}
	_, err := svc.CreatePoll(ctx, uuid.New(), uuid.New(), in)
	assert.True(t, apperror.IsValidation(err))

	// Слишком короткий вопрос
	in = validCreateInput()
	in.Question = "Да?"
	_, err = svc.CreatePoll(ctx, uuid.New(), uuid.New(), in)
	assert.True(t, apperror.IsValidation(err))

	// Семь вариантов
	in = validCreateInput()
	in.Options = []string{"1", "2", "3", "4", "5", "6", "7"}
	_, err = svc.CreatePoll(ctx, uuid.New(), uuid.New(), in)
	assert.True(t, apperror.IsValidation(err))

	// Неизвестный шаблон
	in = validCreateInput()
	in.TemplateType = "quiz"
	_, err = svc.CreatePoll(ctx, uuid.New(), uuid.New(), in)
	assert.True(t, apperror.IsValidation(err))

	// До хранилища невалидная форма не доходит
	store.AssertNotCalled(t, "Create")
}

func TestPollService_CreatePoll_Duplicate(t *testing.T) {
	store := new(mockPollStore)
	svc := NewPollService(store)
	ctx := context.Background()

	store.On("Create", ctx, mock.AnythingOfType("*models.Poll"), mock.Anything).Return(common.ErrAlreadyExists)

	_, err := svc.CreatePoll(ctx, uuid.New(), uuid.New(), validCreateInput())

	assert.ErrorIs(t, err, apperror.ErrDuplicatePoll)
}

func TestPollService_CastVote_Success(t *testing.T) {
	store := new(mockPollStore)
	svc := NewPollService(store)
	ctx := context.Background()

	poll := makePoll(0, 0)
	userID := uuid.New()

	// Первый GetByID - проверка опроса, второй - чтение обновлённого состояния.
	updated := makePoll(1, 0)
	updated.ID = poll.ID
	store.On("GetByID", ctx, poll.ID).Return(poll, nil).Once()
	store.On("InsertVote", ctx, poll.ID, userID, 0).Return(nil)
	store.On("GetByID", ctx, poll.ID).Return(updated, nil).Once()

	results, err := svc.CastVote(ctx, poll.ID, userID, 0)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), results.TotalVotes)
	assert.Equal(t, 100.0, results.Options[0].Percentage)
	store.AssertExpectations(t)
}

func TestPollService_CastVote_NotifierReceivesTally(t *testing.T) {
	store := new(mockPollStore)
	svc := NewPollService(store)
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)
	ctx := context.Background()

	poll := makePoll(2, 1)
	userID := uuid.New()
	updated := makePoll(3, 1)
	updated.ID = poll.ID

	store.On("GetByID", ctx, poll.ID).Return(poll, nil).Once()
	store.On("InsertVote", ctx, poll.ID, userID, 0).Return(nil)
	store.On("GetByID", ctx, poll.ID).Return(updated, nil).Once()

	_, err := svc.CastVote(ctx, poll.ID, userID, 0)

	assert.NoError(t, err)
	assert.Len(t, notifier.results, 1)
	assert.Equal(t, int64(4), notifier.results[0].TotalVotes)
}

func TestPollService_CastVote_Duplicate(t *testing.T) {
	store := new(mockPollStore)
	svc := NewPollService(store)
	ctx := context.Background()

	poll := makePoll(5, 3)
	userID := uuid.New()

	store.On("GetByID", ctx, poll.ID).Return(poll, nil).Once()
	store.On("InsertVote", ctx, poll.ID, userID, 1).Return(common.ErrAlreadyExists)

	_, err := svc.CastVote(ctx, poll.ID, userID, 1)

	assert.ErrorIs(t, err, apperror.ErrDuplicateVote)
	store.AssertExpectations(t)
}

func TestPollService_CastVote_Expired(t *testing.T) {
	store := new(mockPollStore)
	svc := NewPollService(store)
	ctx := context.Background()

	poll := makePoll(1, 1)
	past := time.Now().Add(-time.Hour)
	poll.ExpiresAt = &past

	store.On("GetByID", ctx, poll.ID).Return(poll, nil)

	// Индекс валидный, но опрос завершён
	_, err := svc.CastVote(ctx, poll.ID, uuid.New(), 0)

	assert.ErrorIs(t, err, apperror.ErrPollExpired)
	store.AssertNotCalled(t, "InsertVote")
}

func TestPollService_CastVote_InvalidOption(t *testing.T) {
	store := new(mockPollStore)
	svc := NewPollService(store)
	ctx := context.Background()

	poll := makePoll(0, 0)
	store.On("GetByID", ctx, poll.ID).Return(poll, nil)

	_, err := svc.CastVote(ctx, poll.ID, uuid.New(), 2)
	assert.ErrorIs(t, err, apperror.ErrInvalidOption)

	_, err = svc.CastVote(ctx, poll.ID, uuid.New(), -1)
	assert.ErrorIs(t, err, apperror.ErrInvalidOption)

	store.AssertNotCalled(t, "InsertVote")
}

func TestPollService_CastVote_PollNotFound(t *testing.T) {
	store := new(mockPollStore)
	svc := NewPollService(store)
	ctx := context.Background()

	pollID := uuid.New()
	store.On("GetByID", ctx, pollID).Return(nil, common.ErrNotFound)

	_, err := svc.CastVote(ctx, pollID, uuid.New(), 0)

	assert.ErrorIs(t, err, apperror.ErrPollNotFound)
}

func TestPollService_GetResults_ZeroVotes(t *testing.T) {
	store := new(mockPollStore)
	svc := NewPollService(store)
	ctx := context.Background()

	poll := makePoll(0, 0, 0)
	store.On("GetByID", ctx, poll.ID).Return(poll, nil)

	results, err := svc.GetResults(ctx, poll.ID)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), results.TotalVotes)
	for _, opt := range results.Options {
		assert.Equal(t, 0.0, opt.Percentage)
	}
}

func TestPollService_GetResults_Percentages(t *testing.T) {
	store := new(mockPollStore)
	svc := NewPollService(store)
	ctx := context.Background()

	poll := makePoll(10, 0, 5)
	store.On("GetByID", ctx, poll.ID).Return(poll, nil)

	results, err := svc.GetResults(ctx, poll.ID)

	assert.NoError(t, err)
	assert.Equal(t, int64(15), results.TotalVotes)
	assert.InDelta(t, 66.67, results.Options[0].Percentage, 0.001)
	assert.Equal(t, 0.0, results.Options[1].Percentage)
	assert.InDelta(t, 33.33, results.Options[2].Percentage, 0.001)

	// Проценты округляются независимо: сумма может отличаться от 100
	// на ошибку округления, но не больше.
	sum := 0.0
	for _, opt := range results.Options {
		sum += opt.Percentage
	}
	assert.GreaterOrEqual(t, sum, 99.99)
	assert.LessOrEqual(t, sum, 100.01)
}

func TestPollService_GetResults_ExpiredPollStillReadable(t *testing.T) {
	store := new(mockPollStore)
	svc := NewPollService(store)
	ctx := context.Background()

	poll := makePoll(4, 6)
	past := time.Now().Add(-time.Minute)
	poll.ExpiresAt = &past
	store.On("GetByID", ctx, poll.ID).Return(poll, nil)

	results, err := svc.GetResults(ctx, poll.ID)

	assert.NoError(t, err)
	assert.True(t, results.Expired)
	assert.Equal(t, int64(10), results.TotalVotes)
}

func TestPollService_GetUserVote_NoVote(t *testing.T) {
	store := new(mockPollStore)
	svc := NewPollService(store)
	ctx := context.Background()

	pollID := uuid.New()
	userID := uuid.New()
	store.On("GetUserVote", ctx, pollID, userID).Return(nil, common.ErrNotFound)

	idx, err := svc.GetUserVote(ctx, pollID, userID)

	// Отсутствие голоса - не ошибка
	assert.NoError(t, err)
	assert.Nil(t, idx)
}

func TestPollService_GetUserVote_Found(t *testing.T) {
	store := new(mockPollStore)
	svc := NewPollService(store)
	ctx := context.Background()

	pollID := uuid.New()
	userID := uuid.New()
	store.On("GetUserVote", ctx, pollID, userID).Return(&models.PollVote{
		PollID:      pollID,
		UserID:      userID,
		OptionIndex: 1,
	}, nil)

	idx, err := svc.GetUserVote(ctx, pollID, userID)

	assert.NoError(t, err)
	assert.NotNil(t, idx)
	assert.Equal(t, 1, *idx)
}

func TestPollService_Reconcile(t *testing.T) {
	store := new(mockPollStore)
	svc := NewPollService(store)
	ctx := context.Background()

	poll := makePoll(7, 3)
	store.On("Reconcile", ctx, poll.ID).Return(nil)
	store.On("GetByID", ctx, poll.ID).Return(poll, nil)

	results, err := svc.Reconcile(ctx, poll.ID)

	assert.NoError(t, err)
	assert.Equal(t, int64(10), results.TotalVotes)
	store.AssertExpectations(t)
}

func TestBuildResults_TotalMatchesOptionSum(t *testing.T) {
	poll := makePoll(2, 3, 5)

	results := BuildResults(poll, time.Now())

	var sum int64
	for _, opt := range results.Options {
		sum += opt.Votes
	}
	assert.Equal(t, results.TotalVotes, sum)
}
