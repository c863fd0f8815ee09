package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kinopitch/trailers-backend/internal/logger"
	"github.com/kinopitch/trailers-backend/internal/models"
	"github.com/kinopitch/trailers-backend/internal/pkg/apperror"
	"github.com/kinopitch/trailers-backend/internal/repository/common"
	"github.com/kinopitch/trailers-backend/internal/validation"
)

// PollStore описывает зависимости PollService от слоя хранилища.
type PollStore interface {
	Create(ctx context.Context, poll *models.Poll, optionTexts []string) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Poll, error)
	GetByTrailerID(ctx context.Context, trailerID uuid.UUID) (*models.Poll, error)
	InsertVote(ctx context.Context, pollID, userID uuid.UUID, optionIndex int) error
	GetUserVote(ctx context.Context, pollID, userID uuid.UUID) (*models.PollVote, error)
	Reconcile(ctx context.Context, pollID uuid.UUID) error
}

// TallyNotifier получает обновлённые результаты после успешного голоса.
// Используется для живой трансляции результатов по WebSocket.
type TallyNotifier interface {
	BroadcastPollResults(results *models.PollResults)
}

// PollService - движок опросов: создание, голосование, подсчёт результатов.
// Сервис не держит состояния между запросами, вся защита от гонок лежит
// на уникальных индексах и атомарных инкрементах в хранилище.
type PollService struct {
	store    PollStore
	notifier TallyNotifier
}

func NewPollService(store PollStore) *PollService {
	return &PollService{store: store}
}

// SetNotifier подключает трансляцию результатов. Опционально.
func (s *PollService) SetNotifier(n TallyNotifier) {
	s.notifier = n
}

// CreatePoll создаёт опрос для трейлера. У трейлера может быть только один
// опрос: повторное создание возвращает ErrDuplicatePoll, существующий опрос
// и его голоса не затрагиваются.
func (s *PollService) CreatePoll(ctx context.Context, trailerID, creatorID uuid.UUID, in validation.CreatePollInput) (*models.Poll, error) {
	if res := validation.ValidateCreatePoll(in, time.Now()); !res.OK() {
		return nil, apperror.Wrap(&res, apperror.ErrCodeValidation, res.Error())
	}

	poll := &models.Poll{
		TrailerID:    trailerID,
		CreatorID:    creatorID,
		TemplateType: in.TemplateType,
		Question:     in.Question,
		ExpiresAt:    in.ExpiresAt,
	}

	if err := s.store.Create(ctx, poll, in.Options); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, apperror.ErrDuplicatePoll
		}
		return nil, err
	}

	logger.WithComponent("poll").WithFields(logrus.Fields{
		"poll_id":    poll.ID,
		"trailer_id": trailerID,
	}).Info("опрос создан")

	return poll, nil
}

// GetPoll возвращает опрос с вариантами.
func (s *PollService) GetPoll(ctx context.Context, pollID uuid.UUID) (*models.Poll, error) {
	poll, err := s.store.GetByID(ctx, pollID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, apperror.ErrPollNotFound
	}
	return poll, err
}

// GetPollByTrailer возвращает опрос, привязанный к трейлеру.
func (s *PollService) GetPollByTrailer(ctx context.Context, trailerID uuid.UUID) (*models.Poll, error) {
	poll, err := s.store.GetByTrailerID(ctx, trailerID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, apperror.ErrPollNotFound
	}
	return poll, err
}

// CastVote фиксирует голос пользователя и возвращает обновлённые результаты.
// Гарантия: при любом числе конкурентных вызовов total_votes равен числу
// уникальных проголосовавших, ровно по одному голосу на пользователя.
// Повторный голос отсекается уникальным индексом при вставке, до инкремента
// счётчиков, поэтому двойного учёта не бывает.
func (s *PollService) CastVote(ctx context.Context, pollID, userID uuid.UUID, optionIndex int) (*models.PollResults, error) {
	if res := validation.ValidateVote(validation.VoteInput{OptionIndex: optionIndex}); !res.OK() {
		return nil, apperror.ErrInvalidOption
	}

	poll, err := s.store.GetByID(ctx, pollID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, apperror.ErrPollNotFound
	}
	if err != nil {
		return nil, err
	}

	// Срок жизни опроса проверяется лениво при каждом обращении.
	if poll.IsExpired(time.Now()) {
		return nil, apperror.ErrPollExpired
	}
	if optionIndex >= len(poll.Options) {
		return nil, apperror.ErrInvalidOption
	}

	if err := s.store.InsertVote(ctx, pollID, userID, optionIndex); err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadyExists):
			return nil, apperror.ErrDuplicateVote
		case errors.Is(err, common.ErrInvalidInput):
			return nil, apperror.ErrInvalidOption
		default:
			return nil, err
		}
	}

	results, err := s.GetResults(ctx, pollID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.BroadcastPollResults(results)
	}

	return results, nil
}

// GetResults возвращает процентную раскладку по вариантам. Операция только
// читает данные и безопасна в любом состоянии опроса, включая ноль голосов.
func (s *PollService) GetResults(ctx context.Context, pollID uuid.UUID) (*models.PollResults, error) {
	poll, err := s.store.GetByID(ctx, pollID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, apperror.ErrPollNotFound
	}
	if err != nil {
		return nil, err
	}

	return BuildResults(poll, time.Now()), nil
}

// GetUserVote возвращает индекс варианта, за который голосовал пользователь,
// или nil, если голоса нет. Отсутствие голоса - не ошибка.
func (s *PollService) GetUserVote(ctx context.Context, pollID, userID uuid.UUID) (*int, error) {
	vote, err := s.store.GetUserVote(ctx, pollID, userID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	idx := vote.OptionIndex
	return &idx, nil
}

// Reconcile пересчитывает счётчики опроса из записей голосов. Процедура
// восстановления после частичного сбоя между вставкой голоса и инкрементом.
func (s *PollService) Reconcile(ctx context.Context, pollID uuid.UUID) (*models.PollResults, error) {
	if err := s.store.Reconcile(ctx, pollID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.ErrPollNotFound
		}
		return nil, err
	}

	logger.WithComponent("poll").WithField("poll_id", pollID).Info("счётчики опроса пересчитаны")

	return s.GetResults(ctx, pollID)
}

// BuildResults считает проценты по вариантам. Каждый процент округляется до
// двух знаков независимо, поэтому сумма может отклоняться от 100 на ошибку
// округления - это ожидаемое поведение, а не дефект.
func BuildResults(poll *models.Poll, now time.Time) *models.PollResults {
	results := &models.PollResults{
		PollID:     poll.ID,
		Question:   poll.Question,
		TotalVotes: poll.TotalVotes,
		Expired:    poll.IsExpired(now),
		Options:    make([]models.OptionResult, 0, len(poll.Options)),
	}

	for _, opt := range poll.Options {
		var pct float64
		if poll.TotalVotes > 0 {
			pct = roundPercent(float64(opt.Votes) / float64(poll.TotalVotes) * 100)
		}
		results.Options = append(results.Options, models.OptionResult{
			OptionIndex: opt.OptionIndex,
			Text:        opt.Text,
			Votes:       opt.Votes,
			Percentage:  pct,
		})
	}

	return results
}

// roundPercent округляет до двух знаков после запятой.
func roundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
