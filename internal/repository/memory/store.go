// Package memory implements every repository interface over process-local
// maps. It backs tests and the "memory" database driver; the relational
// implementations in repository/postgres are drop-in replacements.
package memory

import (
	"sort"
	"sync"

	"github.com/lunaria-app/lunaria/internal/domain/insight"
	"github.com/lunaria-app/lunaria/internal/domain/payment"
	"github.com/lunaria-app/lunaria/internal/domain/questionnaire"
	"github.com/lunaria-app/lunaria/internal/domain/reading"
	"github.com/lunaria-app/lunaria/internal/domain/session"
	"github.com/lunaria-app/lunaria/internal/domain/user"
)

// Store holds every collection behind one mutex so cross-entity checks
// (foreign keys, uniqueness) and read-modify-write updates are atomic.
type Store struct {
	mu sync.Mutex

	users          map[int64]*user.User
	sessions       map[string]*session.Session
	questionnaires map[int64]*questionnaire.Questionnaire
	readings       map[int64]*reading.Reading
	payments       map[int64]*payment.Payment
	insights       map[int64]*insight.Insight

	nextUserID          int64
	nextQuestionnaireID int64
	nextReadingID       int64
	nextPaymentID       int64
	nextInsightID       int64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:               make(map[int64]*user.User),
		sessions:            make(map[string]*session.Session),
		questionnaires:      make(map[int64]*questionnaire.Questionnaire),
		readings:            make(map[int64]*reading.Reading),
		payments:            make(map[int64]*payment.Payment),
		insights:            make(map[int64]*insight.Insight),
		nextUserID:          1,
		nextQuestionnaireID: 1,
		nextReadingID:       1,
		nextPaymentID:       1,
		nextInsightID:       1,
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() user.Repository { return &userRepo{s} }

// Sessions returns the session repository view of the store.
func (s *Store) Sessions() session.Repository { return &sessionRepo{s} }

// Questionnaires returns the questionnaire repository view of the store.
func (s *Store) Questionnaires() questionnaire.Repository { return &questionnaireRepo{s} }

// Readings returns the reading repository view of the store.
func (s *Store) Readings() reading.Repository { return &readingRepo{s} }

// Payments returns the payment repository view of the store.
func (s *Store) Payments() payment.Repository { return &paymentRepo{s} }

// Insights returns the insight repository view of the store.
func (s *Store) Insights() insight.Repository { return &insightRepo{s} }

// sortedIDs returns map keys ascending; IDs are monotonic so ascending ID
// order is insertion order.
func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func paginate(total int, limit, offset int) (int, int) {
	if offset >= total {
		return 0, 0
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return offset, end
}
