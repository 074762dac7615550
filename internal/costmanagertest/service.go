// Package costmanagertest provides an in-memory stand-in for the cost manager
// service, for testing the conformance harness without a live deployment.
//
// The stand-in follows the service's observable contract. Faults can switch
// off parts of that contract so tests can see the harness catch them.
package costmanagertest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

const DefaultUserID = 123123

type User struct {
	ID        int
	FirstName string
	LastName  string
}

type Cost struct {
	ID          string    `json:"_id"`
	UserID      int       `json:"userId"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Sum         float64   `json:"sum"`
	Date        time.Time `json:"date"`
}

// Faults break selected parts of the contract. The zero value breaks nothing.
type Faults struct {
	// AboutStatus, AddStatus and ReportStatus override the success status when non-zero.
	AboutStatus  int
	AddStatus    int
	ReportStatus int
	// EmptyAbout answers /api/about with an empty JSON array.
	EmptyAbout bool
	// OmitReportCosts drops the costs key from the monthly report.
	OmitReportCosts bool
}

type Service struct {
	mu     sync.Mutex
	users  map[int]User
	costs  []Cost
	faults Faults
	now    func() time.Time
	engine *gin.Engine
}

type Option func(*Service)

func WithFaults(f Faults) Option {
	return func(s *Service) { s.faults = f }
}

// WithUsers replaces the seeded users.
func WithUsers(users ...User) Option {
	return func(s *Service) {
		s.users = lo.Associate(users, func(u User) (int, User) { return u.ID, u })
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a service seeded with DefaultUserID. The gin mode is left to
// the caller.
func New(opts ...Option) *Service {
	s := &Service{
		users: map[int]User{
			DefaultUserID: {ID: DefaultUserID, FirstName: "mosh", LastName: "israeli"},
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine = gin.New()
	s.engine.Use(gin.Recovery())
	setupRouter(s.engine, s)
	return s
}

// NewServer starts the service on a loopback httptest server.
func NewServer(opts ...Option) (*Service, *httptest.Server) {
	s := New(opts...)
	return s, httptest.NewServer(s.Handler())
}

func (s *Service) Handler() http.Handler {
	return s.engine
}

func (s *Service) SetFaults(f Faults) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = f
}

// Costs returns a copy of the stored entries.
func (s *Service) Costs() []Cost {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Cost(nil), s.costs...)
}

// AddCost stores an entry directly, bypassing the HTTP layer.
func (s *Service) AddCost(c Cost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.costs = append(s.costs, c)
}

func (s *Service) currentFaults() Faults {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faults
}

func (s *Service) user(id int) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}
