package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"server/internal/domain"
)

// MemStore keeps every entity in process memory for the lifetime of the
// server. Ids are assigned per kind, monotonically, and never reused even
// after deletion. Nothing survives a restart.
//
// One mutex guards all four maps. The upstream design accepts racy
// interleaving between requests; the lock only keeps individual store
// operations atomic so concurrent handlers cannot corrupt the maps.
type MemStore struct {
	mu sync.Mutex

	users       map[int]domain.User
	preferences map[int]domain.UserPreference
	plans       map[int]domain.StudyPlan
	messages    map[int]domain.ChatMessage

	nextUserID       int
	nextPreferenceID int
	nextPlanID       int
	nextMessageID    int

	now func() time.Time
}

var _ domain.Store = (*MemStore)(nil)

// New returns an empty MemStore.
func New() *MemStore {
	return &MemStore{
		users:            make(map[int]domain.User),
		preferences:      make(map[int]domain.UserPreference),
		plans:            make(map[int]domain.StudyPlan),
		messages:         make(map[int]domain.ChatMessage),
		nextUserID:       1,
		nextPreferenceID: 1,
		nextPlanID:       1,
		nextMessageID:    1,
		now:              time.Now,
	}
}

// Seed inserts the demo user and his preferences. Call once at startup.
func (s *MemStore) Seed() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := domain.User{
		ID:             s.nextUserID,
		Username:       "carlos",
		Password:       "password123",
		Name:           "Carlos Silva",
		Email:          "carlos@example.com",
		ProfilePicture: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?ixlib=rb-1.2.1&auto=format&fit=facearea&facepad=2&w=256&h=256&q=80",
	}
	s.nextUserID++
	s.users[user.ID] = user

	prefs := domain.UserPreference{
		ID:                   s.nextPreferenceID,
		UserID:               user.ID,
		StudyTimePreferences: []string{"evening", "weekend"},
		HoursPerWeek:         "10-15 hours",
		LearningStyle:        "practical",
		DefaultCalendar:      "Primary Calendar",
		SetReminders:         true,
	}
	s.nextPreferenceID++
	s.preferences[prefs.ID] = prefs

	out := user
	return &out
}

// ----- Users -----

func (s *MemStore) UserByID(ctx context.Context, id int) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *MemStore) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (s *MemStore) CreateUser(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := domain.User{
		ID:             s.nextUserID,
		Username:       in.Username,
		Password:       in.Password,
		Name:           in.Name,
		Email:          in.Email,
		ProfilePicture: in.ProfilePicture,
		PhoneNumber:    in.PhoneNumber,
	}
	s.nextUserID++
	s.users[u.ID] = u

	out := u
	return &out, nil
}

func (s *MemStore) UpdateUser(ctx context.Context, id int, patch domain.UserPatch) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.PhoneNumber != nil {
		u.PhoneNumber = *patch.PhoneNumber
	}
	s.users[id] = u

	out := u
	return &out, nil
}

// ----- Preferences -----

func (s *MemStore) PreferencesByUser(ctx context.Context, userID int) (*domain.UserPreference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.preferencesByUserLocked(userID)
	if !ok {
		return nil, nil
	}
	out := clonePreference(p)
	return &out, nil
}

// preferencesByUserLocked scans in id order so "first match" is stable
// even though map iteration is not.
func (s *MemStore) preferencesByUserLocked(userID int) (domain.UserPreference, bool) {
	ids := make([]int, 0, len(s.preferences))
	for id := range s.preferences {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if p := s.preferences[id]; p.UserID == userID {
			return p, true
		}
	}
	return domain.UserPreference{}, false
}

func (s *MemStore) CreatePreferences(ctx context.Context, in domain.NewUserPreference) (*domain.UserPreference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.createPreferencesLocked(in)
	out := clonePreference(p)
	return &out, nil
}

func (s *MemStore) createPreferencesLocked(in domain.NewUserPreference) domain.UserPreference {
	p := domain.UserPreference{
		ID:                   s.nextPreferenceID,
		UserID:               in.UserID,
		StudyTimePreferences: append([]string(nil), in.StudyTimePreferences...),
		HoursPerWeek:         in.HoursPerWeek,
		LearningStyle:        in.LearningStyle,
		DefaultCalendar:      in.DefaultCalendar,
		SetReminders:         in.SetReminders,
		CalendarConnected:    in.CalendarConnected,
		CalendarEmail:        in.CalendarEmail,
	}
	if p.StudyTimePreferences == nil {
		p.StudyTimePreferences = []string{}
	}
	s.nextPreferenceID++
	s.preferences[p.ID] = p
	return p
}

func (s *MemStore) UpdatePreferencesByUser(ctx context.Context, userID int, patch domain.PreferencePatch) (*domain.UserPreference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.preferencesByUserLocked(userID)
	if !ok {
		// Lazy creation: synthesize a record from the patch merged over
		// documented defaults.
		in := domain.NewUserPreference{
			UserID:        userID,
			HoursPerWeek:  domain.DefaultHoursPerWeek,
			LearningStyle: domain.DefaultLearningStyle,
			SetReminders:  true,
		}
		if patch.StudyTimePreferences != nil {
			in.StudyTimePreferences = *patch.StudyTimePreferences
		}
		if patch.HoursPerWeek != nil {
			in.HoursPerWeek = *patch.HoursPerWeek
		}
		if patch.LearningStyle != nil {
			in.LearningStyle = *patch.LearningStyle
		}
		if patch.DefaultCalendar != nil {
			in.DefaultCalendar = *patch.DefaultCalendar
		}
		if patch.SetReminders != nil {
			in.SetReminders = *patch.SetReminders
		}
		if patch.CalendarConnected != nil {
			in.CalendarConnected = *patch.CalendarConnected
		}
		if patch.CalendarEmail != nil {
			in.CalendarEmail = *patch.CalendarEmail
		}
		created := s.createPreferencesLocked(in)
		out := clonePreference(created)
		return &out, nil
	}

	if patch.StudyTimePreferences != nil {
		p.StudyTimePreferences = append([]string(nil), (*patch.StudyTimePreferences)...)
	}
	if patch.HoursPerWeek != nil {
		p.HoursPerWeek = *patch.HoursPerWeek
	}
	if patch.LearningStyle != nil {
		p.LearningStyle = *patch.LearningStyle
	}
	if patch.DefaultCalendar != nil {
		p.DefaultCalendar = *patch.DefaultCalendar
	}
	if patch.SetReminders != nil {
		p.SetReminders = *patch.SetReminders
	}
	if patch.CalendarConnected != nil {
		p.CalendarConnected = *patch.CalendarConnected
	}
	if patch.CalendarEmail != nil {
		p.CalendarEmail = *patch.CalendarEmail
	}
	s.preferences[p.ID] = p

	out := clonePreference(p)
	return &out, nil
}

// ----- Study plans -----

func (s *MemStore) PlanByID(ctx context.Context, id int) (*domain.StudyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[id]
	if !ok {
		return nil, nil
	}
	out := clonePlan(p)
	return &out, nil
}

func (s *MemStore) PlansByUser(ctx context.Context, userID int) ([]domain.StudyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.StudyPlan, 0)
	for _, p := range s.plans {
		if p.UserID == userID {
			out = append(out, clonePlan(p))
		}
	}
	// Most recent first; ids break ties since creation stamps can collide
	// within clock resolution.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemStore) CreatePlan(ctx context.Context, in domain.NewStudyPlan) (*domain.StudyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := domain.StudyPlan{
		ID:               s.nextPlanID,
		UserID:           in.UserID,
		Title:            in.Title,
		Description:      in.Description,
		Duration:         in.Duration,
		HoursPerWeek:     in.HoursPerWeek,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		Schedule:         in.Schedule,
		CurrentFocus:     in.CurrentFocus,
		Status:           in.Status,
		ColorScheme:      in.ColorScheme,
		CalendarEventIDs: []string{},
		Content:          append([]domain.PlanSection(nil), in.Content...),
		CreatedAt:        s.now(),
	}
	if p.Status == "" {
		p.Status = domain.PlanStatusInProgress
	}
	if p.ColorScheme == "" {
		p.ColorScheme = domain.DefaultColorScheme
	}
	s.nextPlanID++
	s.plans[p.ID] = p

	out := clonePlan(p)
	return &out, nil
}

func (s *MemStore) UpdatePlan(ctx context.Context, id int, patch domain.StudyPlanPatch) (*domain.StudyPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Duration != nil {
		p.Duration = *patch.Duration
	}
	if patch.HoursPerWeek != nil {
		p.HoursPerWeek = *patch.HoursPerWeek
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		p.EndDate = *patch.EndDate
	}
	if patch.Schedule != nil {
		p.Schedule = *patch.Schedule
	}
	if patch.CurrentFocus != nil {
		p.CurrentFocus = *patch.CurrentFocus
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.ColorScheme != nil {
		p.ColorScheme = *patch.ColorScheme
	}
	if patch.AddedToCalendar != nil {
		p.AddedToCalendar = *patch.AddedToCalendar
	}
	if patch.CalendarEventIDs != nil {
		p.CalendarEventIDs = append([]string(nil), (*patch.CalendarEventIDs)...)
	}
	if patch.Content != nil {
		p.Content = append([]domain.PlanSection(nil), (*patch.Content)...)
	}
	s.plans[id] = p

	out := clonePlan(p)
	return &out, nil
}

func (s *MemStore) DeletePlan(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.plans[id]
	delete(s.plans, id)
	return ok, nil
}

// ----- Chat messages -----

func (s *MemStore) MessageByID(ctx context.Context, id int) (*domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *MemStore) MessagesByUser(ctx context.Context, userID int) ([]domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ChatMessage, 0)
	for _, m := range s.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemStore) CreateMessage(ctx context.Context, in domain.NewChatMessage) (*domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := domain.ChatMessage{
		ID:          s.nextMessageID,
		UserID:      in.UserID,
		StudyPlanID: in.StudyPlanID,
		Role:        in.Role,
		Content:     in.Content,
		Timestamp:   s.now(),
	}
	s.nextMessageID++
	s.messages[m.ID] = m

	out := m
	return &out, nil
}

func (s *MemStore) ClearMessages(ctx context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, m := range s.messages {
		if m.UserID == userID {
			delete(s.messages, id)
		}
	}
	return nil
}

// Returned entities are copies; slices are cloned so callers cannot reach
// into stored state.

func clonePreference(p domain.UserPreference) domain.UserPreference {
	p.StudyTimePreferences = append([]string(nil), p.StudyTimePreferences...)
	if p.StudyTimePreferences == nil {
		p.StudyTimePreferences = []string{}
	}
	return p
}

func clonePlan(p domain.StudyPlan) domain.StudyPlan {
	p.CalendarEventIDs = append([]string(nil), p.CalendarEventIDs...)
	if p.CalendarEventIDs == nil {
		p.CalendarEventIDs = []string{}
	}
	p.Content = append([]domain.PlanSection(nil), p.Content...)
	return p
}
