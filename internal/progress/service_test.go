package progress

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hyperengineering/dinacharya/internal/store"
	"github.com/hyperengineering/dinacharya/internal/types"
)

// memStore is an in-memory Store that copies documents through JSON, the same
// way the SQLite store does.
type memStore struct {
	mu        sync.Mutex
	docs      map[string][]byte
	revs      map[string]int64
	findErr   error
	saveErr   error
	saves     int
	creates   int
	onMissing func() // runs when FindProgress misses, before returning
	onFound   func() // runs when FindProgress hits, after the document is read
}

func newMemStore() *memStore {
	return &memStore{docs: map[string][]byte{}, revs: map[string]int64{}}
}

func (m *memStore) FindProgress(ctx context.Context, email string) (*types.ProgressRecord, error) {
	m.mu.Lock()
	if m.findErr != nil {
		m.mu.Unlock()
		return nil, m.findErr
	}
	doc, ok := m.docs[email]
	rev := m.revs[email]
	hook, found := m.onMissing, m.onFound
	m.mu.Unlock()
	if !ok {
		if hook != nil {
			hook()
		}
		return nil, store.ErrNotFound
	}
	if found != nil {
		found()
	}
	var rec types.ProgressRecord
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, err
	}
	rec.Revision = rev
	return &rec, nil
}

func (m *memStore) CreateProgress(ctx context.Context, rec *types.ProgressRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[rec.UserEmail]; ok {
		return store.ErrAlreadyExists
	}
	doc, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	m.docs[rec.UserEmail] = doc
	m.revs[rec.UserEmail] = 1
	m.creates++
	rec.Revision = 1
	return nil
}

func (m *memStore) SaveProgress(ctx context.Context, rec *types.ProgressRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	cur, ok := m.revs[rec.UserEmail]
	if !ok {
		return store.ErrNotFound
	}
	if cur != rec.Revision {
		return store.ErrConflict
	}
	doc, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	m.docs[rec.UserEmail] = doc
	m.revs[rec.UserEmail] = cur + 1
	m.saves++
	rec.Revision = cur + 1
	return nil
}

func (m *memStore) put(t *testing.T, rec *types.ProgressRecord) {
	t.Helper()
	doc, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	m.docs[rec.UserEmail] = doc
	m.revs[rec.UserEmail] = 1
}

// clock is a settable time source.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestService(st Store, c *clock) *Service {
	return NewService(st, WithClock(c.Now), WithLocation(time.UTC))
}

func testPlan() *types.Plan {
	return &types.Plan{
		Morning:   []types.Task{{ID: 1, Points: 10}, {ID: 2, Points: 15}},
		Afternoon: []types.Task{{ID: 11, Points: 20}},
		Evening:   []types.Task{{ID: 21, Points: 5}},
	}
}

func tasks(ids ...int) *[]int { return &ids }

func TestService_RequiresEmail(t *testing.T) {
	svc := newTestService(newMemStore(), &clock{now: today})

	if _, err := svc.Read(context.Background(), "  "); !errors.Is(err, ErrUserKeyRequired) {
		t.Errorf("Read() error = %v, want ErrUserKeyRequired", err)
	}
	if _, err := svc.Write(context.Background(), "", types.ProgressUpdate{}); !errors.Is(err, ErrUserKeyRequired) {
		t.Errorf("Write() error = %v, want ErrUserKeyRequired", err)
	}
}

func TestService_ReadCreatesDefault(t *testing.T) {
	// Given: A user with no record
	st := newMemStore()
	svc := newTestService(st, &clock{now: today})

	// When: The record is read
	rec, err := svc.Read(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	// Then: The default record is returned and stored
	want := NewRecord("a@example.com", DefaultSeed, today)
	want.Revision = 1
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("Read() mismatch (-want +got):\n%s", diff)
	}
	if st.creates != 1 || st.saves != 0 {
		t.Errorf("creates=%d saves=%d, want 1 and 0", st.creates, st.saves)
	}
}

func TestService_ReadSurfacesStorageErrors(t *testing.T) {
	st := newMemStore()
	st.findErr = errors.New("disk on fire")
	svc := newTestService(st, &clock{now: today})

	_, err := svc.Read(context.Background(), "a@example.com")
	if err == nil || !errors.Is(err, st.findErr) {
		t.Fatalf("Read() error = %v, want wrapped storage error", err)
	}
}

func TestService_ReadLosesCreateRace(t *testing.T) {
	// Given: Another writer creates the record between the miss and the insert
	st := newMemStore()
	other := NewRecord("a@example.com", DefaultSeed, today)
	other.WeeklyStats.TotalPoints = 77
	st.onMissing = func() {
		st.onMissing = nil
		st.put(t, other)
	}
	svc := newTestService(st, &clock{now: today})

	// When: The record is read
	rec, err := svc.Read(context.Background(), "a@example.com")

	// Then: The winner's record is returned
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rec.WeeklyStats.TotalPoints != 77 {
		t.Errorf("TotalPoints = %d, want the concurrent creator's 77", rec.WeeklyStats.TotalPoints)
	}
}

func TestService_ReadLosesSaveRace(t *testing.T) {
	// Given: A record with a stale streak, and a write that lands between
	// the read's lookup and its save
	st := newMemStore()
	st.put(t, &types.ProgressRecord{
		UserEmail:     "a@example.com",
		WeeklyStats:   types.WeeklyStats{Streak: 1, BestStreak: 1, WeeklyGoal: 300},
		DailyActivity: []types.DailyActivity{day(-3, 10)},
	})
	svc := newTestService(st, &clock{now: today})
	st.onFound = func() {
		st.onFound = nil
		if _, err := svc.Write(context.Background(), "a@example.com", types.ProgressUpdate{
			CompletedTasks: tasks(1),
			Plan:           testPlan(),
		}); err != nil {
			t.Errorf("concurrent Write: %v", err)
		}
	}

	// When: The record is read
	rec, err := svc.Read(context.Background(), "a@example.com")

	// Then: The read succeeds with the writer's record
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if diff := cmp.Diff([]int{1}, rec.CompletedTasks); diff != "" {
		t.Errorf("CompletedTasks mismatch (-want +got):\n%s", diff)
	}
	if rec.WeeklyStats.Streak != 1 {
		t.Errorf("Streak = %d, want 1", rec.WeeklyStats.Streak)
	}
	if st.saves != 1 {
		t.Errorf("saves = %d, want only the writer's", st.saves)
	}
}

func TestService_WriteLosesCreateRace(t *testing.T) {
	// Given: Another request creates the record after the write's lookup
	st := newMemStore()
	st.onMissing = func() {
		st.onMissing = nil
		st.put(t, NewRecord("a@example.com", DefaultSeed, today))
	}
	svc := newTestService(st, &clock{now: today})

	// When: The first write tries to create it
	_, err := svc.Write(context.Background(), "a@example.com", types.ProgressUpdate{CompletedTasks: tasks(1)})

	// Then: It reports a conflict, not a duplicate resource
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("Write() error = %v, want ErrConflict", err)
	}
	if errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("Write() error = %v still matches ErrAlreadyExists", err)
	}
}

func TestService_ReadUpgradesAndRecomputesStreak(t *testing.T) {
	// Given: A legacy record whose stored streak is stale
	st := newMemStore()
	st.put(t, &types.ProgressRecord{
		UserEmail:   "a@example.com",
		WeeklyStats: types.WeeklyStats{Streak: 9, BestStreak: 9, WeeklyGoal: 300},
		DailyActivity: []types.DailyActivity{
			day(-1, 10),
			day(-2, 10),
		},
	})
	svc := newTestService(st, &clock{now: today})

	// When: It is read
	rec, err := svc.Read(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	// Then: It is upgraded, the streak comes from the log and best is kept
	if rec.SchemaVersion != types.CurrentSchemaVersion {
		t.Errorf("SchemaVersion = %d", rec.SchemaVersion)
	}
	if rec.WeeklyStats.Streak != 2 || rec.WeeklyStats.BestStreak != 9 {
		t.Errorf("streak=%d best=%d, want 2 and 9", rec.WeeklyStats.Streak, rec.WeeklyStats.BestStreak)
	}
	if st.saves != 1 {
		t.Errorf("saves = %d, want 1", st.saves)
	}

	// And: A second read changes nothing
	if _, err := svc.Read(context.Background(), "a@example.com"); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if st.saves != 1 {
		t.Errorf("saves after second read = %d, want 1", st.saves)
	}
}

func TestService_WriteAggregatesFromPlan(t *testing.T) {
	st := newMemStore()
	svc := newTestService(st, &clock{now: today})

	res, err := svc.Write(context.Background(), "a@example.com", types.ProgressUpdate{
		CompletedTasks: tasks(1, 11),
		Plan:           testPlan(),
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	stats := res.Record.WeeklyStats
	if stats.TotalPoints != 30 || stats.CompletedTasks != 2 || stats.TotalCompleted != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Streak != 1 || stats.BestStreak != 1 {
		t.Errorf("streak=%d best=%d, want 1 and 1", stats.Streak, stats.BestStreak)
	}
	if stats.WeeklyProgress != 10 {
		t.Errorf("WeeklyProgress = %v, want 10", stats.WeeklyProgress)
	}
	if got := ids(res.NewAchievements); !equalIDs(got, []string{"first_task"}) {
		t.Errorf("NewAchievements = %v", got)
	}
	if len(res.Record.DailyActivity) != 1 || res.Record.DailyActivity[0].Points != 30 || res.Record.DailyActivity[0].Streak != 1 {
		t.Errorf("DailyActivity = %+v", res.Record.DailyActivity)
	}
	if st.creates != 1 {
		t.Errorf("creates = %d, want 1", st.creates)
	}
}

func TestService_WriteClientTotals(t *testing.T) {
	// Given: An update that reports totals directly
	st := newMemStore()
	svc := newTestService(st, &clock{now: today})
	points, completed := 150, 1
	streakClaim := 40

	// When: It is written
	res, err := svc.Write(context.Background(), "a@example.com", types.ProgressUpdate{
		CompletedTasks: tasks(1),
		WeeklyStats: &types.WeeklyStatsPatch{
			TotalPoints:    &points,
			TotalCompleted: &completed,
			Streak:         &streakClaim,
		},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	// Then: Points are logged for today and the streak comes from the log
	rec := res.Record
	if rec.DailyActivity[0].Points != 150 {
		t.Errorf("today's points = %d, want 150", rec.DailyActivity[0].Points)
	}
	if rec.WeeklyStats.Streak != 1 {
		t.Errorf("Streak = %d, want 1", rec.WeeklyStats.Streak)
	}
	if rec.WeeklyStats.WeeklyProgress != 50 {
		t.Errorf("WeeklyProgress = %v, want 50", rec.WeeklyStats.WeeklyProgress)
	}
	if got := ids(res.NewAchievements); !equalIDs(got, []string{"first_task", "points_100"}) {
		t.Errorf("NewAchievements = %v", got)
	}
}

func TestService_WriteSameDayKeepsOneEntry(t *testing.T) {
	st := newMemStore()
	c := &clock{now: today}
	svc := newTestService(st, c)
	ctx := context.Background()
	plan := testPlan()

	for i, done := range [][]int{{1}, {1, 2}, {1, 2, 11}} {
		c.now = today.Add(time.Duration(i) * time.Hour)
		if _, err := svc.Write(ctx, "a@example.com", types.ProgressUpdate{CompletedTasks: tasks(done...), Plan: plan}); err != nil {
			t.Fatalf("Write #%d: %v", i+1, err)
		}
	}

	rec, err := svc.Read(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rec.DailyActivity) != 1 {
		t.Fatalf("len(DailyActivity) = %d, want 1", len(rec.DailyActivity))
	}
	entry := rec.DailyActivity[0]
	if entry.Points != 45 || len(entry.CompletedTasks) != 3 {
		t.Errorf("entry = %+v, want the latest write", entry)
	}
	if rec.WeeklyStats.TotalCompleted != 3 {
		t.Errorf("TotalCompleted = %d, want 3", rec.WeeklyStats.TotalCompleted)
	}
}

func TestService_WriteWithoutPointsKeepsTodaysPoints(t *testing.T) {
	st := newMemStore()
	svc := newTestService(st, &clock{now: today})
	ctx := context.Background()

	if _, err := svc.Write(ctx, "a@example.com", types.ProgressUpdate{CompletedTasks: tasks(1, 2), Plan: testPlan()}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	metrics := []types.Metric{{Metric: "Sleep Quality", Current: 80, Target: 90, Trend: types.TrendUp}}
	res, err := svc.Write(ctx, "a@example.com", types.ProgressUpdate{ProgressData: &metrics})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	if res.Record.DailyActivity[0].Points != 25 {
		t.Errorf("today's points = %d, want 25 carried over", res.Record.DailyActivity[0].Points)
	}
	if diff := cmp.Diff(metrics, res.Record.ProgressData); diff != "" {
		t.Errorf("ProgressData mismatch (-want +got):\n%s", diff)
	}
	if len(res.Record.CompletedTasks) != 2 {
		t.Errorf("CompletedTasks = %v, want untouched", res.Record.CompletedTasks)
	}
}

func TestService_BestStreakMonotonic(t *testing.T) {
	// Given: A three-day streak followed by a gap
	st := newMemStore()
	c := &clock{}
	svc := newTestService(st, c)
	ctx := context.Background()
	plan := testPlan()

	prevBest := 0
	days := []int{0, 1, 2, 5, 6}
	for _, d := range days {
		c.now = today.AddDate(0, 0, d)
		res, err := svc.Write(ctx, "a@example.com", types.ProgressUpdate{CompletedTasks: tasks(1), Plan: plan})
		if err != nil {
			t.Fatalf("Write day %d: %v", d, err)
		}
		best := res.Record.WeeklyStats.BestStreak
		if best < prevBest {
			t.Errorf("day %d: BestStreak dropped from %d to %d", d, prevBest, best)
		}
		prevBest = best
	}

	rec, err := svc.Read(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rec.WeeklyStats.Streak != 2 || rec.WeeklyStats.BestStreak != 3 {
		t.Errorf("streak=%d best=%d, want 2 and 3", rec.WeeklyStats.Streak, rec.WeeklyStats.BestStreak)
	}
	seen := map[string]bool{}
	for _, a := range rec.Achievements {
		if seen[a.ID] {
			t.Errorf("achievement %q granted twice", a.ID)
		}
		seen[a.ID] = true
	}
	if !seen["streak_3"] {
		t.Error("streak_3 should have been unlocked")
	}
}

func TestService_WriteZeroPointsKeepsWeeklyProgress(t *testing.T) {
	st := newMemStore()
	svc := newTestService(st, &clock{now: today})
	ctx := context.Background()

	if _, err := svc.Write(ctx, "a@example.com", types.ProgressUpdate{CompletedTasks: tasks(1, 2, 11), Plan: testPlan()}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	res, err := svc.Write(ctx, "a@example.com", types.ProgressUpdate{CompletedTasks: tasks(), Plan: testPlan()})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	if res.Record.WeeklyStats.TotalPoints != 0 {
		t.Errorf("TotalPoints = %d, want 0", res.Record.WeeklyStats.TotalPoints)
	}
	if res.Record.WeeklyStats.WeeklyProgress != 15 {
		t.Errorf("WeeklyProgress = %v, want 15 kept from the previous write", res.Record.WeeklyStats.WeeklyProgress)
	}
}

func TestService_WriteStorageFailure(t *testing.T) {
	st := newMemStore()
	svc := newTestService(st, &clock{now: today})
	ctx := context.Background()
	if _, err := svc.Read(ctx, "a@example.com"); err != nil {
		t.Fatalf("Read: %v", err)
	}

	st.saveErr = store.ErrConflict
	_, err := svc.Write(ctx, "a@example.com", types.ProgressUpdate{CompletedTasks: tasks(1), Plan: testPlan()})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("Write() error = %v, want ErrConflict", err)
	}

	st.saveErr = nil
	rec, err := svc.Read(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rec.CompletedTasks) != 0 || len(rec.DailyActivity) != 0 {
		t.Error("failed write must leave no partial update")
	}
}

func TestService_WithDefaults(t *testing.T) {
	svc := NewService(newMemStore(),
		WithClock(func() time.Time { return today }),
		WithDefaults(Defaults{WeeklyGoal: 500}),
	)

	rec, err := svc.Read(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rec.WeeklyStats.WeeklyGoal != 500 || rec.WeeklyStats.TotalTasks != 35 {
		t.Errorf("stats = %+v, want goal 500 and default total tasks", rec.WeeklyStats)
	}
}
