package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/roadready/roadready/internal/catalog"
	"github.com/roadready/roadready/internal/scoring"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func addStudent(t *testing.T, s *Store, teacherID, name string) *Student {
	t.Helper()
	st := &Student{TeacherID: teacherID, Name: name, CreatedAt: time.Now()}
	if err := s.StudentRepo().CreateStudent(context.Background(), st); err != nil {
		t.Fatalf("create student: %v", err)
	}
	return st
}

func TestOpenUnsupportedDriver(t *testing.T) {
	if _, err := Open("oracle", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{
		"categories", "skills", "students", "student_skills",
		"score_events", "readiness_snapshots", "global_sequence",
	} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	s, err := Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	st := &Student{TeacherID: "t1", Name: "Noa", CreatedAt: time.Now()}
	if err := s.StudentRepo().CreateStudent(context.Background(), st); err != nil {
		t.Fatalf("create: %v", err)
	}
	s.Close()

	s, err = Open("sqlite", path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.StudentRepo().Student(context.Background(), st.ID); err != nil {
		t.Fatalf("student after reopen: %v", err)
	}
}

func TestPostgresPlaceholders(t *testing.T) {
	query, args := entsql.Dialect(dialect.Postgres).
		Select("id").
		From(entsql.Dialect(dialect.Postgres).Table("students")).
		Where(entsql.EQ("teacher_id", "t1")).
		Query()
	if !strings.Contains(query, "$1") {
		t.Errorf("query = %q, want $1 placeholder", query)
	}
	if len(args) != 1 || args[0] != "t1" {
		t.Errorf("args = %v, want [t1]", args)
	}
}

func TestCatalogReplaceAndLoad(t *testing.T) {
	s := openTestStore(t)
	repo := s.CatalogRepo()
	ctx := context.Background()

	empty, err := repo.Catalog(ctx, "t1")
	if err != nil {
		t.Fatalf("catalog (empty): %v", err)
	}
	if !empty.Empty() {
		t.Fatalf("expected empty catalog, got %d skills", len(empty.Skills))
	}

	def := catalog.Default()
	if err := repo.ReplaceCatalog(ctx, "t1", def); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := repo.Catalog(ctx, "t1")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(got.Categories) != len(def.Categories) {
		t.Fatalf("categories = %d, want %d", len(got.Categories), len(def.Categories))
	}
	if len(got.Skills) != len(def.Skills) {
		t.Fatalf("skills = %d, want %d", len(got.Skills), len(def.Skills))
	}
	for i := range def.Skills {
		if got.Skills[i].ID != def.Skills[i].ID {
			t.Errorf("skill[%d] = %s, want %s", i, got.Skills[i].ID, def.Skills[i].ID)
		}
	}
	adv, ok := got.AdvancedCategory()
	if !ok || adv.ID != catalog.CategoryAdvancedManeuvers {
		t.Errorf("advanced = %v/%v, want %s", adv.ID, ok, catalog.CategoryAdvancedManeuvers)
	}

	// Another teacher is unaffected.
	other, err := repo.Catalog(ctx, "t2")
	if err != nil {
		t.Fatalf("catalog t2: %v", err)
	}
	if !other.Empty() {
		t.Error("expected t2 catalog to be empty")
	}

	// Replacing shrinks the catalog.
	small := catalog.New(
		[]catalog.Category{{ID: "basics", Name: "Basics"}},
		[]catalog.Skill{{ID: "mirrors", CategoryID: "basics", Name: "Mirrors"}},
	)
	if err := repo.ReplaceCatalog(ctx, "t1", small); err != nil {
		t.Fatalf("replace small: %v", err)
	}
	got, err = repo.Catalog(ctx, "t1")
	if err != nil {
		t.Fatalf("catalog after shrink: %v", err)
	}
	if len(got.Skills) != 1 || got.Skills[0].ID != "mirrors" {
		t.Errorf("skills after shrink = %+v", got.Skills)
	}
}

func TestStudents(t *testing.T) {
	s := openTestStore(t)
	repo := s.StudentRepo()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"Avi", "Bat-El"} {
		st := &Student{TeacherID: "t1", Name: name, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := repo.CreateStudent(ctx, st); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if st.ID == "" {
			t.Fatalf("expected generated ID for %s", name)
		}
	}
	addStudent(t, s, "t2", "Other")

	list, err := repo.Students(ctx, "t1")
	if err != nil {
		t.Fatalf("students: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Avi" || list[1].Name != "Bat-El" {
		t.Fatalf("students = %+v", list)
	}
	if !list[0].CreatedAt.Equal(base) {
		t.Errorf("created_at = %v, want %v", list[0].CreatedAt, base)
	}

	got, err := repo.Student(ctx, list[1].ID)
	if err != nil {
		t.Fatalf("student: %v", err)
	}
	if got.Name != "Bat-El" || got.TeacherID != "t1" {
		t.Errorf("student = %+v", got)
	}

	_, err = repo.Student(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing student err = %v, want ErrNotFound", err)
	}
}

// setTo returns a RatingChange that replaces the score and practice data.
func setTo(score scoring.Score, count int, at *time.Time, notes string) RatingChange {
	return func(prev SkillRecord) SkillRecord {
		prev.Score = score
		prev.PracticeCount = count
		prev.LastPracticedAt = at
		prev.Notes = notes
		if at != nil {
			prev.UpdatedAt = *at
		}
		return prev
	}
}

func TestRecordRating(t *testing.T) {
	s := openTestStore(t)
	repo := s.SkillRecordRepo()
	ctx := context.Background()
	st := addStudent(t, s, "t1", "Noa")

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	res, err := repo.RecordRating(ctx, st.ID, "steering", now, "first", func(prev SkillRecord) SkillRecord {
		if prev.Score != scoring.Unrated || prev.PracticeCount != 0 || prev.StudentID != st.ID {
			t.Errorf("first prev = %+v, want zero record", prev)
		}
		return setTo(3, 1, &now, "drifts left")(prev)
	})
	if err != nil {
		t.Fatalf("first rating: %v", err)
	}
	if res.Event.FromScore != 0 || res.Event.ToScore != 3 || res.Event.FromStatus != scoring.StatusNotLearned ||
		res.Event.ToStatus != scoring.StatusInProgress || res.Event.Note != "first" {
		t.Errorf("first event = %+v", res.Event)
	}

	later := now.Add(time.Hour)
	res, err = repo.RecordRating(ctx, st.ID, "steering", later, "", func(prev SkillRecord) SkillRecord {
		if prev.Score != 3 || prev.Notes != "drifts left" {
			t.Errorf("second prev = %+v", prev)
		}
		return setTo(5, prev.PracticeCount+1, &later, "")(prev)
	})
	if err != nil {
		t.Fatalf("second rating: %v", err)
	}
	if res.Previous.Score != 3 || res.Current.Score != 5 || res.Event.ToStatus != scoring.StatusMastered {
		t.Errorf("second result = %+v", res)
	}
	if !res.Event.Timestamp.Equal(later) {
		t.Errorf("event time = %v, want %v", res.Event.Timestamp, later)
	}

	// A skill without practice keeps a NULL timestamp.
	if _, err := repo.RecordRating(ctx, st.ID, "braking", now, "", setTo(0, 0, nil, "")); err != nil {
		t.Fatalf("unrated: %v", err)
	}

	all, err := repo.SkillRecords(ctx, st.ID)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("records = %d, want 2", len(all))
	}
	if all[0].SkillID != "braking" || all[0].LastPracticedAt != nil || all[0].Score != scoring.Unrated {
		t.Errorf("braking record = %+v", all[0])
	}
	if all[1].Score != 5 || all[1].PracticeCount != 2 || all[1].Notes != "" {
		t.Errorf("steering record = %+v", all[1])
	}
	if all[1].LastPracticedAt == nil || !all[1].LastPracticedAt.Equal(later) {
		t.Errorf("last practiced = %v, want %v", all[1].LastPracticedAt, later)
	}
}

func TestRecordRatingRejectsOutOfRange(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	st := addStudent(t, s, "t1", "Noa")

	_, err := s.SkillRecordRepo().RecordRating(ctx, st.ID, "steering", time.Now(), "", setTo(6, 1, nil, ""))
	if !errors.Is(err, scoring.ErrScoreOutOfRange) {
		t.Fatalf("err = %v, want ErrScoreOutOfRange", err)
	}
	events, err := s.EventRepo().ScoreEvents(ctx, st.ID, QueryOpts{})
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events = %d, want 0", len(events))
	}
}

func TestRecordRatingRollsBackWhenEventFails(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	st := addStudent(t, s, "t1", "Noa")
	repo := s.SkillRecordRepo()

	now := time.Now()
	if _, err := repo.RecordRating(ctx, st.ID, "steering", now, "", setTo(2, 1, &now, "")); err != nil {
		t.Fatalf("first rating: %v", err)
	}

	if _, err := s.DB().ExecContext(ctx, `CREATE TRIGGER fail_score_events BEFORE INSERT ON score_events
		BEGIN SELECT RAISE(ABORT, 'disk full'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	_, err := repo.RecordRating(ctx, st.ID, "steering", now, "", setTo(5, 2, &now, ""))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("err = %v, want event insert failure", err)
	}

	all, err := repo.SkillRecords(ctx, st.ID)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(all) != 1 || all[0].Score != 2 || all[0].PracticeCount != 1 {
		t.Errorf("records after failed rating = %+v, want score 2 practiced once", all)
	}
	events, err := s.EventRepo().ScoreEvents(ctx, st.ID, QueryOpts{})
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("events = %d, want 1", len(events))
	}
}

func TestScoreEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	records := s.SkillRecordRepo()
	ctx := context.Background()
	st := addStudent(t, s, "t1", "Noa")
	other := addStudent(t, s, "t1", "Eli")

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var seqs []int64
	for i := 0; i < 4; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		res, err := records.RecordRating(ctx, st.ID, "steering", at, "", setTo(scoring.Score(i+1), i+1, &at, ""))
		if err != nil {
			t.Fatalf("rating %d: %v", i, err)
		}
		seqs = append(seqs, res.Event.Sequence)
	}
	if _, err := records.RecordRating(ctx, other.ID, "steering", base, "", setTo(2, 1, &base, "")); err != nil {
		t.Fatalf("rating other: %v", err)
	}

	for i := 1; i < len(seqs); i++ {
		if seqs[i] <= seqs[i-1] {
			t.Fatalf("sequences not increasing: %v", seqs)
		}
	}

	events, err := repo.ScoreEvents(ctx, st.ID, QueryOpts{})
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("events = %d, want 4", len(events))
	}
	if events[0].Sequence != seqs[3] || events[0].FromScore != 3 || events[0].ToScore != 4 || events[0].ToStatus != scoring.StatusMastered {
		t.Errorf("newest event = %+v", events[0])
	}
	if events[3].FromStatus != scoring.StatusNotLearned {
		t.Errorf("oldest from status = %s", events[3].FromStatus)
	}

	limited, err := repo.ScoreEvents(ctx, st.ID, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited = %d, want 2", len(limited))
	}

	window, err := repo.ScoreEvents(ctx, st.ID, QueryOpts{After: seqs[1], Before: seqs[3]})
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if len(window) != 1 || window[0].Sequence != seqs[2] {
		t.Errorf("window = %+v, want only seq %d", window, seqs[2])
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Seeding twice must not reset the counter.
	sc, err := newSequenceCounter(ctx, s.DB(), s.Dialect())
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx, s.DB())
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}

	if _, err := newSequenceCounter(ctx, s.DB(), s.Dialect()); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	seq, err := sc.Next(ctx, s.DB())
	if err != nil {
		t.Fatalf("next after reseed: %v", err)
	}
	if seq != 6 {
		t.Errorf("seq after reseed = %d, want 6", seq)
	}
}

func saveSnapshots(t *testing.T, repo SnapshotRepo, studentID string, n int) {
	t.Helper()
	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < n; i++ {
		err := repo.Save(context.Background(), &Snapshot{
			StudentID: studentID,
			Sequence:  int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data: SnapshotData{
				Version:   1,
				Readiness: scoring.Readiness{Avg: float64(i)},
				Rated:     i,
				Total:     n,
			},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
}

func TestSnapshotSaveAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	list, err := repo.List(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("list (empty): %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("list (empty) = %+v", list)
	}

	saveSnapshots(t, repo, "s1", 3)
	saveSnapshots(t, repo, "s2", 1)

	list, err = repo.List(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Sequence != 3 || list[2].Sequence != 1 {
		t.Fatalf("list = %+v", list)
	}
	if list[0].Data.Rated != 2 || list[0].Data.Readiness.Avg != 2 {
		t.Errorf("newest = %+v", list[0])
	}
	if list[0].ID == "" {
		t.Error("expected generated snapshot ID")
	}

	newest, err := repo.List(ctx, "s1", 1)
	if err != nil {
		t.Fatalf("list limit: %v", err)
	}
	if len(newest) != 1 || newest[0].Sequence != 3 {
		t.Errorf("list limit 1 = %+v", newest)
	}
}

func TestSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	saveSnapshots(t, repo, "s1", 7)
	saveSnapshots(t, repo, "s2", 7)

	if err := repo.Prune(ctx, "s1", 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	list, err := repo.List(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 5 {
		t.Errorf("remaining snapshots = %d, want 5", len(list))
	}
	if list[0].Sequence != 7 || list[4].Sequence != 3 {
		t.Errorf("kept sequences %d..%d, want 7..3", list[0].Sequence, list[4].Sequence)
	}

	others, err := repo.List(ctx, "s2", 0)
	if err != nil {
		t.Fatalf("list s2: %v", err)
	}
	if len(others) != 7 {
		t.Errorf("s2 snapshots = %d, want 7", len(others))
	}
}

func TestSnapshotPruneWithFewerThanKeep(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	saveSnapshots(t, repo, "s1", 2)

	if err := repo.Prune(ctx, "s1", 5); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if err := repo.Prune(ctx, "s1", 0); err != nil {
		t.Fatalf("prune keep=0: %v", err)
	}

	list, err := repo.List(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("remaining snapshots = %d, want 2", len(list))
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("ROADREADY_DB", filepath.Join(dir, "explicit", "x.db"))
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("explicit: %v", err)
	}
	if p != filepath.Join(dir, "explicit", "x.db") {
		t.Errorf("explicit path = %q", p)
	}

	t.Setenv("ROADREADY_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("xdg: %v", err)
	}
	if p != filepath.Join(dir, "roadready", "roadready.db") {
		t.Errorf("xdg path = %q", p)
	}
}
