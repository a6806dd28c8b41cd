package storage

import (
	"context"
	"errors"
	"testing"

	domerrors "github.com/N724/kcb/internal/errors"
)

func newRepoTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSaveAndGetDocument(t *testing.T) {
	db := newRepoTestDB(t)
	ctx := context.Background()

	if err := db.SaveDocument(ctx, "today:d1", "raw document body"); err != nil {
		t.Fatalf("save: %v", err)
	}

	body, err := db.GetDocument(ctx, "today:d1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if body != "raw document body" {
		t.Errorf("body = %q, want raw document body", body)
	}
}

func TestSaveDocumentUpsert(t *testing.T) {
	db := newRepoTestDB(t)
	ctx := context.Background()

	if err := db.SaveDocument(ctx, "today", "first"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := db.SaveDocument(ctx, "today", "second"); err != nil {
		t.Fatalf("save again: %v", err)
	}

	body, err := db.GetDocument(ctx, "today")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if body != "second" {
		t.Errorf("body = %q, want second", body)
	}

	count, err := db.CountDocuments(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	db := newRepoTestDB(t)

	_, err := db.GetDocument(context.Background(), "missing")
	if !errors.Is(err, domerrors.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetDocumentExpired(t *testing.T) {
	// Zero TTL expires entries immediately.
	db, err := New(":memory:", 0)
	if err != nil {
		t.Fatalf("failed to create db: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	if err := db.SaveDocument(ctx, "today", "stale"); err != nil {
		t.Fatalf("save: %v", err)
	}

	_, err = db.GetDocument(ctx, "today")
	if !errors.Is(err, domerrors.ErrCacheExpired) {
		t.Errorf("error = %v, want ErrCacheExpired", err)
	}
}

func TestPurgeExpiredDocuments(t *testing.T) {
	db, err := New(":memory:", 0)
	if err != nil {
		t.Fatalf("failed to create db: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	for _, key := range []string{"a", "b", "c"} {
		if err := db.SaveDocument(ctx, key, "body"); err != nil {
			t.Fatalf("save %s: %v", key, err)
		}
	}

	removed, err := db.PurgeExpiredDocuments(ctx)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}

	count, err := db.CountDocuments(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestPurgeKeepsFreshDocuments(t *testing.T) {
	db := newRepoTestDB(t)
	ctx := context.Background()

	if err := db.SaveDocument(ctx, "fresh", "body"); err != nil {
		t.Fatalf("save: %v", err)
	}

	removed, err := db.PurgeExpiredDocuments(ctx)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}

func TestReplaceAndGetLocalCourses(t *testing.T) {
	db := newRepoTestDB(t)
	ctx := context.Background()

	courses := []LocalCourse{
		{Weekday: 1, Name: "高等数学", Teacher: "陈小丹", Location: "3-4-8", TimeRange: "08:40-10:10", Weeks: "1-16周"},
		{Weekday: 1, Name: "大学英语", Teacher: "李雪", Location: "2-2-305", TimeRange: "10:30-12:00", Weeks: "1-16周"},
		{Weekday: 3, Name: "体育", Teacher: "刘洋", Location: "东操场", TimeRange: "16:20-17:50", Weeks: "1-16周"},
	}
	if err := db.ReplaceLocalCourses(ctx, courses); err != nil {
		t.Fatalf("replace: %v", err)
	}

	monday, err := db.GetLocalCoursesByWeekday(ctx, 1)
	if err != nil {
		t.Fatalf("get weekday 1: %v", err)
	}
	if len(monday) != 2 {
		t.Fatalf("weekday 1 courses = %d, want 2", len(monday))
	}
	// Positions preserve insertion order within the day.
	if monday[0].Name != "高等数学" || monday[1].Name != "大学英语" {
		t.Errorf("order = %s, %s", monday[0].Name, monday[1].Name)
	}

	all, err := db.GetAllLocalCourses(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("all courses = %d, want 3", len(all))
	}
}

func TestReplaceLocalCoursesSwapsData(t *testing.T) {
	db := newRepoTestDB(t)
	ctx := context.Background()

	first := []LocalCourse{{Weekday: 1, Name: "旧课程"}}
	if err := db.ReplaceLocalCourses(ctx, first); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	second := []LocalCourse{{Weekday: 2, Name: "新课程"}}
	if err := db.ReplaceLocalCourses(ctx, second); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	monday, err := db.GetLocalCoursesByWeekday(ctx, 1)
	if err != nil {
		t.Fatalf("get weekday 1: %v", err)
	}
	if len(monday) != 0 {
		t.Errorf("weekday 1 courses = %d, want 0 after swap", len(monday))
	}

	tuesday, err := db.GetLocalCoursesByWeekday(ctx, 2)
	if err != nil {
		t.Fatalf("get weekday 2: %v", err)
	}
	if len(tuesday) != 1 || tuesday[0].Name != "新课程" {
		t.Errorf("weekday 2 = %+v, want 新课程", tuesday)
	}
}

func TestGetLocalCoursesEmptyDay(t *testing.T) {
	db := newRepoTestDB(t)

	courses, err := db.GetLocalCoursesByWeekday(context.Background(), 6)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(courses) != 0 {
		t.Errorf("courses = %d, want 0", len(courses))
	}
}
