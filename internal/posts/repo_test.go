package posts

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/recordhub/recordhub-backend/pkg/db"
	"github.com/recordhub/recordhub-backend/pkg/db/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Address{}, &models.Company{}, &models.Post{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedPosts(t *testing.T, r *Repository, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 1; i <= n; i++ {
		if _, err := r.Create(ctx, CreatePostDTO{
			Title:  fmt.Sprintf("post %02d", i),
			Body:   fmt.Sprintf("body %d", i),
			UserID: 1,
		}); err != nil {
			t.Fatalf("seed post %d: %v", i, err)
		}
	}
}

func TestRepositoryCreateAndFind(t *testing.T) {
	r := NewRepository(newRepoTestDB(t))
	ctx := context.Background()

	created, err := r.Create(ctx, CreatePostDTO{Title: "hello", Body: "world", UserID: 7})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id, got %+v", created)
	}

	loaded, err := r.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find post: %v", err)
	}
	if loaded.Title != "hello" || loaded.UserID != 7 {
		t.Fatalf("unexpected post %+v", loaded)
	}
}

func TestRepositoryTitleIndexRejectsDuplicates(t *testing.T) {
	r := NewRepository(newRepoTestDB(t))
	ctx := context.Background()

	if _, err := r.Create(ctx, CreatePostDTO{Title: "only once", Body: "a", UserID: 1}); err != nil {
		t.Fatalf("create post: %v", err)
	}
	_, err := r.Create(ctx, CreatePostDTO{Title: "only once", Body: "b", UserID: 2})
	if err == nil || !db.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation on title, got %v", err)
	}
}

func TestRepositoryExistsByTitleIsExactMatch(t *testing.T) {
	r := NewRepository(newRepoTestDB(t))
	ctx := context.Background()

	if _, err := r.Create(ctx, CreatePostDTO{Title: "exact title", Body: "a", UserID: 1}); err != nil {
		t.Fatalf("create post: %v", err)
	}

	exists, err := r.ExistsByTitle(ctx, "exact title")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatal("expected exact title to exist")
	}

	exists, err = r.ExistsByTitle(ctx, "exact")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("prefix must not count as an existing title")
	}
}

func TestRepositoryDeleteReportsRows(t *testing.T) {
	r := NewRepository(newRepoTestDB(t))
	ctx := context.Background()

	created, err := r.Create(ctx, CreatePostDTO{Title: "to delete", Body: "a", UserID: 1})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	rows, err := r.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected one row removed, got %d", rows)
	}

	rows, err = r.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected zero rows on repeat delete, got %d", rows)
	}
}

func TestRepositoryListPages(t *testing.T) {
	r := NewRepository(newRepoTestDB(t))
	ctx := context.Background()
	seedPosts(t, r, 25)

	page2, err := r.List(ctx, 10, 10)
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(page2) != 10 {
		t.Fatalf("expected a full second page, got %d", len(page2))
	}
	if page2[0].Title != "post 11" || page2[9].Title != "post 20" {
		t.Fatalf("expected posts 11..20, got %q..%q", page2[0].Title, page2[9].Title)
	}

	page3, err := r.List(ctx, 20, 10)
	if err != nil {
		t.Fatalf("list page 3: %v", err)
	}
	if len(page3) != 5 {
		t.Fatalf("expected the five remaining posts, got %d", len(page3))
	}

	beyond, err := r.List(ctx, 30, 10)
	if err != nil {
		t.Fatalf("list beyond end: %v", err)
	}
	if len(beyond) != 0 {
		t.Fatalf("expected empty page past the end, got %d", len(beyond))
	}
}

func TestRepositorySearchByTitleSubstring(t *testing.T) {
	r := NewRepository(newRepoTestDB(t))
	ctx := context.Background()

	titles := []string{"go concurrency patterns", "intro to go", "rust ownership"}
	for i, title := range titles {
		if _, err := r.Create(ctx, CreatePostDTO{Title: title, Body: "b", UserID: int64(i + 1)}); err != nil {
			t.Fatalf("create %q: %v", title, err)
		}
	}

	found, err := r.SearchByTitle(ctx, "go")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected two substring matches, got %d", len(found))
	}
}

func TestRepositoryTransactRollsBack(t *testing.T) {
	r := NewRepository(newRepoTestDB(t))
	ctx := context.Background()

	err := r.Transact(ctx, func(tx Store) error {
		if _, err := tx.Create(ctx, CreatePostDTO{Title: "ephemeral", Body: "b", UserID: 1}); err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	if err == nil {
		t.Fatal("expected transaction error")
	}

	exists, err := r.ExistsByTitle(ctx, "ephemeral")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("expected rollback to remove the row")
	}
}
