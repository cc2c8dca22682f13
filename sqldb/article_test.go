package sqldb

import (
	"context"
	"errors"
	"testing"

	"github.com/wansing/news/core"
)

func TestArticleDB(t *testing.T) {
	db := openTestDB(t)
	users := NewUserDB(db, SQLite3)
	articles := NewArticleDB(db, SQLite3)
	ctx := context.Background()

	alice, err := users.InsertUser(ctx, "alice", "p@ss1234")
	if err != nil {
		t.Fatalf("InsertUser returned error: %v", err)
	}

	a := &core.Article{Title: "T", Body: "B", AuthorID: alice.ID()}
	if err := articles.InsertArticle(ctx, a); err != nil {
		t.Fatalf("InsertArticle returned error: %v", err)
	}
	if a.ID == 0 || a.Created == 0 {
		t.Fatalf("id or created not set: %+v", a)
	}

	got, err := articles.GetArticle(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetArticle returned error: %v", err)
	}
	if got.Title != "T" || got.Body != "B" || got.AuthorID != alice.ID() || got.AuthorName != "alice" || got.Created != a.Created {
		t.Fatalf("unexpected article %+v", got)
	}

	got.Title = "T2"
	got.Image = "x.png"
	got.AuthorID = 999 // must be ignored
	if err := articles.UpdateArticle(ctx, got); err != nil {
		t.Fatalf("UpdateArticle returned error: %v", err)
	}

	got, _ = articles.GetArticle(ctx, a.ID)
	if got.Title != "T2" || got.Image != "x.png" || got.AuthorID != alice.ID() {
		t.Fatalf("unexpected updated article %+v", got)
	}

	if err := articles.UpdateArticle(ctx, &core.Article{ID: 12345, Title: "x"}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := articles.GetArticle(ctx, 12345); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecentArticles(t *testing.T) {
	db := openTestDB(t)
	articles := NewArticleDB(db, SQLite3)
	ctx := context.Background()

	// equal timestamps within one second are ordered by id
	for i := 0; i < 25; i++ {
		if err := articles.InsertArticle(ctx, &core.Article{Title: "T", Body: "B", AuthorID: 1}); err != nil {
			t.Fatalf("InsertArticle returned error: %v", err)
		}
	}

	recent, err := articles.RecentArticles(ctx, 20)
	if err != nil {
		t.Fatalf("RecentArticles returned error: %v", err)
	}
	if len(recent) != 20 {
		t.Fatalf("expected 20 articles, got %d", len(recent))
	}
	for i := 1; i < len(recent); i++ {
		if recent[i-1].Created < recent[i].Created || (recent[i-1].Created == recent[i].Created && recent[i-1].ID < recent[i].ID) {
			t.Fatalf("articles not in descending order at %d", i)
		}
	}
	if recent[0].ID != 25 {
		t.Fatalf("expected newest article first, got %d", recent[0].ID)
	}

	all, err := articles.AllArticles(ctx)
	if err != nil {
		t.Fatalf("AllArticles returned error: %v", err)
	}
	if len(all) != 25 {
		t.Fatalf("expected 25 articles, got %d", len(all))
	}
}

func TestDeleteArticleDeletesComments(t *testing.T) {
	db := openTestDB(t)
	articles := NewArticleDB(db, SQLite3)
	comments := NewCommentDB(db, SQLite3)
	ctx := context.Background()

	a := &core.Article{Title: "T", Body: "B", AuthorID: 1}
	articles.InsertArticle(ctx, a)
	other := &core.Article{Title: "O", Body: "O", AuthorID: 1}
	articles.InsertArticle(ctx, other)

	for _, articleID := range []int{a.ID, a.ID, other.ID} {
		if err := comments.InsertComment(ctx, &core.Comment{ArticleID: articleID, AuthorID: 2, Body: "hi"}); err != nil {
			t.Fatalf("InsertComment returned error: %v", err)
		}
	}

	if err := articles.DeleteArticle(ctx, a.ID); err != nil {
		t.Fatalf("DeleteArticle returned error: %v", err)
	}

	if _, err := articles.GetArticle(ctx, a.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var count int
	db.QueryRow("SELECT COUNT(1) FROM comment WHERE article_id = ?", a.ID).Scan(&count)
	if count != 0 {
		t.Fatalf("expected comments to be deleted, %d left", count)
	}

	left, _ := comments.Comments(ctx, other.ID)
	if len(left) != 1 {
		t.Fatalf("expected comment of other article to survive, got %d", len(left))
	}

	if err := articles.DeleteArticle(ctx, a.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
