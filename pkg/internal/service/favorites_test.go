package service

import (
	"context"
	"errors"
	"testing"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/taxonomy"
)

func TestFavoriteAddListRemove(t *testing.T) {
	ctx := context.Background()
	svc := &FavoriteService{dbc: newTestDB(t)}

	doc := seedDocument(t, svc.dbc, model.Document{
		Title: "Manual", DocType: "manual",
		Description: taxonomy.Encode("HVAC", "Daikin", ""), Brand: "Daikin",
	})

	if err := svc.Add(ctx, "u1", doc.ID); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// 重复收藏是无害 no-op
	if err := svc.Add(ctx, "u1", doc.ID); err != nil {
		t.Fatalf("repeat Add: %v", err)
	}

	var count int64

	svc.dbc.Model(&model.Favorite{}).Count(&count)
	if count != 1 {
		t.Errorf("favorite rows = %d, want 1", count)
	}

	list, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(list.Favorites) != 1 || list.Favorites[0].ID != doc.ID {
		t.Errorf("list = %+v", list.Favorites)
	}

	if list.Favorites[0].Category != "HVAC" {
		t.Errorf("decoded category = %q", list.Favorites[0].Category)
	}

	if err := svc.Remove(ctx, "u1", doc.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	list, _ = svc.List(ctx, "u1")
	if len(list.Favorites) != 0 {
		t.Errorf("list after remove = %+v", list.Favorites)
	}

	// 再删同样成功
	if err := svc.Remove(ctx, "u1", doc.ID); err != nil {
		t.Errorf("repeat Remove: %v", err)
	}
}

func TestFavoriteRejectsMissingAndSentinel(t *testing.T) {
	ctx := context.Background()
	svc := &FavoriteService{dbc: newTestDB(t)}

	if err := svc.Add(ctx, "u1", "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing doc err = %v, want ErrNotFound", err)
	}

	sentinel := seedDocument(t, svc.dbc, model.Document{
		Title: model.SentinelTitle, DocType: "HVAC",
		Description: taxonomy.Encode("HVAC", "", ""), FileURL: model.SentinelFileURL,
	})

	if err := svc.Add(ctx, "u1", sentinel.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("sentinel err = %v, want ErrNotFound", err)
	}
}

func TestFavoriteListIsPerUser(t *testing.T) {
	ctx := context.Background()
	svc := &FavoriteService{dbc: newTestDB(t)}

	doc := seedDocument(t, svc.dbc, model.Document{
		Title: "Manual", DocType: "manual",
		Description: taxonomy.Encode("HVAC", "Daikin", ""),
	})

	if err := svc.Add(ctx, "u1", doc.ID); err != nil {
		t.Fatalf("Add: %v", err)
	}

	other, err := svc.List(ctx, "u2")
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(other.Favorites) != 0 {
		t.Errorf("u2 list = %+v", other.Favorites)
	}
}
