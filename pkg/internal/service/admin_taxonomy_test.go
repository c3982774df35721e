package service

import (
	"context"
	"testing"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/taxonomy"
	"github.com/yeisme/docvault/pkg/internal/types"
)

func newTaxService(t *testing.T) (*TaxonomyService, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	svc := &TaxonomyService{
		dbc:   newTestDB(t),
		store: store,
	}

	return svc, store
}

func TestRenameCategoryCoversDriftAndPreservesNotes(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaxService(t)

	exact := seedDocument(t, svc.dbc, model.Document{
		Title: "A", DocType: "manual",
		Description: "Cat:HVAC|Daikin - manual de instalação", Brand: "Daikin",
	})
	drifted := seedDocument(t, svc.dbc, model.Document{
		Title: "B", DocType: "manual",
		Description: "Cat:HVAC |Carrier", Brand: "Carrier",
	})
	// 分类占位行：遗留列字面等于旧分类名，必须跟着改
	sentinel := seedDocument(t, svc.dbc, model.Document{
		Title: model.SentinelTitle, DocType: "HVAC",
		Description: taxonomy.Encode("HVAC", "", ""), FileURL: model.SentinelFileURL,
	})
	unrelated := seedDocument(t, svc.dbc, model.Document{
		Title: "C", DocType: "manual",
		Description: "Cat:Linha Branca|LG", Brand: "LG",
	})

	result, err := svc.RenameCategory(ctx, "HVAC", "Climatização")
	if err != nil {
		t.Fatalf("RenameCategory: %v", err)
	}

	if result.Matched != 3 || result.Updated != 3 || len(result.Failed) != 0 {
		t.Errorf("result = %+v", result)
	}

	if result.Status != types.BulkStatusOK {
		t.Errorf("status = %q", result.Status)
	}

	exactRow := loadDocument(t, svc.dbc, exact.ID)
	if exactRow.Description != "Cat:Climatização|Daikin - manual de instalação" {
		t.Errorf("exact row = %q", exactRow.Description)
	}

	if exactRow.DocType != "manual" {
		t.Errorf("legacy column must stay: %q", exactRow.DocType)
	}

	driftedRow := loadDocument(t, svc.dbc, drifted.ID)
	if driftedRow.Description != "Cat:Climatização|Carrier" {
		t.Errorf("drifted row = %q (trailing space must be gone)", driftedRow.Description)
	}

	sentinelRow := loadDocument(t, svc.dbc, sentinel.ID)
	if sentinelRow.DocType != "Climatização" {
		t.Errorf("sentinel legacy column = %q, want new name", sentinelRow.DocType)
	}

	unrelatedRow := loadDocument(t, svc.dbc, unrelated.ID)
	if unrelatedRow.Description != "Cat:Linha Branca|LG" {
		t.Errorf("unrelated row touched: %q", unrelatedRow.Description)
	}
}

func TestRenameCategorySelfIsNoop(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaxService(t)

	seedDocument(t, svc.dbc, model.Document{
		Title: "A", DocType: "manual",
		Description: "Cat:HVAC|Daikin", Brand: "Daikin",
	})

	result, err := svc.RenameCategory(ctx, "HVAC", "HVAC")
	if err != nil {
		t.Fatalf("RenameCategory: %v", err)
	}

	if result.Matched != 0 || result.Updated != 0 || result.Status != types.BulkStatusOK {
		t.Errorf("self-rename result = %+v", result)
	}
}

func TestRenameBrandScopedToCategory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaxService(t)

	inScope := seedDocument(t, svc.dbc, model.Document{
		Title: "A", DocType: "manual",
		Description: "Cat:HVAC|Midea - nota", Brand: "Midea",
	})
	otherCat := seedDocument(t, svc.dbc, model.Document{
		Title: "B", DocType: "manual",
		Description: "Cat:Linha Branca|Midea", Brand: "Midea",
	})

	result, err := svc.RenameBrand(ctx, "HVAC", "Midea", "Midea Carrier")
	if err != nil {
		t.Fatalf("RenameBrand: %v", err)
	}

	if result.Matched != 1 || result.Updated != 1 {
		t.Errorf("result = %+v", result)
	}

	inScopeRow := loadDocument(t, svc.dbc, inScope.ID)
	if inScopeRow.Brand != "Midea Carrier" || inScopeRow.Description != "Cat:HVAC|Midea Carrier - nota" {
		t.Errorf("in-scope row = %q / %q", inScopeRow.Brand, inScopeRow.Description)
	}

	otherCatRow := loadDocument(t, svc.dbc, otherCat.ID)
	if otherCatRow.Brand != "Midea" {
		t.Errorf("other category touched: %q", otherCatRow.Brand)
	}
}

func TestDeleteBrandRemovesRowsAndObjects(t *testing.T) {
	ctx := context.Background()
	svc, store := newTaxService(t)

	doomed := seedDocument(t, svc.dbc, model.Document{
		Title: "A", DocType: "manual",
		Description: "Cat:HVAC|Daikin", Brand: "Daikin", ObjectKey: "u1/a.pdf",
	})
	driftedDoomed := seedDocument(t, svc.dbc, model.Document{
		Title: "B", DocType: "manual",
		Description: "Cat:HVAC |Daikin", Brand: "Daikin", ObjectKey: "u1/b.pdf",
	})
	brandSentinel := seedDocument(t, svc.dbc, model.Document{
		Title: model.SentinelTitle, DocType: "document",
		Description: taxonomy.Encode("HVAC", "Daikin", ""), Brand: "Daikin",
		FileURL:     model.SentinelFileURL,
	})
	survivor := seedDocument(t, svc.dbc, model.Document{
		Title: "C", DocType: "manual",
		Description: "Cat:HVAC|Carrier", Brand: "Carrier", ObjectKey: "u1/c.pdf",
	})

	result, err := svc.DeleteBrand(ctx, "HVAC", "Daikin")
	if err != nil {
		t.Fatalf("DeleteBrand: %v", err)
	}

	if result.Matched != 3 || result.Deleted != 3 {
		t.Errorf("result = %+v", result)
	}

	var count int64

	svc.dbc.Model(&model.Document{}).Count(&count)
	if count != 1 {
		t.Errorf("remaining rows = %d, want 1", count)
	}

	var row model.Document
	if err := svc.dbc.First(&row, "id = ?", survivor.ID).Error; err != nil {
		t.Errorf("survivor gone: %v", err)
	}

	// 真实文件被清理，占位行没有对象
	if len(store.removed) != 2 {
		t.Errorf("removed objects = %v", store.removed)
	}

	_ = doomed
	_ = driftedDoomed
	_ = brandSentinel
}

func TestDeleteCategoryRemovesEverything(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaxService(t)

	seedDocument(t, svc.dbc, model.Document{
		Title: "A", DocType: "manual",
		Description: "Cat:HVAC|Daikin", Brand: "Daikin",
	})
	seedDocument(t, svc.dbc, model.Document{
		Title: model.SentinelTitle, DocType: "HVAC",
		Description: taxonomy.Encode("HVAC", "", ""), FileURL: model.SentinelFileURL,
	})
	seedDocument(t, svc.dbc, model.Document{
		Title: "B", DocType: "manual",
		Description: "Cat:Linha Branca|LG", Brand: "LG",
	})

	result, err := svc.DeleteCategory(ctx, "HVAC")
	if err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	if result.Deleted != 2 {
		t.Errorf("deleted = %d, want 2", result.Deleted)
	}

	var count int64

	svc.dbc.Model(&model.Document{}).Count(&count)
	if count != 1 {
		t.Errorf("remaining rows = %d, want 1", count)
	}
}

func TestCreateCategoryIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaxService(t)

	if err := svc.CreateCategory(ctx, "Esquemas"); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	if err := svc.CreateCategory(ctx, "Esquemas"); err != nil {
		t.Fatalf("CreateCategory repeat: %v", err)
	}

	var count int64

	svc.dbc.Model(&model.Document{}).Count(&count)
	if count != 1 {
		t.Errorf("sentinel rows = %d, want 1", count)
	}

	var row model.Document

	svc.dbc.First(&row)
	if row.Title != model.SentinelTitle || row.DocType != "Esquemas" || row.FileURL != model.SentinelFileURL {
		t.Errorf("sentinel = %+v", row)
	}
}

func TestCreateBrandSentinelShape(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaxService(t)

	if err := svc.CreateBrand(ctx, "HVAC", "Daikin"); err != nil {
		t.Fatalf("CreateBrand: %v", err)
	}

	var row model.Document

	svc.dbc.First(&row)
	if row.DocType != "document" || row.Brand != "Daikin" {
		t.Errorf("brand sentinel = %+v", row)
	}

	if row.Description != "Cat:HVAC|Daikin" {
		t.Errorf("description = %q", row.Description)
	}
}
