package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/taxonomy"
	"github.com/yeisme/docvault/pkg/internal/types"
)

func newDocService(t *testing.T) (*DocumentService, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	svc := &DocumentService{
		dbc:   newTestDB(t),
		store: store,
	}

	return svc, store
}

func TestUploadStoresFileAndMetadata(t *testing.T) {
	ctx := context.Background()
	svc, store := newDocService(t)

	resp, err := svc.Upload(ctx, "u1", "Alice", &types.UploadDocumentRequest{
		Title:    "Manual Split 9000",
		DocType:  "manual",
		Category: "HVAC",
		Brand:    "Daikin",
		Notes:    "instalação",
	}, pdfUpload("manual.pdf", []byte("%PDF-1.4 fake")))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	doc := resp.Document
	if doc.Category != "HVAC" || doc.Brand != "Daikin" || doc.Notes != "instalação" {
		t.Errorf("decoded taxonomy mismatch: %+v", doc)
	}

	if !strings.HasPrefix(doc.FileURL, "http://store.local/documents/u1/") {
		t.Errorf("file url = %q", doc.FileURL)
	}

	if len(store.objects) != 1 {
		t.Errorf("expected 1 stored object, got %d", len(store.objects))
	}

	// 描述列必须是编码串
	var row model.Document
	if err := svc.dbc.First(&row, "id = ?", doc.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}

	if row.Description != "Cat:HVAC|Daikin - instalação" {
		t.Errorf("description = %q", row.Description)
	}
}

func TestUploadDefaultsLegacyType(t *testing.T) {
	ctx := context.Background()
	svc, _ := newDocService(t)

	// doc_type 可缺省，遗留列落默认值
	resp, err := svc.Upload(ctx, "u1", "Alice", &types.UploadDocumentRequest{
		Title:    "Catálogo Geral",
		Category: "HVAC",
		Brand:    "LG",
	}, pdfUpload("catalogo.pdf", []byte("%PDF-1.4 fake")))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	row := loadDocument(t, svc.dbc, resp.Document.ID)
	if row.DocType != "document" {
		t.Errorf("legacy column = %q, want default document", row.DocType)
	}
}

func TestUploadRejectsOversizeAndWrongType(t *testing.T) {
	ctx := context.Background()
	svc, _ := newDocService(t)

	req := &types.UploadDocumentRequest{Title: "x", Category: "HVAC", Brand: "LG"}

	big := pdfUpload("big.pdf", []byte("x"))
	big.Size = 51 * 1024 * 1024

	if _, err := svc.Upload(ctx, "u1", "Alice", req, big); !errors.Is(err, ErrValidation) {
		t.Errorf("oversize err = %v, want ErrValidation", err)
	}

	exe := pdfUpload("evil.exe", []byte("MZ"))
	exe.ContentType = "application/octet-stream"

	if _, err := svc.Upload(ctx, "u1", "Alice", req, exe); !errors.Is(err, ErrValidation) {
		t.Errorf("wrong type err = %v, want ErrValidation", err)
	}
}

func TestListExcludesSentinelsAndFilters(t *testing.T) {
	ctx := context.Background()
	svc, _ := newDocService(t)

	u1 := "u1"
	seedDocument(t, svc.dbc, model.Document{
		Title: "Split Daikin", DocType: "manual",
		Description: taxonomy.Encode("HVAC", "Daikin", ""), Brand: "Daikin",
		UploadedBy: &u1,
	})
	seedDocument(t, svc.dbc, model.Document{
		Title: "Geladeira LG", DocType: "manual",
		Description: "Cat:Linha Branca |LG", Brand: "LG",
	})
	seedDocument(t, svc.dbc, model.Document{
		Title: model.SentinelTitle, DocType: "HVAC",
		Description: taxonomy.Encode("HVAC", "", ""), FileURL: model.SentinelFileURL,
	})

	all, err := svc.List(ctx, u1, &types.ListDocumentsRequest{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if all.Total != 2 || len(all.Documents) != 2 {
		t.Fatalf("total = %d, docs = %d, want 2/2", all.Total, len(all.Documents))
	}

	// 漂移形态也能按分类过滤到
	lb, err := svc.List(ctx, u1, &types.ListDocumentsRequest{Category: "Linha Branca"})
	if err != nil {
		t.Fatalf("List category: %v", err)
	}

	if len(lb.Documents) != 1 || lb.Documents[0].Title != "Geladeira LG" {
		t.Errorf("category filter = %+v", lb.Documents)
	}

	if lb.Documents[0].Category != "Linha Branca" {
		t.Errorf("drifted category decoded as %q", lb.Documents[0].Category)
	}

	mine, err := svc.List(ctx, u1, &types.ListDocumentsRequest{Mine: true})
	if err != nil {
		t.Fatalf("List mine: %v", err)
	}

	if len(mine.Documents) != 1 || !mine.Documents[0].Mine {
		t.Errorf("mine filter = %+v", mine.Documents)
	}

	search, err := svc.List(ctx, u1, &types.ListDocumentsRequest{Search: "Geladeira"})
	if err != nil {
		t.Fatalf("List search: %v", err)
	}

	if len(search.Documents) != 1 {
		t.Errorf("search filter found %d docs", len(search.Documents))
	}
}

func TestGetSentinelIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newDocService(t)

	sentinel := seedDocument(t, svc.dbc, model.Document{
		Title: model.SentinelTitle, DocType: "HVAC",
		Description: taxonomy.Encode("HVAC", "", ""), FileURL: model.SentinelFileURL,
	})

	if _, err := svc.Get(ctx, "", sentinel.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get sentinel err = %v, want ErrNotFound", err)
	}

	if _, err := svc.Get(ctx, "", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing err = %v, want ErrNotFound", err)
	}
}

func TestDisownOwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc, _ := newDocService(t)

	owner := "u1"
	doc := seedDocument(t, svc.dbc, model.Document{
		Title: "Manual", DocType: "manual",
		Description: taxonomy.Encode("HVAC", "Daikin", ""),
		UploadedBy:  &owner, UploaderName: "Alice",
	})

	if err := svc.Disown(ctx, "intruso", doc.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("non-owner err = %v, want ErrForbidden", err)
	}

	if err := svc.Disown(ctx, owner, doc.ID); err != nil {
		t.Fatalf("Disown: %v", err)
	}

	var row model.Document
	if err := svc.dbc.First(&row, "id = ?", doc.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}

	if row.UploadedBy != nil {
		t.Error("uploaded_by should be nil after disown")
	}

	if row.UploaderName != AnonymousUploader {
		t.Errorf("uploader_name = %q", row.UploaderName)
	}

	// 已无主，再次解除只能是 forbidden
	if err := svc.Disown(ctx, owner, doc.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("second disown err = %v, want ErrForbidden", err)
	}
}

func TestDownloadIncrementsCount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newDocService(t)

	doc := seedDocument(t, svc.dbc, model.Document{
		Title: "Manual", DocType: "manual",
		Description: taxonomy.Encode("HVAC", "Daikin", ""),
		FileURL:     "http://store.local/documents/x.pdf",
	})

	first, err := svc.Download(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}

	if first.NewCount != 1 {
		t.Errorf("first count = %d, want 1", first.NewCount)
	}

	second, err := svc.Download(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}

	if second.NewCount != 2 {
		t.Errorf("second count = %d, want 2", second.NewCount)
	}

	if second.FileURL != doc.FileURL {
		t.Errorf("file url = %q", second.FileURL)
	}
}

func TestTreeCountsAndSentinelNodes(t *testing.T) {
	ctx := context.Background()
	svc, _ := newDocService(t)

	seedDocument(t, svc.dbc, model.Document{
		Title: "A", DocType: "manual",
		Description: taxonomy.Encode("HVAC", "Daikin", ""), Brand: "Daikin",
	})
	seedDocument(t, svc.dbc, model.Document{
		Title: "B", DocType: "manual",
		Description: "Cat:HVAC |Daikin", Brand: "Daikin", // 漂移形态归并到同一分类
	})
	seedDocument(t, svc.dbc, model.Document{
		Title: model.SentinelTitle, DocType: "Esquemas",
		Description: taxonomy.Encode("Esquemas", "", ""), FileURL: model.SentinelFileURL,
	})
	seedDocument(t, svc.dbc, model.Document{
		Title: model.SentinelTitle, DocType: "document",
		Description: taxonomy.Encode("HVAC", "Midea", ""), Brand: "Midea",
		FileURL:     model.SentinelFileURL,
	})

	tree, err := svc.Tree(ctx)
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}

	if len(tree.Categories) != 2 {
		t.Fatalf("categories = %d, want 2", len(tree.Categories))
	}

	// 字母序：Esquemas 在前
	empty := tree.Categories[0]
	if empty.Name != "Esquemas" || empty.Count != 0 {
		t.Errorf("empty category = %+v", empty)
	}

	hvac := tree.Categories[1]
	if hvac.Name != "HVAC" || hvac.Count != 2 {
		t.Errorf("hvac = %+v", hvac)
	}

	if len(hvac.Brands) != 2 {
		t.Fatalf("hvac brands = %+v", hvac.Brands)
	}

	if hvac.Brands[0].Name != "Daikin" || hvac.Brands[0].Count != 2 {
		t.Errorf("daikin node = %+v", hvac.Brands[0])
	}

	// 品牌占位行贡献节点但不计数
	if hvac.Brands[1].Name != "Midea" || hvac.Brands[1].Count != 0 {
		t.Errorf("midea node = %+v", hvac.Brands[1])
	}
}

func TestAdminUpdateReencodesTaxonomy(t *testing.T) {
	ctx := context.Background()
	svc, _ := newDocService(t)

	doc := seedDocument(t, svc.dbc, model.Document{
		Title: "Manual", DocType: "manual",
		Description: taxonomy.Encode("HVAC", "Daikin", "nota antiga"), Brand: "Daikin",
	})

	item, err := svc.AdminUpdate(ctx, doc.ID, &types.AdminUpdateDocumentRequest{Category: "Climatização"})
	if err != nil {
		t.Fatalf("AdminUpdate: %v", err)
	}

	if item.Category != "Climatização" || item.Brand != "Daikin" || item.Notes != "nota antiga" {
		t.Errorf("updated item = %+v", item)
	}
}

func TestAdminDeleteRemovesRowAndObject(t *testing.T) {
	ctx := context.Background()
	svc, store := newDocService(t)

	doc := seedDocument(t, svc.dbc, model.Document{
		Title: "Manual", DocType: "manual",
		Description: taxonomy.Encode("HVAC", "Daikin", ""),
		ObjectKey:   "u1/abc.pdf",
	})
	store.objects["u1/abc.pdf"] = []byte("pdf")

	if err := svc.AdminDelete(ctx, doc.ID); err != nil {
		t.Fatalf("AdminDelete: %v", err)
	}

	var count int64
	svc.dbc.Model(&model.Document{}).Where("id = ?", doc.ID).Count(&count)

	if count != 0 {
		t.Error("row should be deleted")
	}

	if len(store.removed) != 1 || store.removed[0] != "u1/abc.pdf" {
		t.Errorf("removed objects = %v", store.removed)
	}
}
