package service

import (
	"context"
	"errors"
	"testing"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/taxonomy"
)

// fakeClassifier 返回固定文本的分类器.
type fakeClassifier struct {
	output string
	err    error
	calls  int
	prompt string
}

func (f *fakeClassifier) GenerateCorrections(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt

	if f.err != nil {
		return "", f.err
	}

	return f.output, nil
}

func newOrganizer(t *testing.T, classifier *fakeClassifier) (*OrganizerService, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	svc := &OrganizerService{
		dbc:        newTestDB(t),
		store:      store,
		classifier: classifier,
		batchSize:  50,
	}

	return svc, store
}

func TestOrganizerAppliesCorrectionsAndRemovesDuplicates(t *testing.T) {
	ctx := context.Background()

	classifier := &fakeClassifier{output: "```json\n[" +
		`{"id": "doc-a", "correction": {"brand": "Daikin", "category": "Climatização", "is_duplicate": false, "duplicate_of_id": ""}},` +
		`{"id": "doc-b", "correction": {"brand": "", "category": "", "is_duplicate": true, "duplicate_of_id": "doc-a"}}` +
		"]\n```"}

	svc, store := newOrganizer(t, classifier)

	seedDocument(t, svc.dbc, model.Document{
		ID: "doc-a", Title: "Manual Split", DocType: "manual",
		Description: taxonomy.Encode("HVAC", "Dakin", "nota"), Brand: "Dakin",
	})
	seedDocument(t, svc.dbc, model.Document{
		ID: "doc-b", Title: "Manual Split (cópia)", DocType: "manual",
		Description: taxonomy.Encode("HVAC", "Daikin", ""), Brand: "Daikin",
		ObjectKey:   "u1/dup.pdf",
	})

	summary, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Analyzed != 2 || summary.Updated != 1 || summary.DuplicatesRemoved != 1 || summary.Failed != 0 {
		t.Errorf("summary = %+v", summary)
	}

	var row model.Document
	if err := svc.dbc.First(&row, "id = ?", "doc-a").Error; err != nil {
		t.Fatalf("reload doc-a: %v", err)
	}

	// 修正经由编解码写回，备注保留
	if row.Description != "Cat:Climatização|Daikin - nota" {
		t.Errorf("corrected description = %q", row.Description)
	}

	if row.Brand != "Daikin" {
		t.Errorf("brand column = %q", row.Brand)
	}

	var count int64

	svc.dbc.Model(&model.Document{}).Where("id = ?", "doc-b").Count(&count)
	if count != 0 {
		t.Error("duplicate row should be deleted")
	}

	if len(store.removed) != 1 || store.removed[0] != "u1/dup.pdf" {
		t.Errorf("removed objects = %v", store.removed)
	}
}

func TestOrganizerMalformedOutputAbortsBatch(t *testing.T) {
	ctx := context.Background()

	classifier := &fakeClassifier{output: "desculpe, não consegui gerar JSON"}
	svc, _ := newOrganizer(t, classifier)

	seedDocument(t, svc.dbc, model.Document{
		ID: "doc-a", Title: "Manual", DocType: "manual",
		Description: taxonomy.Encode("HVAC", "Dakin", ""), Brand: "Dakin",
	})

	if _, err := svc.Run(ctx); !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}

	// 整批拒绝：行保持原样
	var row model.Document

	svc.dbc.First(&row, "id = ?", "doc-a")
	if row.Brand != "Dakin" {
		t.Errorf("row modified despite malformed output: %q", row.Brand)
	}
}

func TestOrganizerClassifierFailure(t *testing.T) {
	ctx := context.Background()

	classifier := &fakeClassifier{err: errors.New("model overloaded")}
	svc, _ := newOrganizer(t, classifier)

	seedDocument(t, svc.dbc, model.Document{
		ID: "doc-a", Title: "Manual", DocType: "manual",
		Description: taxonomy.Encode("HVAC", "Daikin", ""),
	})

	if _, err := svc.Run(ctx); !errors.Is(err, ErrUpstream) {
		t.Errorf("err = %v, want ErrUpstream", err)
	}
}

func TestOrganizerEmptyBatchSkipsClassifier(t *testing.T) {
	ctx := context.Background()

	classifier := &fakeClassifier{output: "[]"}
	svc, _ := newOrganizer(t, classifier)

	summary, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Analyzed != 0 {
		t.Errorf("analyzed = %d", summary.Analyzed)
	}

	if classifier.calls != 0 {
		t.Errorf("classifier called %d times on empty batch", classifier.calls)
	}
}

func TestOrganizerUnknownIDCountsFailed(t *testing.T) {
	ctx := context.Background()

	classifier := &fakeClassifier{output: `[{"id": "ghost", "correction": {"brand": "X", "category": "Y", "is_duplicate": false}}]`}
	svc, _ := newOrganizer(t, classifier)

	seedDocument(t, svc.dbc, model.Document{
		ID: "doc-a", Title: "Manual", DocType: "manual",
		Description: taxonomy.Encode("HVAC", "Daikin", ""),
	})

	summary, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Failed != 1 || summary.Updated != 0 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n[]\n```": "[]",
		"```\n[]\n```":     "[]",
		"[]":               "[]",
		"  [1]  ":          "[1]",
	}

	for in, want := range cases {
		if got := stripFences(in); got != want {
			t.Errorf("stripFences(%q) = %q, want %q", in, got, want)
		}
	}
}
