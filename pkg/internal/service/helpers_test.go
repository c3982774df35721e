package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/docvault/pkg/configs"
	"github.com/yeisme/docvault/pkg/internal/model"
	dbc "github.com/yeisme/docvault/pkg/internal/storage/db"
)

func TestMain(m *testing.M) {
	// 无配置文件，全部默认值
	if err := configs.InitConfig(os.TempDir()); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

// newTestDB 每个测试一个独立的内存库.
func newTestDB(t *testing.T) *dbc.Client {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// 内存库必须单连接，多个连接各自是空库
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}

	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&model.User{}, &model.Document{}, &model.Favorite{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return &dbc.Client{DB: gdb}
}

// fakeStore 内存对象存储.
type fakeStore struct {
	objects map[string][]byte
	removed []string
	putErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Put(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	f.objects[objectKey] = data

	return nil
}

func (f *fakeStore) Remove(ctx context.Context, objectKey string) error {
	delete(f.objects, objectKey)
	f.removed = append(f.removed, objectKey)

	return nil
}

func (f *fakeStore) PublicURL(objectKey string) string {
	return "http://store.local/documents/" + objectKey
}

// seedDocument 直接插入一行文档.
func seedDocument(t *testing.T, db *dbc.Client, doc model.Document) model.Document {
	t.Helper()

	if doc.ID == "" {
		doc.ID = fmt.Sprintf("doc-%d", seedCounter)
		seedCounter++
	}

	if err := db.Create(&doc).Error; err != nil {
		t.Fatalf("seed document: %v", err)
	}

	return doc
}

var seedCounter int

// loadDocument 按主键读取一行. 每次用新零值 dest，复用会让 gorm 把旧主键
// 拼进 WHERE 条件.
func loadDocument(t *testing.T, db *dbc.Client, id string) model.Document {
	t.Helper()

	var doc model.Document
	if err := db.First(&doc, "id = ?", id).Error; err != nil {
		t.Fatalf("load document %s: %v", id, err)
	}

	return doc
}

func pdfUpload(name string, content []byte) UploadedFile {
	return UploadedFile{
		Reader:      bytes.NewReader(content),
		Name:        name,
		Size:        int64(len(content)),
		ContentType: "application/pdf",
	}
}
