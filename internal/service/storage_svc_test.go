package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewStorageProvider_Local(t *testing.T) {
	tempDir := t.TempDir()

	provider, err := NewStorageProvider(&StorageConfig{
		Provider: "local",
		BasePath: tempDir,
	})
	if err != nil {
		t.Fatalf("NewStorageProvider() error = %v", err)
	}
	if provider == nil {
		t.Fatal("NewStorageProvider() 返回 nil")
	}
}

func TestNewStorageProvider_Unknown(t *testing.T) {
	_, err := NewStorageProvider(&StorageConfig{Provider: "ftp"})
	if err == nil {
		t.Error("未知提供者应报错")
	}
}

func TestLocalStorage_UploadAndDelete(t *testing.T) {
	tempDir := t.TempDir()
	ctx := context.Background()

	provider, err := NewStorageProvider(&StorageConfig{
		Provider: "local",
		BasePath: tempDir,
		BaseURL:  "http://localhost:8080/uploads",
	})
	if err != nil {
		t.Fatalf("NewStorageProvider() error = %v", err)
	}

	url, err := provider.Upload(ctx, []byte("fake-image-bytes"), "shop.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:8080/uploads/") {
		t.Errorf("url = %s", url)
	}
	if !strings.HasSuffix(url, ".jpg") {
		t.Errorf("应保留扩展名: %s", url)
	}

	// 文件落盘
	key := strings.TrimPrefix(url, "http://localhost:8080/uploads/")
	fullPath := filepath.Join(tempDir, filepath.FromSlash(key))
	data, err := os.ReadFile(fullPath)
	if err != nil {
		t.Fatalf("读取落盘文件失败: %v", err)
	}
	if string(data) != "fake-image-bytes" {
		t.Errorf("文件内容不一致: %q", data)
	}

	// 删除
	if err := provider.Delete(ctx, url); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(fullPath); !os.IsNotExist(err) {
		t.Error("删除后文件仍存在")
	}

	// 重复删除幂等
	if err := provider.Delete(ctx, url); err != nil {
		t.Errorf("重复 Delete() error = %v", err)
	}
}

func TestLocalStorage_SignedURLIsPassthrough(t *testing.T) {
	tempDir := t.TempDir()

	provider, _ := NewStorageProvider(&StorageConfig{Provider: "local", BasePath: tempDir})

	url := "http://localhost:8080/uploads/2026/01/01/x.jpg"
	signed, err := provider.GetSignedURL(context.Background(), url, time.Hour)
	if err != nil {
		t.Fatalf("GetSignedURL() error = %v", err)
	}
	if signed != url {
		t.Errorf("signed = %s, want 原样返回", signed)
	}
}

func TestLocalStorage_DeleteRejectsTraversal(t *testing.T) {
	tempDir := t.TempDir()

	provider, _ := NewStorageProvider(&StorageConfig{
		Provider: "local",
		BasePath: tempDir,
		BaseURL:  "http://localhost:8080/uploads",
	})

	err := provider.Delete(context.Background(), "http://localhost:8080/uploads/../../etc/passwd")
	if err == nil {
		t.Error("目录穿越应被拒绝")
	}
}

func TestGenerateStorageKey(t *testing.T) {
	key := generateStorageKey("shops", "photo.png")
	if !strings.HasPrefix(key, "shops/") {
		t.Errorf("key = %s, 应带前缀", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("key = %s, 应保留扩展名", key)
	}

	// 无扩展名兜底 jpg
	key = generateStorageKey("", "noext")
	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("key = %s, want .jpg 兜底", key)
	}
}
