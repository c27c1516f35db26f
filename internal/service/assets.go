package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AssetStore 把生成的封面圖與朗讀音檔寫到本地目錄，回傳對外 URL
type AssetStore struct {
	dir     string
	baseURL string
}

func NewAssetStore(dir, baseURL string) (*AssetStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create assets dir: %w", err)
	}
	return &AssetStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save 寫入檔案並回傳 URL，檔名用 uuid 避免衝突
func (s *AssetStore) Save(subdir, ext string, data []byte) (string, error) {
	dir := filepath.Join(s.dir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write asset: %w", err)
	}

	return s.baseURL + "/" + subdir + "/" + name, nil
}

// Dir 本地存放目錄，供路由掛載靜態檔案
func (s *AssetStore) Dir() string {
	return s.dir
}
