package productcache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"storefront/internal/domain/model"
)

// FileStore はキャッシュ全体を1つのJSONファイルとして読み書きする。
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (map[int64]model.Product, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[int64]model.Product{}, nil
	}
	if err != nil {
		return nil, err
	}

	var m map[int64]model.Product
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[int64]model.Product{}
	}
	return m, nil
}

func (s *FileStore) Save(m map[int64]model.Product) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}

	//書きかけのファイルを読ませないように一時ファイル経由で置き換える
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
