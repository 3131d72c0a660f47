// Package storage 把每个钱包保存为数据目录下的 <name>.json。
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"mth-wallet/internal/model"
	"mth-wallet/pkg/crypto_util"

	"go.uber.org/zap"
)

const (
	fileExt  = ".json"
	fileMode = 0o600
	dirMode  = 0o700
)

var (
	ErrCorrupted   = errors.New("wallet file corrupted")
	ErrInvalidName = errors.New("invalid wallet name")
	ErrNotFound    = errors.New("wallet file not found")
)

// FileStore 基于文件的钱包存储，不做跨进程加锁
type FileStore struct {
	dir    string
	atomic bool
	log    *zap.Logger
}

type Option func(*FileStore)

// WithAtomicWrite 先写同目录下的临时文件再 rename
func WithAtomicWrite(enabled bool) Option {
	return func(s *FileStore) { s.atomic = enabled }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.log = l
		}
	}
}

func NewFileStore(dir string, opts ...Option) *FileStore {
	s := &FileStore{dir: dir, atomic: true, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FileStore) Dir() string {
	return s.dir
}

// ValidateName 钱包名不能为空，也不能包含路径分隔符或 ..
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.ContainsAny(name, `/\`), strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: contains NUL", ErrInvalidName)
	}
	return nil
}

// Path 返回钱包文件路径
func (s *FileStore) Path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+fileExt), nil
}

// Save 完整覆盖钱包文件
func (s *FileStore) Save(name string, c *model.Collection) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	data, err := Encode(c)
	if err != nil {
		return err
	}
	if err := s.write(path, data); err != nil {
		return err
	}
	s.log.Debug("wallet saved", zap.String("wallet", name), zap.Int("accounts", c.Len()))
	return nil
}

// Load 读取并校验钱包文件。文件不存在时返回 (nil, nil)。
func (s *FileStore) Load(name string) (*model.Collection, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read wallet %s: %w", name, err)
	}
	c, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("wallet %s: %w", name, err)
	}
	s.log.Debug("wallet loaded", zap.String("wallet", name), zap.String("version", c.Version), zap.Int("accounts", c.Len()))
	return c, nil
}

// List 返回数据目录下所有钱包名 (排序后)。目录不存在时返回空列表。
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), fileExt)
		if ValidateName(name) == nil {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func (s *FileStore) Exists(name string) (bool, error) {
	path, err := s.Path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	}
	return false, fmt.Errorf("stat wallet %s: %w", name, err)
}

func (s *FileStore) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("delete wallet %s: %w", name, err)
	}
	s.log.Info("wallet deleted", zap.String("wallet", name))
	return nil
}

// Backup 把钱包文件复制到 dest。原文件必须能通过校验。
func (s *FileStore) Backup(name, dest string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("read wallet %s: %w", name, err)
	}
	if _, err := Decode(data); err != nil {
		return fmt.Errorf("wallet %s: %w", name, err)
	}
	if err := s.write(dest, data); err != nil {
		return err
	}
	s.log.Info("wallet backed up", zap.String("wallet", name), zap.String("dest", dest))
	return nil
}

// Restore 从 src 恢复钱包 name。src 先完整解码并校验，失败时不触碰目标文件。
func (s *FileStore) Restore(src, name string) (*model.Collection, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, src)
	}
	if err != nil {
		return nil, fmt.Errorf("read backup %s: %w", src, err)
	}
	c, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("backup %s: %w", src, err)
	}
	if err := s.write(path, data); err != nil {
		return nil, err
	}
	s.log.Info("wallet restored", zap.String("wallet", name), zap.String("src", src))
	return c, nil
}

func (s *FileStore) write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	if !s.atomic {
		if err := os.WriteFile(path, data, fileMode); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return os.Chmod(path, fileMode)
	}

	// CreateTemp 创建的文件权限为 0600
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // rename 成功后为 no-op

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// Encode 序列化集合并写入 BLAKE3 校验和。
// 校验和覆盖 checksum 为空时的紧凑 JSON。
func Encode(c *model.Collection) ([]byte, error) {
	cp := *c
	cp.Checksum = ""
	payload, err := json.Marshal(&cp)
	if err != nil {
		return nil, fmt.Errorf("encode wallet: %w", err)
	}
	cp.Checksum = crypto_util.Blake3Hex(payload)
	return json.MarshalIndent(&cp, "", "  ")
}

// Decode 解析钱包文件内容，校验校验和 (存在时) 与集合不变量
func Decode(data []byte) (*model.Collection, error) {
	var c model.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if c.Checksum != "" {
		stored := c.Checksum
		c.Checksum = ""
		payload, err := json.Marshal(&c)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		if !strings.EqualFold(stored, crypto_util.Blake3Hex(payload)) {
			return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupted)
		}
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, errors.Join(ErrCorrupted, err)
	}
	return &c, nil
}
