package filestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrExtensionNotAllowed = errors.New("不支持的文件类型，仅允许 PDF、DOC、DOCX")
	ErrEmptyFilename       = errors.New("文件名为空")
)

// allowedExtensions 上传文件后缀允许列表（小写）
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Store 试卷文件存储
// 文件按 {year}_{semester}_{course_id} 子目录组织在上传根目录下
type Store struct {
	root   string
	logger *zap.Logger
}

// NewStore 创建文件存储，上传根目录不存在时自动创建
func NewStore(root string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传根目录失败: %w", err)
	}
	return &Store{root: root, logger: logger}, nil
}

// Root 上传根目录
func (s *Store) Root() string { return s.root }

// Allowed 检查文件名后缀是否在允许列表内
// 文件名必须包含 '.'，后缀按小写比较
func Allowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext != "" && allowedExtensions[ext]
}

// SanitizeFilename 清洗上传文件名
// 去除路径成分，空格转下划线，剔除不安全字符，去掉前导点
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, ".")
	return name
}

// Subpath 推导存储子目录名 {year}_{semester}_{course_id}
func Subpath(year, semester int, courseID uint) string {
	return fmt.Sprintf("%d_%d_%d", year, semester, courseID)
}

// Save 校验并写入上传文件，返回落盘路径
// 校验失败时不产生任何文件系统写操作
func (s *Store) Save(year, semester int, courseID uint, filename string, src io.Reader) (string, error) {
	if filename == "" {
		return "", ErrEmptyFilename
	}
	if !Allowed(filename) {
		return "", ErrExtensionNotAllowed
	}

	safe := SanitizeFilename(filename)
	if safe == "" || !Allowed(safe) {
		return "", ErrEmptyFilename
	}

	dir := filepath.Join(s.root, Subpath(year, semester, courseID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建存储目录失败: %w", err)
	}

	path := filepath.Join(dir, safe)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("创建文件失败: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("写入文件失败: %w", err)
	}

	return path, nil
}

// Remove 删除已存储的文件
// 文件不存在视为成功；其他失败原因由调用方决定是否忽略
func (s *Store) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
