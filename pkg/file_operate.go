package pkg

import (
	"io"
	"os"
	"path/filepath"
)

// CheckFileExist 检查文件是否存在
func CheckFileExist(filePath string) (bool, error) {
	_, err := os.Lstat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsStdio 路径为空或为 "-" 时使用标准输入输出
func IsStdio(path string) bool {
	return path == "" || path == "-"
}

// OpenInput 打开输入文件，stdin 不会被关闭
func OpenInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if IsStdio(path) {
		return io.NopCloser(stdin), nil
	}
	exist, err := CheckFileExist(path)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return os.Open(path)
}

// WriteOutput 写入输出文件，必要时创建父目录
func WriteOutput(path string, data []byte, stdout io.Writer) error {
	if IsStdio(path) {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
