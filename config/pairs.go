package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// MaxEntries 配置文件允许的最大条目数
const MaxEntries = 512

// Pair 配置项（名称不含前导 '-'）
type Pair struct {
	Name  string
	Value string
}

// ReadPairs 读取 "-name value" 形式的配置项
// 空行与 '#' 开头的注释行被忽略，值之后的内容也被忽略
func ReadPairs(r io.Reader) ([]Pair, error) {
	var pairs []Pair
	line := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected \"-name value\", got %q", line, text)
		}
		name := strings.TrimPrefix(fields[0], "-")
		if name == "" {
			return nil, fmt.Errorf("line %d: empty option name", line)
		}
		if len(pairs) == MaxEntries {
			return nil, fmt.Errorf("line %d: more than %d entries", line, MaxEntries)
		}
		pairs = append(pairs, Pair{Name: name, Value: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pairs, nil
}

// LoadPairs 从文件读取配置项
func LoadPairs(filename string) ([]Pair, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	pairs, err := ReadPairs(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return pairs, nil
}

// ParsePair 解析命令行形式的 "name=value"
func ParsePair(s string) (Pair, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimPrefix(strings.TrimSpace(name), "-")
	if !ok || name == "" {
		return Pair{}, fmt.Errorf("invalid option %q, expected name=value", s)
	}
	return Pair{Name: name, Value: strings.TrimSpace(value)}, nil
}
