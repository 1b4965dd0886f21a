// Package reqfile loads request definitions from YAML files.
package reqfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/jsonfetch/packages/request"
)

// File is the YAML shape of a request definition. Header values are pointers
// so an explicit `null` in the file suppresses the matching default header,
// mirroring the library contract.
type File struct {
	URL       string             `yaml:"url"`
	Method    string             `yaml:"method,omitempty"`
	Headers   map[string]*string `yaml:"headers,omitempty"`
	Data      map[string]any     `yaml:"data,omitempty"`
	TimeoutMs int                `yaml:"timeout_ms,omitempty"`
	Stream    bool               `yaml:"stream,omitempty"`
	Auth      string             `yaml:"auth,omitempty"`
	Insecure  bool               `yaml:"insecure,omitempty"`
	CAFile    string             `yaml:"ca_file,omitempty"`
	CertFile  string             `yaml:"cert_file,omitempty"`
	KeyFile   string             `yaml:"key_file,omitempty"`
}

// IsRequestFile reports whether path looks like a YAML request definition.
func IsRequestFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads a YAML request definition and maps it onto request.Params.
// TLS material paths are resolved relative to the definition file.
func Load(path string) (request.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return request.Params{}, fmt.Errorf("cannot read request file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return request.Params{}, fmt.Errorf("cannot parse request file %s: %w", path, err)
	}

	p := request.Params{
		URL:          f.URL,
		Method:       f.Method,
		Headers:      f.Headers,
		Data:         f.Data,
		Timeout:      time.Duration(f.TimeoutMs) * time.Millisecond,
		ReturnStream: f.Stream,
		Auth:         f.Auth,
	}

	if f.Insecure {
		reject := false
		p.RejectUnauthorized = &reject
	}

	baseDir := filepath.Dir(path)
	if p.CA, err = readMaterial(baseDir, f.CAFile); err != nil {
		return request.Params{}, err
	}
	if p.Cert, err = readMaterial(baseDir, f.CertFile); err != nil {
		return request.Params{}, err
	}
	if p.Key, err = readMaterial(baseDir, f.KeyFile); err != nil {
		return request.Params{}, err
	}

	return p, nil
}

func readMaterial(baseDir, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read TLS material: %w", err)
	}
	return string(data), nil
}
