package bundler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const artifactPermission = 0o644

// WriteArtifacts serializes the bundle document to the primary YAML
// artifact (insertion key order preserved) and the secondary JSON
// artifact. Both are written to temporary files first and renamed
// together, so a failure never leaves an inconsistent pair behind.
func WriteArtifacts(doc *yaml.Node, yamlPath, jsonPath string) error {
	yamlBytes, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: marshal yaml: %v", ErrWriteArtifact, err)
	}

	var plain any
	if err := doc.Decode(&plain); err != nil {
		return fmt.Errorf("%w: decode for json: %v", ErrWriteArtifact, err)
	}
	jsonBytes, err := json.MarshalIndent(plain, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal json: %v", ErrWriteArtifact, err)
	}
	jsonBytes = append(jsonBytes, '\n')

	yamlTmp, err := writeTemp(yamlPath, yamlBytes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteArtifact, err)
	}
	jsonTmp, err := writeTemp(jsonPath, jsonBytes)
	if err != nil {
		_ = os.Remove(yamlTmp)
		return fmt.Errorf("%w: %v", ErrWriteArtifact, err)
	}

	if err := os.Rename(yamlTmp, yamlPath); err != nil {
		_ = os.Remove(yamlTmp)
		_ = os.Remove(jsonTmp)
		return fmt.Errorf("%w: %v", ErrWriteArtifact, err)
	}
	if err := os.Rename(jsonTmp, jsonPath); err != nil {
		_ = os.Remove(jsonTmp)
		return fmt.Errorf("%w: %v", ErrWriteArtifact, err)
	}
	return nil
}

// writeTemp writes data to a temporary file in the target directory and
// returns its path.
func writeTemp(target string, data []byte) (string, error) {
	dir := filepath.Dir(target)
	f, err := os.CreateTemp(dir, filepath.Base(target)+".tmp*")
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Chmod(tmp, artifactPermission); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return tmp, nil
}
