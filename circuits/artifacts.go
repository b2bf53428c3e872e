package circuits

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/eerc-protocol/eerc-go/log"
)

// BaseDir is the path where the artifact cache is expected to be found. If
// the artifacts are not found there, they will be downloaded and stored.
// It can be set to a different path if needed from other packages.
// Defaults to the env var EERC_ARTIFACTS_DIR or to .eerc/artifacts under the
// user home directory.
var BaseDir string

func init() {
	if BaseDir == "" {
		if dir := os.Getenv("EERC_ARTIFACTS_DIR"); dir != "" {
			BaseDir = dir
		} else {
			userHomeDir, err := os.UserHomeDir()
			if err != nil {
				userHomeDir = "."
			}
			BaseDir = filepath.Join(userHomeDir, ".eerc", "artifacts")
		}
	}
}

// Artifact holds the remote URL, the sha256 of the content and the content
// itself. It provides methods to load the content from the local cache or
// download it from the remote URL, always checking the hash to ensure
// integrity.
type Artifact struct {
	Name      string
	RemoteURL string
	Hash      []byte
	Content   []byte
}

// Load checks if the artifact content is already in memory and otherwise
// loads it from the local cache, verifying the hash. It returns an error
// if no hash is set or the cached content does not match it.
func (a *Artifact) Load() error {
	if len(a.Content) != 0 {
		return nil
	}
	if len(a.Hash) == 0 {
		return fmt.Errorf("artifact hash not provided")
	}
	content, err := load(a.Hash)
	if err != nil {
		return err
	}
	if content == nil {
		return fmt.Errorf("no content found")
	}
	a.Content = content
	return nil
}

// Download fetches the content of the artifact from the remote URL, checks
// the hash and stores it in the local cache. It is a no-op when the cache
// already holds matching content.
func (a *Artifact) Download(ctx context.Context) error {
	if a.RemoteURL == "" {
		if content, err := load(a.Hash); err == nil && content != nil {
			return nil
		}
		return fmt.Errorf("artifact not cached and remote url not provided")
	}
	return downloadAndStore(ctx, a.Hash, a.RemoteURL)
}

// CircuitArtifacts holds the wasm circuit and the proving key of one proof
// circuit.
type CircuitArtifacts struct {
	circuit    Type
	wasm       *Artifact
	provingKey *Artifact
}

// NewCircuitArtifacts creates a CircuitArtifacts with the artifacts
// provided.
func NewCircuitArtifacts(circuit Type, wasm, provingKey *Artifact) *CircuitArtifacts {
	return &CircuitArtifacts{
		circuit:    circuit,
		wasm:       wasm,
		provingKey: provingKey,
	}
}

// Circuit returns the circuit type the artifacts belong to.
func (ca *CircuitArtifacts) Circuit() Type {
	return ca.circuit
}

// LoadAll loads both artifacts into memory from the local cache.
func (ca *CircuitArtifacts) LoadAll() error {
	if err := ca.wasm.Load(); err != nil {
		return fmt.Errorf("error loading %s circuit wasm: %w", ca.circuit, err)
	}
	if err := ca.provingKey.Load(); err != nil {
		return fmt.Errorf("error loading %s proving key: %w", ca.circuit, err)
	}
	return nil
}

// DownloadAll downloads both artifacts concurrently with the provided
// context.
func (ca *CircuitArtifacts) DownloadAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ca.wasm.Download(ctx) })
	g.Go(func() error { return ca.provingKey.Download(ctx) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("error downloading %s artifacts: %w", ca.circuit, err)
	}
	return nil
}

// Wasm returns the wasm circuit content, nil if not loaded.
func (ca *CircuitArtifacts) Wasm() []byte {
	if ca.wasm == nil {
		return nil
	}
	return ca.wasm.Content
}

// WasmHash returns the sha256 of the wasm circuit.
func (ca *CircuitArtifacts) WasmHash() []byte {
	if ca.wasm == nil {
		return nil
	}
	return ca.wasm.Hash
}

// ProvingKey returns the proving key content, nil if not loaded.
func (ca *CircuitArtifacts) ProvingKey() []byte {
	if ca.provingKey == nil {
		return nil
	}
	return ca.provingKey.Content
}

// Prefetch loads every circuit's artifacts, downloading the missing ones
// concurrently. It is meant to run once at session start so that proving
// never blocks on the network.
func Prefetch(ctx context.Context, all map[Type]*CircuitArtifacts) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, ca := range all {
		g.Go(func() error {
			if err := ca.LoadAll(); err == nil {
				return nil
			}
			if err := ca.DownloadAll(ctx); err != nil {
				return err
			}
			return ca.LoadAll()
		})
	}
	return g.Wait()
}

func load(hash []byte) ([]byte, error) {
	if _, err := os.Stat(BaseDir); err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(BaseDir, os.ModePerm); err != nil {
				return nil, fmt.Errorf("error creating the base directory: %w", err)
			}
		} else {
			return nil, fmt.Errorf("error checking the base directory: %w", err)
		}
	}
	path := filepath.Join(BaseDir, hex.EncodeToString(hash))
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error checking file %s: %w", path, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	hasher := sha256.New()
	hasher.Write(content)
	if fileHash := hasher.Sum(nil); !bytes.Equal(fileHash, hash) {
		return nil, fmt.Errorf("hash mismatch for file %s: expected %x, got %x", path, hash, fileHash)
	}
	return content, nil
}

// downloadAndStore downloads a file from a URL and stores it in the local
// cache under its hash.
func downloadAndStore(ctx context.Context, expectedHash []byte, fileURL string) error {
	if _, err := url.Parse(fileURL); err != nil {
		return fmt.Errorf("error parsing the file URL provided: %w", err)
	}
	if err := os.MkdirAll(BaseDir, 0o755); err != nil {
		return fmt.Errorf("error creating the base directory: %w", err)
	}
	path := filepath.Join(BaseDir, hex.EncodeToString(expectedHash))
	// already stored and matching, nothing to do
	if content, err := load(expectedHash); err == nil && content != nil {
		log.Debugf("artifact %x already cached at %s", expectedHash, path)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("error creating the file request: %w", err)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("error downloading %s: %w", fileURL, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			log.Warnf("error closing response body: %v", err)
		}
	}()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("error downloading %s: status %d", fileURL, res.StatusCode)
	}
	content, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", fileURL, err)
	}
	hasher := sha256.New()
	hasher.Write(content)
	if computed := hasher.Sum(nil); !bytes.Equal(computed, expectedHash) {
		return fmt.Errorf("hash mismatch for %s: expected %x, got %x", fileURL, expectedHash, computed)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("error storing %s: %w", path, err)
	}
	log.Infof("downloaded artifact %x (%d bytes)", expectedHash, len(content))
	return nil
}
