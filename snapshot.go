package rigging

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxSnapshotSize is the maximum allowed snapshot size (100MB).
const MaxSnapshotSize = 100 * 1024 * 1024

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = "1.0"

// Snapshot errors.
var (
	// ErrSnapshotTooLarge is returned when a snapshot exceeds MaxSnapshotSize.
	ErrSnapshotTooLarge = errors.New("rigging: snapshot exceeds 100MB size limit")

	// ErrUnsupportedFormat is returned when an artifact path has an unknown extension.
	ErrUnsupportedFormat = errors.New("rigging: unsupported artifact format")
)

// RigSnapshot represents a point-in-time capture of a loaded rig record.
type RigSnapshot struct {
	// ID uniquely identifies the snapshot.
	ID string `json:"id"`

	// Version is the snapshot format version (currently "1.0")
	Version string `json:"version"`

	// Timestamp is when the snapshot was created
	Timestamp time.Time `json:"timestamp"`

	// Record is the root definition name.
	Record string `json:"record"`

	// Values contains flattened leaf values keyed by internal dot paths
	// (e.g., "behavior_boards.main.port_name").
	Values map[string]any `json:"values"`

	// Provenance tracks the source of each loaded leaf.
	Provenance []FieldProvenance `json:"provenance"`
}

// SnapshotOption configures snapshot creation behavior.
type SnapshotOption func(*snapshotConfig)

// snapshotConfig holds internal configuration for snapshot creation.
type snapshotConfig struct {
	excludeFields []string // Field paths to exclude
}

// WithExcludeFields excludes specified field paths, and everything below them, from
// the snapshot. Paths use dot notation (e.g., "cameras.main", "screen.brightness").
func WithExcludeFields(paths ...string) SnapshotOption {
	return func(cfg *snapshotConfig) {
		cfg.excludeFields = append(cfg.excludeFields, paths...)
	}
}

// CreateSnapshot captures the current state of rec.
// The snapshot's Timestamp is captured at creation time.
func CreateSnapshot(rec *Record, opts ...SnapshotOption) (*RigSnapshot, error) {
	if rec == nil {
		return nil, ErrNilRecord
	}

	snapCfg := &snapshotConfig{}
	for _, opt := range opts {
		opt(snapCfg)
	}

	var provFields []FieldProvenance
	if prov, ok := GetProvenance(rec); ok && prov != nil {
		provFields = prov.Fields
	}

	flat := make(map[string]any)
	flattenRecord(rec, "", flat)

	return &RigSnapshot{
		ID:         uuid.NewString(),
		Version:    SnapshotVersion,
		Timestamp:  time.Now().UTC(),
		Record:     rec.def.name,
		Values:     applyExclusions(flat, snapCfg.excludeFields),
		Provenance: provFields,
	}, nil
}

// flattenRecord walks a record and collects leaf values under internal dot paths.
// Unset optional fields are omitted.
func flattenRecord(rec *Record, prefix string, result map[string]any) {
	for _, f := range rec.def.fields {
		v, ok := rec.values[f.Name]
		if !ok {
			continue
		}
		path := joinPath(prefix, f.Name)

		switch t := v.(type) {
		case *Record:
			flattenRecord(t, path, result)
		case *RecordMap:
			t.Each(func(key string, item *Record) bool {
				flattenRecord(item, joinPath(path, key), result)
				return true
			})
		default:
			result[path] = plainValue(v)
		}
	}
}

// applyExclusions filters out excluded paths and their descendants.
// Matching is case-insensitive.
func applyExclusions(values map[string]any, exclude []string) map[string]any {
	if len(exclude) == 0 {
		return values
	}

	excludeSet := make(map[string]bool, len(exclude))
	for _, path := range exclude {
		excludeSet[strings.ToLower(path)] = true
	}

	result := make(map[string]any)
	for key, value := range values {
		if !excluded(strings.ToLower(key), excludeSet) {
			result[key] = value
		}
	}
	return result
}

func excluded(key string, set map[string]bool) bool {
	for cur := key; ; {
		if set[cur] {
			return true
		}
		i := strings.LastIndexByte(cur, '.')
		if i < 0 {
			return false
		}
		cur = cur[:i]
	}
}

// ExpandPath expands template variables using current time.
// For consistency with snapshot metadata, prefer WriteSnapshot which
// uses the snapshot's internal timestamp for expansion.
func ExpandPath(template string) string {
	return ExpandPathWithTime(template, time.Now())
}

// ExpandPathWithTime expands template variables using the provided timestamp.
// Replaces all {{timestamp}} occurrences with the time formatted as 20060102-150405.
// Returns the path unchanged if no template variables are present.
func ExpandPathWithTime(template string, t time.Time) string {
	timestamp := t.UTC().Format("20060102-150405")
	return strings.ReplaceAll(template, "{{timestamp}}", timestamp)
}

// WriteSnapshot persists a snapshot to disk with atomic write semantics.
// Supports {{timestamp}} template variable in path - uses snapshot.Timestamp
// (not current time) to ensure filename matches internal metadata.
// Returns ErrSnapshotTooLarge if serialized size exceeds 100MB.
func WriteSnapshot(snapshot *RigSnapshot, pathTemplate string) (string, error) {
	if snapshot == nil {
		return "", errors.New("rigging: snapshot is nil")
	}

	targetPath := ExpandPathWithTime(pathTemplate, snapshot.Timestamp)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", err
	}
	if len(data) > MaxSnapshotSize {
		return "", ErrSnapshotTooLarge
	}
	return targetPath, writeAtomic(targetPath, data)
}

// WriteSchema writes an exported schema document atomically. The format follows the
// extension: .json, or .yaml/.yml. Supports the {{timestamp}} template variable.
func WriteSchema(doc *SchemaDocument, pathTemplate string) (string, error) {
	targetPath := ExpandPath(pathTemplate)

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(targetPath)) {
	case ".json":
		data, err = doc.JSON("  ")
	case ".yaml", ".yml":
		data, err = doc.YAML()
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, targetPath)
	}
	if err != nil {
		return "", err
	}
	return targetPath, writeAtomic(targetPath, data)
}

// writeAtomic writes data to a temp file in the target directory and renames it
// into place.
func writeAtomic(targetPath string, data []byte) error {
	dir := filepath.Dir(targetPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	tempPath, err := generateTempFileName(targetPath)
	if err != nil {
		return err
	}

	var tempFileCreated bool
	defer func() {
		if tempFileCreated {
			_ = os.Remove(tempPath)
		}
	}()

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return err
	}
	tempFileCreated = true

	if err := os.Chmod(tempPath, 0600); err != nil {
		return err
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		return err
	}
	tempFileCreated = false

	return nil
}

// generateTempFileName generates a unique temporary file name for atomic writes.
// Format: targetPath + ".tmp." + randomHex
func generateTempFileName(targetPath string) (string, error) {
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	return targetPath + ".tmp." + hex.EncodeToString(randomBytes), nil
}
