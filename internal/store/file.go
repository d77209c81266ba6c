package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jekabolt/salon-analytics/internal/dto"
	"github.com/jekabolt/salon-analytics/internal/entity"
)

// File reads a JSON snapshot of every record collection from disk on each call,
// so edits to the file are picked up without a restart.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Version(ctx context.Context) (string, error) {
	raw, err := f.read(ctx)
	if err != nil {
		return "", err
	}
	return versionOf(raw), nil
}

func (f *File) Dataset(ctx context.Context) (*entity.Dataset, error) {
	raw, err := f.read(ctx)
	if err != nil {
		return nil, err
	}
	var ds dto.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("can't decode dataset %s: %w", f.path, err)
	}
	out := dto.NormalizeDataset(&ds)
	out.Version = versionOf(raw)
	return out, nil
}

// ReadDataset decodes a raw snapshot without normalizing it.
func (f *File) ReadDataset(ctx context.Context) (*dto.Dataset, error) {
	raw, err := f.read(ctx)
	if err != nil {
		return nil, err
	}
	var ds dto.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("can't decode dataset %s: %w", f.path, err)
	}
	return &ds, nil
}

func (f *File) read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("can't read dataset file: %w", err)
	}
	return raw, nil
}
