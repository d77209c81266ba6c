package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jekabolt/salon-analytics/internal/dto"
	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/tidwall/buntdb"
)

const (
	buntAppointment = "appointment"
	buntStaff       = "staff"
	buntClient      = "client"
	buntProduct     = "product"
	buntPromotion   = "promotion"
	buntService     = "service"
	buntVersionKey  = "meta:version"
)

type BuntConfig struct {
	Path string `mapstructure:"path"`
}

// Bunt keeps raw record documents in an embedded BuntDB file, one key per record.
type Bunt struct {
	db *buntdb.DB
}

// OpenBunt opens the database at path. ":memory:" keeps it in memory.
func OpenBunt(c BuntConfig) (*Bunt, error) {
	path := c.Path
	if path == "" {
		path = ":memory:"
	}
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can't open bunt db %s: %w", path, err)
	}
	return &Bunt{db: db}, nil
}

func (b *Bunt) Close() error {
	return b.db.Close()
}

func buntKey(kind, id string) string {
	return kind + ":" + id
}

// Version is a counter bumped by every Import.
func (b *Bunt) Version(_ context.Context) (string, error) {
	var v string
	err := b.db.View(func(tx *buntdb.Tx) error {
		val, err := tx.Get(buntVersionKey)
		if errors.Is(err, buntdb.ErrNotFound) {
			v = "0"
			return nil
		}
		v = val
		return err
	})
	if err != nil {
		return "", fmt.Errorf("can't get bunt version: %w", err)
	}
	return v, nil
}

func (b *Bunt) Dataset(ctx context.Context) (*entity.Dataset, error) {
	raw := &dto.Dataset{}
	var version string
	err := b.db.View(func(tx *buntdb.Tx) error {
		val, err := tx.Get(buntVersionKey)
		switch {
		case errors.Is(err, buntdb.ErrNotFound):
			version = "0"
		case err != nil:
			return err
		default:
			version = val
		}
		if err := scanKind(tx, buntAppointment, &raw.Appointments); err != nil {
			return err
		}
		if err := scanKind(tx, buntStaff, &raw.Staff); err != nil {
			return err
		}
		if err := scanKind(tx, buntClient, &raw.Clients); err != nil {
			return err
		}
		if err := scanKind(tx, buntProduct, &raw.Products); err != nil {
			return err
		}
		if err := scanKind(tx, buntPromotion, &raw.Promotions); err != nil {
			return err
		}
		return scanKind(tx, buntService, &raw.Services)
	})
	if err != nil {
		return nil, fmt.Errorf("can't read bunt dataset: %w", err)
	}
	ds := dto.NormalizeDataset(raw)
	ds.Version = version
	return ds, nil
}

// scanKind decodes every document stored under kind in key order.
func scanKind[T any](tx *buntdb.Tx, kind string, out *[]T) error {
	var decodeErr error
	err := tx.AscendKeys(kind+":*", func(key, value string) bool {
		var v T
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			decodeErr = fmt.Errorf("can't decode %s: %w", key, err)
			return false
		}
		*out = append(*out, v)
		return true
	})
	if err != nil {
		return err
	}
	return decodeErr
}

// Import stores every record of ds, replacing documents with the same id.
func (b *Bunt) Import(_ context.Context, ds *dto.Dataset) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		for _, a := range ds.Appointments {
			if err := setDoc(tx, buntKey(buntAppointment, a.ID), a); err != nil {
				return err
			}
		}
		for _, s := range ds.Staff {
			if err := setDoc(tx, buntKey(buntStaff, s.ID), s); err != nil {
				return err
			}
		}
		for _, c := range ds.Clients {
			if err := setDoc(tx, buntKey(buntClient, c.ID), c); err != nil {
				return err
			}
		}
		for _, p := range ds.Products {
			if err := setDoc(tx, buntKey(buntProduct, p.ID), p); err != nil {
				return err
			}
		}
		for _, p := range ds.Promotions {
			if err := setDoc(tx, buntKey(buntPromotion, p.ID), p); err != nil {
				return err
			}
		}
		for _, s := range ds.Services {
			if err := setDoc(tx, buntKey(buntService, s.ID), s); err != nil {
				return err
			}
		}
		return bumpVersion(tx)
	})
}

// DeleteAppointment removes one appointment document.
func (b *Bunt) DeleteAppointment(_ context.Context, id string) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		if _, err := tx.Delete(buntKey(buntAppointment, id)); err != nil {
			return err
		}
		return bumpVersion(tx)
	})
}

func setDoc(tx *buntdb.Tx, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("can't encode %s: %w", key, err)
	}
	_, _, err = tx.Set(key, string(data), nil)
	return err
}

func bumpVersion(tx *buntdb.Tx) error {
	cur := 0
	val, err := tx.Get(buntVersionKey)
	switch {
	case errors.Is(err, buntdb.ErrNotFound):
	case err != nil:
		return err
	default:
		if cur, err = strconv.Atoi(val); err != nil {
			return fmt.Errorf("corrupt bunt version %q: %w", val, err)
		}
	}
	_, _, err = tx.Set(buntVersionKey, strconv.Itoa(cur+1), nil)
	return err
}
