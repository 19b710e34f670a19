// Package ingest loads the legacy bulk export into the filmmakers table.
package ingest

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/qri-io/jsonschema"
	"go.uber.org/zap"

	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/reconcile"
)

//go:embed legacy_row.schema.json
var rowSchema []byte

// legacyNamespace seeds the ids of rows that carry no usable uuid.
var legacyNamespace = uuid.MustParse("6f1c2b7e-4d3a-5e8f-9a0b-1c2d3e4f5a6b")

// Saver persists a converted legacy profile under a fixed id.
type Saver interface {
	SaveLegacy(ctx context.Context, id uuid.UUID, p models.ProfileData) (*models.Filmmaker, error)
}

// Imported is a row that was stored.
type Imported struct {
	Index     int       `json:"index"`
	ID        uuid.UUID `json:"id"`
	StageName string    `json:"stage_name"`
}

// Rejected is a row that failed validation or could not be stored.
type Rejected struct {
	Index  int      `json:"index"`
	Errors []string `json:"errors"`
}

type Result struct {
	Imported []Imported `json:"imported"`
	Rejected []Rejected `json:"rejected"`
}

type Ingester struct {
	schema *jsonschema.Schema
	saver  Saver
	logger *zap.Logger
}

func New(saver Saver, logger *zap.Logger) (*Ingester, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(rowSchema, rs); err != nil {
		return nil, fmt.Errorf("failed to compile legacy row schema: %w", err)
	}
	return &Ingester{schema: rs, saver: saver, logger: logger}, nil
}

// Validate checks one raw row against the legacy row schema and returns a
// message per violation.
func (i *Ingester) Validate(ctx context.Context, raw json.RawMessage) ([]string, error) {
	verrs, err := i.schema.ValidateBytes(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to validate row: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, v := range verrs {
		path := v.PropertyPath
		if path == "" {
			path = "/"
		}
		msgs = append(msgs, path+": "+v.Message)
	}
	return msgs, nil
}

// Ingest validates, converts and stores each row. A bad row never stops
// the batch; a cancelled context does.
func (i *Ingester) Ingest(ctx context.Context, rows []json.RawMessage) (*Result, error) {
	res := &Result{Imported: []Imported{}, Rejected: []Rejected{}}

	for idx, raw := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		msgs, err := i.Validate(ctx, raw)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejected{Index: idx, Errors: []string{err.Error()}})
			continue
		}
		if len(msgs) > 0 {
			res.Rejected = append(res.Rejected, Rejected{Index: idx, Errors: msgs})
			continue
		}

		var row reconcile.LegacyRow
		if err := json.Unmarshal(raw, &row); err != nil {
			res.Rejected = append(res.Rejected, Rejected{Index: idx, Errors: []string{err.Error()}})
			continue
		}
		p := reconcile.FromLegacy(row)
		id := LegacyID(string(row.ID), p)
		saved, err := i.saver.SaveLegacy(ctx, id, p)
		if err != nil {
			i.logger.Warn("legacy row not stored", zap.Int("index", idx), zap.Error(err))
			res.Rejected = append(res.Rejected, Rejected{Index: idx, Errors: []string{err.Error()}})
			continue
		}
		res.Imported = append(res.Imported, Imported{Index: idx, ID: saved.ID, StageName: saved.StageName})
	}

	i.logger.Info("legacy ingest finished",
		zap.Int("imported", len(res.Imported)),
		zap.Int("rejected", len(res.Rejected)))
	return res, nil
}

// LegacyID is the filmmaker id for a legacy row: the row's own id when it is
// a uuid, otherwise a name-based uuid over the legacy id or, failing that,
// the name and email. Re-ingesting an export therefore updates in place.
func LegacyID(legacyID string, p models.ProfileData) uuid.UUID {
	legacyID = strings.TrimSpace(legacyID)
	if id, err := uuid.Parse(legacyID); err == nil {
		return id
	}
	key := "id:" + legacyID
	if legacyID == "" {
		key = "name:" + strings.ToLower(strings.TrimSpace(p.StageName)) + "|" + strings.ToLower(strings.TrimSpace(p.Email))
	}
	return uuid.NewSHA1(legacyNamespace, []byte(key))
}
