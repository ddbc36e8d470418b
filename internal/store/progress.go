package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// DefaultSaveKey is the key the progress blob is stored under.
const DefaultSaveKey = "ai_gacha_save"

// Field names a top-level key of the progress blob.
type Field string

const (
	FieldScore    Field = "score"
	FieldLevel    Field = "level"
	FieldMastered Field = "mastered"
	FieldStreak   Field = "streak"
)

// AllFields returns every field the game writes.
func AllFields() []Field {
	return []Field{FieldScore, FieldLevel, FieldMastered, FieldStreak}
}

// Progress is the persisted player state shared by both game modes.
type Progress struct {
	Score    int      `json:"score"`
	Level    int      `json:"level"`
	Mastered []string `json:"mastered"`
	Streak   int      `json:"streak"`
}

// DefaultProgress is the state of a fresh player.
func DefaultProgress() Progress {
	return Progress{Level: 1, Mastered: []string{}}
}

// ProgressRepo loads and saves the progress blob.
type ProgressRepo interface {
	// Load returns the stored progress. A missing or unreadable blob yields
	// DefaultProgress and no error.
	Load(ctx context.Context) (Progress, error)

	// Save writes the given fields of p, keeping every other key already in
	// the blob. With no fields, all of AllFields are written.
	Save(ctx context.Context, p Progress, fields ...Field) error

	// Clear removes the blob.
	Clear(ctx context.Context) error
}

// decodeProgress parses a stored blob and normalizes it.
func decodeProgress(raw []byte) (Progress, error) {
	p := DefaultProgress()
	if err := json.Unmarshal(raw, &p); err != nil {
		return DefaultProgress(), fmt.Errorf("decode progress: %w", err)
	}
	if p.Score < 0 {
		p.Score = 0
	}
	if p.Streak < 0 {
		p.Streak = 0
	}
	if p.Level < 1 {
		p.Level = 1
	}

	seen := make(map[string]bool, len(p.Mastered))
	mastered := make([]string, 0, len(p.Mastered))
	for _, id := range p.Mastered {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		mastered = append(mastered, id)
	}
	p.Mastered = mastered
	return p, nil
}

// mergeProgress writes fields of p over the existing blob. Keys the caller
// did not name, including ones this program does not know, are kept. An
// unreadable existing blob is replaced.
func mergeProgress(existing []byte, p Progress, fields []Field) ([]byte, error) {
	if len(fields) == 0 {
		fields = AllFields()
	}

	doc := map[string]json.RawMessage{}
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &doc); err != nil || doc == nil {
			doc = map[string]json.RawMessage{}
		}
	}

	if p.Mastered == nil {
		p.Mastered = []string{}
	}
	for _, f := range fields {
		var v any
		switch f {
		case FieldScore:
			v = p.Score
		case FieldLevel:
			v = p.Level
		case FieldMastered:
			v = p.Mastered
		case FieldStreak:
			v = p.Streak
		default:
			return nil, fmt.Errorf("unknown progress field %q", f)
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", f, err)
		}
		doc[string(f)] = b
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode progress: %w", err)
	}
	return out, nil
}
