// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/carmatch/carmatch/internal/models"
)

const answerKeyPrefix = "answer:"

// AnswersLog persists questionnaire submissions from the save-answers
// endpoint. It shares the catalog's badger database under a separate key
// prefix.
type AnswersLog struct {
	db  *badger.DB
	now func() time.Time
}

// NewAnswersLog creates an answers log over the given badger database.
func NewAnswersLog(db *badger.DB) *AnswersLog {
	return &AnswersLog{db: db, now: time.Now}
}

// Append stores one submission and returns its generated ID.
func (l *AnswersLog) Append(ctx context.Context, answers map[string]string, userAgent string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rec := models.AnswerRecord{
		ID:        uuid.New().String(),
		Answers:   answers,
		SavedAt:   l.now().UTC().Format(time.RFC3339),
		UserAgent: userAgent,
	}

	data, err := json.Marshal(&rec)
	if err != nil {
		return "", fmt.Errorf("marshal answers: %w", err)
	}

	err = l.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(answerKeyPrefix+rec.ID), data)
	})
	if err != nil {
		return "", mapBadgerErr("append answers", err)
	}

	return rec.ID, nil
}

// Count returns the number of stored submissions.
func (l *AnswersLog) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(answerKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, mapBadgerErr("count answers", err)
	}
	return count, nil
}
