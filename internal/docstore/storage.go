// Package docstore is a self-hosted document store speaking the same
// HTTP dialect as the hosted Firebase realtime database the Join client
// was written against: collections of slot-addressed JSON documents,
// fetched whole or per node, with null for whatever does not exist.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is one stored node: a collection name, a zero-based slot and
// the raw JSON payload.
type Document struct {
	Collection string `gorm:"primaryKey;size:64"`
	Slot       int    `gorm:"primaryKey"`
	Doc        string `gorm:"type:text"`
}

func (Document) TableName() string {
	return "documents"
}

// Storage persists documents through GORM.
type Storage struct {
	db *gorm.DB
}

func NewStorage(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

// Collection returns every document of a collection in ascending slot
// order. ok is false when the collection has no rows at all.
func (s *Storage) Collection(ctx context.Context, name string) ([]Document, bool, error) {
	var docs []Document
	err := s.db.WithContext(ctx).
		Where("collection = ?", name).
		Order("slot ASC").
		Find(&docs).Error
	if err != nil {
		return nil, false, fmt.Errorf("load collection %s: %w", name, err)
	}
	return docs, len(docs) > 0, nil
}

// Node returns one document, with ok reporting its existence.
func (s *Storage) Node(ctx context.Context, name string, slot int) (json.RawMessage, bool, error) {
	var doc Document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND slot = ?", name, slot).
		First(&doc).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load node %s/%d: %w", name, slot, err)
	}
	return json.RawMessage(doc.Doc), true, nil
}

// PutNode upserts one document at its slot.
func (s *Storage) PutNode(ctx context.Context, name string, slot int, doc json.RawMessage) error {
	record := Document{Collection: name, Slot: slot, Doc: string(doc)}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "slot"}},
			DoUpdates: clause.AssignmentColumns([]string{"doc"}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("put node %s/%d: %w", name, slot, err)
	}
	return nil
}

// ReplaceCollection swaps a collection's rows for the given slot-keyed
// documents in one transaction.
func (s *Storage) ReplaceCollection(ctx context.Context, name string, docs map[int]json.RawMessage) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ?", name).Delete(&Document{}).Error; err != nil {
			return fmt.Errorf("clear collection %s: %w", name, err)
		}
		for slot, doc := range docs {
			record := Document{Collection: name, Slot: slot, Doc: string(doc)}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("write node %s/%d: %w", name, slot, err)
			}
		}
		return nil
	})
}

// DeleteNode removes one document, leaving a hole in the collection. A
// missing node deletes to the same end state and is not an error.
func (s *Storage) DeleteNode(ctx context.Context, name string, slot int) error {
	err := s.db.WithContext(ctx).
		Where("collection = ? AND slot = ?", name, slot).
		Delete(&Document{}).Error
	if err != nil {
		return fmt.Errorf("delete node %s/%d: %w", name, slot, err)
	}
	return nil
}
