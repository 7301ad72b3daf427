// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the ModelMeta
// row describing the currently active trained model.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/smartswipe/go-swipe-backend/internal/domain"
)

// modelMetaID is the primary key of the single "current model" row.
const modelMetaID = "current"

// UpsertModelMeta replaces the active-model snapshot wholesale. The row is
// created on the first successful training pass and overwritten on each
// retrain.
func UpsertModelMeta(ctx context.Context, db *gorm.DB, kind string, accuracy, precision, recall, f1, rocAUC float64) (*domain.ModelMeta, error) {
	meta := &domain.ModelMeta{
		ID:        modelMetaID,
		ModelKind: kind,
		Accuracy:  accuracy,
		Precision: precision,
		Recall:    recall,
		F1:        f1,
		ROCAUC:    rocAUC,
		TrainedAt: time.Now().UTC(),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.ModelMeta
		ferr := tx.First(&existing, "id = ?", modelMetaID).Error
		switch {
		case ferr == nil:
			return tx.Model(&domain.ModelMeta{}).Where("id = ?", modelMetaID).Updates(map[string]any{
				"model_kind": meta.ModelKind,
				"accuracy":   meta.Accuracy,
				"precision":  meta.Precision,
				"recall":     meta.Recall,
				"f1":         meta.F1,
				"roc_auc":    meta.ROCAUC,
				"trained_at": meta.TrainedAt,
			}).Error
		case errors.Is(ferr, gorm.ErrRecordNotFound):
			return tx.Create(meta).Error
		default:
			return ferr
		}
	})
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// GetModelMeta returns the active-model snapshot, or ErrNotFound when no
// training pass has succeeded yet.
func GetModelMeta(ctx context.Context, db *gorm.DB) (*domain.ModelMeta, error) {
	var meta domain.ModelMeta
	if err := db.WithContext(ctx).First(&meta, "id = ?", modelMetaID).Error; err != nil {
		return nil, err
	}
	return &meta, nil
}
