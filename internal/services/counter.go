package services

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope narrows a counting query, e.g. to one item type.
type Scope func(*gorm.DB) *gorm.DB

// WhereEq builds a Scope matching column = value.
func WhereEq(column string, value interface{}) Scope {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	}
}

// CountRows counts rows of model matching every scope.
func CountRows(ctx context.Context, db *gorm.DB, model interface{}, scopes ...Scope) (int64, error) {
	var count int64
	q := db.WithContext(ctx).Model(model)
	for _, s := range scopes {
		q = s(q)
	}
	err := q.Count(&count).Error
	return count, err
}

type groupRow[K comparable] struct {
	ItemID uint
	Grp    K
	Cnt    int64
}

// CountGrouped counts one item's rows grouped by a discriminator column, e.g.
// vote value. Discriminator values with no rows are absent from the map.
func CountGrouped[K comparable](ctx context.Context, db *gorm.DB, model interface{}, itemColumn string, itemID uint, groupColumn string, scopes ...Scope) (map[K]int64, error) {
	batch, err := CountGroupedBatch[K](ctx, db, model, itemColumn, []uint{itemID}, groupColumn, scopes...)
	if err != nil {
		return nil, err
	}
	if m, ok := batch[itemID]; ok {
		return m, nil
	}
	return map[K]int64{}, nil
}

// CountGroupedBatch counts rows for many items in a single
// GROUP BY item, discriminator query.
func CountGroupedBatch[K comparable](ctx context.Context, db *gorm.DB, model interface{}, itemColumn string, itemIDs []uint, groupColumn string, scopes ...Scope) (map[uint]map[K]int64, error) {
	result := make(map[uint]map[K]int64, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	q := db.WithContext(ctx).Model(model).
		Select("? AS item_id, ? AS grp, COUNT(*) AS cnt", clause.Column{Name: itemColumn}, clause.Column{Name: groupColumn}).
		Where(clause.IN{Column: clause.Column{Name: itemColumn}, Values: idValues(itemIDs)})
	for _, s := range scopes {
		q = s(q)
	}

	var rows []groupRow[K]
	if err := q.Group(itemColumn).Group(groupColumn).Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, r := range rows {
		m, ok := result[r.ItemID]
		if !ok {
			m = make(map[K]int64)
			result[r.ItemID] = m
		}
		m[r.Grp] += r.Cnt
	}
	return result, nil
}

type itemCountRow struct {
	ItemID uint
	Cnt    int64
}

// CountByItems counts rows per item in a single GROUP BY query. Items without
// rows are absent from the map and read as zero.
func CountByItems(ctx context.Context, db *gorm.DB, model interface{}, itemColumn string, itemIDs []uint, scopes ...Scope) (map[uint]int64, error) {
	result := make(map[uint]int64, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	q := db.WithContext(ctx).Model(model).
		Select("? AS item_id, COUNT(*) AS cnt", clause.Column{Name: itemColumn}).
		Where(clause.IN{Column: clause.Column{Name: itemColumn}, Values: idValues(itemIDs)})
	for _, s := range scopes {
		q = s(q)
	}

	var rows []itemCountRow
	if err := q.Group(itemColumn).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		result[r.ItemID] = r.Cnt
	}
	return result, nil
}

func idValues(ids []uint) []interface{} {
	values := make([]interface{}, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	return values
}
