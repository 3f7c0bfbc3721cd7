package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/listasy/grocery-api/internal/core/domain"
	"github.com/listasy/grocery-api/internal/core/mapper"
	"github.com/listasy/grocery-api/internal/core/ports"
)

// TableStore implements ports.DataStore with one collection per table.
// Row ids are stored as the document _id.
//
// The zero-scope store returned by NewTableStore is unrestricted and is only
// used by trusted components; ForSession returns a store bound to the row
// policies of the session's user.
type TableStore struct {
	db    *mongo.Database
	now   func() time.Time
	scope *scope
}

// NewTableStore creates an unrestricted TableStore over db.
func NewTableStore(db *mongo.Database) *TableStore {
	return &TableStore{db: db, now: time.Now}
}

// ForSession returns a store that acts as the session's user.
func (s *TableStore) ForSession(session *domain.Session) ports.DataStore {
	var uid string
	if session != nil {
		uid = session.UserID
	}
	return &TableStore{db: s.db, now: s.now, scope: &scope{userID: uid}}
}

func (s *TableStore) Select(ctx context.Context, table string, q ports.Query) ([]ports.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := s.restrict(ctx, table, filterDoc(q.Filters), (*scope).readFilter)
	if err != nil {
		return nil, err
	}

	var cur *mongo.Cursor
	if q.Embed != nil {
		cur, err = s.db.Collection(table).Aggregate(ctx, selectPipeline(filter, q))
	} else {
		opts := options.Find()
		if q.Order != nil {
			opts.SetSort(sortDoc(q.Order))
		}
		if q.Limit > 0 {
			opts.SetLimit(int64(q.Limit))
		}
		cur, err = s.db.Collection(table).Find(ctx, filter, opts)
	}
	if err != nil {
		return nil, backendErr("select "+table, err)
	}
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, backendErr("decode "+table, err)
	}
	rows := make([]ports.Row, 0, len(docs))
	for _, d := range docs {
		row := normalize(d)
		if q.Embed != nil {
			if _, ok := row[q.Embed.Table]; !ok {
				row[q.Embed.Table] = nil
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *TableStore) Insert(ctx context.Context, table string, rows ...ports.Row) ([]ports.Row, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if s.scope != nil {
		g, err := s.grants(ctx)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			if err := s.scope.checkInsert(table, r, g); err != nil {
				return nil, err
			}
		}
	}

	now := s.now().UTC()
	docs := make([]any, 0, len(rows))
	out := make([]ports.Row, 0, len(rows))
	for _, r := range rows {
		doc := storageDoc(table, r, now)
		docs = append(docs, doc)
		out = append(out, normalize(doc))
	}

	if _, err := s.db.Collection(table).InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: duplicate row in %s", domain.ErrInvalidInput, table)
		}
		return nil, backendErr("insert "+table, err)
	}
	return out, nil
}

func (s *TableStore) Update(ctx context.Context, table string, patch ports.Row, filters ...ports.Filter) error {
	if len(patch) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := s.restrict(ctx, table, filterDoc(filters), (*scope).writeFilter)
	if err != nil {
		return err
	}

	set := bson.M{}
	for k, v := range patch {
		if k == mapper.ColID {
			continue
		}
		set[k] = v
	}
	if hasUpdatedAt(table) {
		set[mapper.ColUpdatedAt] = s.now().UTC()
	}

	if _, err := s.db.Collection(table).UpdateMany(ctx, filter, bson.M{"$set": set}); err != nil {
		return backendErr("update "+table, err)
	}
	return nil
}

func (s *TableStore) Delete(ctx context.Context, table string, filters ...ports.Filter) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := s.restrict(ctx, table, filterDoc(filters), (*scope).deleteFilter)
	if err != nil {
		return err
	}
	if _, err := s.db.Collection(table).DeleteMany(ctx, filter); err != nil {
		return backendErr("delete "+table, err)
	}
	return nil
}

// EnsureIndexes creates the indexes backing list, item and share lookups.
func (s *TableStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	byTable := map[string][]mongo.IndexModel{
		mapper.TableLists: {
			{Keys: bson.D{{Key: mapper.ColCreatedBy, Value: 1}, {Key: mapper.ColCreatedAt, Value: -1}}},
		},
		mapper.TableItems: {
			{Keys: bson.D{{Key: mapper.ColListID, Value: 1}, {Key: mapper.ColCreatedAt, Value: -1}}},
		},
		mapper.TableShares: {
			{
				Keys:    bson.D{{Key: mapper.ColListID, Value: 1}, {Key: mapper.ColSharedWith, Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: mapper.ColSharedWith, Value: 1}, {Key: mapper.ColCreatedAt, Value: -1}}},
		},
		mapper.TableProfiles: {
			{Keys: bson.D{{Key: mapper.ColEmail, Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for table, models := range byTable {
		if _, err := s.db.Collection(table).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("indexes %s: %w", table, err)
		}
	}
	return nil
}

type policyFilter func(sc *scope, table string, g grants) (bson.M, error)

// restrict narrows filter by the scope's policy for table.
func (s *TableStore) restrict(ctx context.Context, table string, filter bson.M, policy policyFilter) (bson.M, error) {
	if s.scope == nil {
		return filter, nil
	}
	g, err := s.grants(ctx)
	if err != nil {
		return nil, err
	}
	p, err := policy(s.scope, table, g)
	if err != nil {
		return nil, err
	}
	return andFilters(filter, p), nil
}

// grants loads the list ids the scoped user owns and the ones shared with them.
func (s *TableStore) grants(ctx context.Context) (grants, error) {
	g := grants{owned: []string{}, shared: []string{}}
	if s.scope.userID == "" {
		return g, nil
	}
	owned, err := s.db.Collection(mapper.TableLists).Distinct(ctx, "_id", bson.M{mapper.ColCreatedBy: s.scope.userID})
	if err != nil {
		return g, backendErr("owned lists", err)
	}
	shared, err := s.db.Collection(mapper.TableShares).Distinct(ctx, mapper.ColListID, bson.M{mapper.ColSharedWith: s.scope.userID})
	if err != nil {
		return g, backendErr("shared lists", err)
	}
	g.owned = stringsOf(owned)
	g.shared = stringsOf(shared)
	return g, nil
}

func field(column string) string {
	if column == mapper.ColID {
		return "_id"
	}
	return column
}

// filterDoc translates table filters into a Mongo query document.
func filterDoc(filters []ports.Filter) bson.M {
	doc := bson.M{}
	for _, f := range filters {
		switch f.Op {
		case ports.OpIn:
			doc[field(f.Column)] = bson.M{"$in": f.Value}
		default:
			doc[field(f.Column)] = f.Value
		}
	}
	return doc
}

func andFilters(a, b bson.M) bson.M {
	switch {
	case len(b) == 0:
		return a
	case len(a) == 0:
		return b
	default:
		return bson.M{"$and": bson.A{a, b}}
	}
}

func sortDoc(o *ports.Order) bson.D {
	dir := 1
	if o.Descending {
		dir = -1
	}
	return bson.D{{Key: field(o.Column), Value: dir}}
}

// selectPipeline builds the aggregation used when a query embeds a related row.
func selectPipeline(filter bson.M, q ports.Query) mongo.Pipeline {
	p := mongo.Pipeline{{{Key: "$match", Value: filter}}}
	if q.Order != nil {
		p = append(p, bson.D{{Key: "$sort", Value: sortDoc(q.Order)}})
	}
	if q.Limit > 0 {
		p = append(p, bson.D{{Key: "$limit", Value: q.Limit}})
	}
	return append(p,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         q.Embed.Table,
			"localField":   q.Embed.Column,
			"foreignField": "_id",
			"as":           q.Embed.Table,
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$" + q.Embed.Table,
			"preserveNullAndEmptyArrays": true,
		}}},
	)
}

func hasUpdatedAt(table string) bool {
	return table == mapper.TableLists || table == mapper.TableItems
}

// storageDoc builds the document persisted for row, filling id and timestamps.
func storageDoc(table string, row ports.Row, now time.Time) bson.M {
	doc := bson.M{}
	for k, v := range row {
		doc[field(k)] = v
	}
	if id, _ := doc["_id"].(string); id == "" {
		doc["_id"] = uuid.NewString()
	}
	if _, ok := doc[mapper.ColCreatedAt]; !ok {
		doc[mapper.ColCreatedAt] = now
	}
	if hasUpdatedAt(table) {
		doc[mapper.ColUpdatedAt] = now
	}
	return doc
}

// normalize converts a decoded document into a row: _id becomes id and BSON
// scalar types become their Go equivalents.
func normalize(doc bson.M) ports.Row {
	row := make(ports.Row, len(doc))
	for k, v := range doc {
		if k == "_id" {
			k = mapper.ColID
		}
		row[k] = normalizeValue(v)
	}
	return row
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.ObjectID:
		return x.Hex()
	case bson.M:
		return normalize(x)
	case bson.D:
		return normalize(x.Map())
	case bson.A:
		out := make([]any, len(x))
		for i := range x {
			out[i] = normalizeValue(x[i])
		}
		return out
	default:
		return v
	}
}

func stringsOf(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
