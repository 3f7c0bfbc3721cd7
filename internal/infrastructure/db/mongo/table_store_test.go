package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/listasy/grocery-api/internal/core/domain"
	"github.com/listasy/grocery-api/internal/core/mapper"
	"github.com/listasy/grocery-api/internal/core/ports"
)

func TestFilterDoc(t *testing.T) {
	doc := filterDoc([]ports.Filter{
		ports.Eq(mapper.ColID, "l1"),
		ports.In(mapper.ColListID, []string{"a", "b"}),
	})

	if doc["_id"] != "l1" {
		t.Fatalf("expected id mapped to _id, got %v", doc)
	}
	in, ok := doc[mapper.ColListID].(bson.M)
	if !ok {
		t.Fatalf("expected $in document, got %T", doc[mapper.ColListID])
	}
	values, _ := in["$in"].([]string)
	if len(values) != 2 || values[0] != "a" {
		t.Fatalf("unexpected $in values: %v", in["$in"])
	}
}

func TestAndFilters(t *testing.T) {
	a := bson.M{"x": 1}
	if got := andFilters(a, bson.M{}); len(got) != 1 || got["x"] != 1 {
		t.Fatalf("expected a unchanged, got %v", got)
	}
	got := andFilters(a, bson.M{"y": 2})
	if _, ok := got["$and"]; !ok {
		t.Fatalf("expected $and, got %v", got)
	}
}

func TestSelectPipeline_Embed(t *testing.T) {
	q := ports.Query{
		Order: &ports.Order{Column: mapper.ColCreatedAt, Descending: true},
		Embed: &ports.Embed{Table: mapper.TableLists, Column: mapper.ColListID},
		Limit: 5,
	}
	p := selectPipeline(bson.M{}, q)
	if len(p) != 5 {
		t.Fatalf("expected 5 stages, got %d", len(p))
	}
	stages := []string{"$match", "$sort", "$limit", "$lookup", "$unwind"}
	for i, want := range stages {
		if p[i][0].Key != want {
			t.Fatalf("stage %d: expected %s, got %s", i, want, p[i][0].Key)
		}
	}
	lookup := p[3][0].Value.(bson.M)
	if lookup["from"] != mapper.TableLists || lookup["localField"] != mapper.ColListID || lookup["foreignField"] != "_id" {
		t.Fatalf("unexpected lookup: %v", lookup)
	}
}

func TestNormalize(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	row := normalize(bson.M{
		"_id":        "l1",
		"created_at": primitive.NewDateTimeFromTime(at),
		mapper.TableLists: bson.M{
			"_id":  "l2",
			"name": "Feira",
		},
	})

	if row[mapper.ColID] != "l1" {
		t.Fatalf("expected id, got %v", row)
	}
	if _, ok := row["_id"]; ok {
		t.Fatalf("_id must not leak into rows")
	}
	if ts, ok := row[mapper.ColCreatedAt].(time.Time); !ok || !ts.Equal(at) {
		t.Fatalf("expected time.Time, got %T", row[mapper.ColCreatedAt])
	}
	embedded, ok := row[mapper.TableLists].(ports.Row)
	if !ok || embedded[mapper.ColID] != "l2" {
		t.Fatalf("unexpected embedded row: %v", row[mapper.TableLists])
	}

	l, ok := mapper.EmbeddedList(row)
	if !ok || l.Name != "Feira" {
		t.Fatalf("embedded list not readable by mapper: %+v", l)
	}
}

func TestStorageDoc_FillsIDAndTimestamps(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	doc := storageDoc(mapper.TableItems, mapper.NewItemRow("l1", "Milk", 2, 3.5, 7), now)

	if id, _ := doc["_id"].(string); id == "" {
		t.Fatalf("expected generated id")
	}
	if doc[mapper.ColCreatedAt] != now || doc[mapper.ColUpdatedAt] != now {
		t.Fatalf("expected timestamps, got %v", doc)
	}

	share := storageDoc(mapper.TableShares, mapper.ShareRow("l1", "u2"), now)
	if _, ok := share[mapper.ColUpdatedAt]; ok {
		t.Fatalf("share records carry no updated_at")
	}

	profile := storageDoc(mapper.TableProfiles, mapper.ProfileRow("u1", "a@example.com", nil), now)
	if profile["_id"] != "u1" {
		t.Fatalf("expected caller id kept, got %v", profile["_id"])
	}
}

func TestScope_CheckInsert(t *testing.T) {
	sc := &scope{userID: "u1"}
	g := grants{owned: []string{"l1"}, shared: []string{"l2"}}

	cases := []struct {
		name  string
		table string
		row   ports.Row
		ok    bool
	}{
		{"own list", mapper.TableLists, mapper.NewListRow("Feira", "u1"), true},
		{"list for someone else", mapper.TableLists, mapper.NewListRow("Feira", "u2"), false},
		{"item on shared list", mapper.TableItems, mapper.NewItemRow("l2", "Pão", 1, 1, 1), true},
		{"item on foreign list", mapper.TableItems, mapper.NewItemRow("l9", "Pão", 1, 1, 1), false},
		{"share owned list", mapper.TableShares, mapper.ShareRow("l1", "u3"), true},
		{"reshare shared list", mapper.TableShares, mapper.ShareRow("l2", "u3"), false},
		{"own profile", mapper.TableProfiles, mapper.ProfileRow("u1", "a@example.com", nil), true},
		{"other profile", mapper.TableProfiles, mapper.ProfileRow("u2", "b@example.com", nil), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := sc.checkInsert(tc.table, tc.row, g)
			if tc.ok && err != nil {
				t.Fatalf("expected allowed, got %v", err)
			}
			if !tc.ok && !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
		})
	}
}

func TestScope_ReadFilter(t *testing.T) {
	sc := &scope{userID: "u1"}
	g := grants{owned: []string{"l1"}, shared: []string{"l2"}}

	items, err := sc.readFilter(mapper.TableItems, g)
	if err != nil {
		t.Fatalf("readFilter returned error: %v", err)
	}
	visible := items[mapper.ColListID].(bson.M)["$in"].([]string)
	if len(visible) != 2 {
		t.Fatalf("expected owned and shared lists visible, got %v", visible)
	}

	if _, err := sc.readFilter("unknown", g); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	del, _ := sc.deleteFilter(mapper.TableLists, g)
	if del[mapper.ColCreatedBy] != "u1" {
		t.Fatalf("list deletes require ownership, got %v", del)
	}
}

func TestBackendErr_KeepsDriverError(t *testing.T) {
	err := backendErr("select "+mapper.TableItems, context.DeadlineExceeded)
	if !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected driver error kept, got %v", err)
	}
}
