package mongo

import (
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/listasy/grocery-api/internal/core/domain"
	"github.com/listasy/grocery-api/internal/core/mapper"
	"github.com/listasy/grocery-api/internal/core/ports"
)

// scope carries the user whose row policies a TableStore enforces. Reads,
// updates and deletes are narrowed to permitted rows, so forbidden rows are
// silently skipped; inserts of forbidden rows fail with domain.ErrForbidden.
type scope struct {
	userID string
}

// grants lists the list ids a user owns and those shared with them.
type grants struct {
	owned  []string
	shared []string
}

func (g grants) visible() []string {
	return append(append([]string{}, g.owned...), g.shared...)
}

func unknownTable(table string) error {
	return fmt.Errorf("%w: unknown table %q", domain.ErrInvalidInput, table)
}

func (sc *scope) readFilter(table string, g grants) (bson.M, error) {
	switch table {
	case mapper.TableLists:
		return bson.M{"$or": bson.A{
			bson.M{mapper.ColCreatedBy: sc.userID},
			bson.M{"_id": bson.M{"$in": g.shared}},
		}}, nil
	case mapper.TableItems:
		return bson.M{mapper.ColListID: bson.M{"$in": g.visible()}}, nil
	case mapper.TableShares:
		return bson.M{"$or": bson.A{
			bson.M{mapper.ColSharedWith: sc.userID},
			bson.M{mapper.ColListID: bson.M{"$in": g.owned}},
		}}, nil
	case mapper.TableProfiles:
		if sc.userID == "" {
			return bson.M{"_id": bson.M{"$in": bson.A{}}}, nil
		}
		return bson.M{}, nil
	default:
		return nil, unknownTable(table)
	}
}

func (sc *scope) writeFilter(table string, g grants) (bson.M, error) {
	switch table {
	case mapper.TableLists:
		return bson.M{"_id": bson.M{"$in": g.visible()}}, nil
	case mapper.TableItems:
		return bson.M{mapper.ColListID: bson.M{"$in": g.visible()}}, nil
	case mapper.TableShares:
		return bson.M{mapper.ColListID: bson.M{"$in": g.owned}}, nil
	case mapper.TableProfiles:
		return bson.M{"_id": sc.userID}, nil
	default:
		return nil, unknownTable(table)
	}
}

func (sc *scope) deleteFilter(table string, g grants) (bson.M, error) {
	if table == mapper.TableLists {
		return bson.M{mapper.ColCreatedBy: sc.userID}, nil
	}
	return sc.writeFilter(table, g)
}

func (sc *scope) checkInsert(table string, row ports.Row, g grants) error {
	var ok bool
	switch table {
	case mapper.TableLists:
		ok = sc.userID != "" && row[mapper.ColCreatedBy] == sc.userID
	case mapper.TableItems:
		listID, _ := row[mapper.ColListID].(string)
		ok = slices.Contains(g.visible(), listID)
	case mapper.TableShares:
		listID, _ := row[mapper.ColListID].(string)
		ok = slices.Contains(g.owned, listID)
	case mapper.TableProfiles:
		ok = sc.userID != "" && row[mapper.ColID] == sc.userID
	default:
		return unknownTable(table)
	}
	if !ok {
		return fmt.Errorf("%w: row violates policy for %s", domain.ErrForbidden, table)
	}
	return nil
}
