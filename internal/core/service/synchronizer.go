package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/listasy/grocery-api/internal/core/domain"
	"github.com/listasy/grocery-api/internal/core/mapper"
	"github.com/listasy/grocery-api/internal/core/ports"
)

// Identity resolves the user the synchronizer acts for.
type Identity interface {
	UserID() (string, bool)
}

// Serializer runs fn with at most one outstanding call per key.
type Serializer interface {
	Do(ctx context.Context, key string, fn func(context.Context) error) error
}

// Observer receives the outcome of every store operation.
type Observer interface {
	ObserveOperation(operation string, elapsed time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveOperation(string, time.Duration, error) {}

var errPanicked = errors.New("store operation panicked")

// Synchronizer mirrors the lists and items of the current user. Every
// operation is a single round trip (createList: two) and local state is
// only patched after the backend accepted the change.
type Synchronizer struct {
	store    ports.DataStore
	identity Identity
	serial   Serializer
	observer Observer
	log      zerolog.Logger

	mu      sync.RWMutex
	lists   []domain.GroceryList
	current *domain.GroceryList
	items   []domain.GroceryItem
	loading bool
	errMsg  string
}

// NewSynchronizer wires a synchronizer. serial and observer may be nil.
func NewSynchronizer(store ports.DataStore, identity Identity, serial Serializer, observer Observer, log zerolog.Logger) *Synchronizer {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Synchronizer{
		store:    store,
		identity: identity,
		serial:   serial,
		observer: observer,
		log:      log.With().Str("component", "synchronizer").Logger(),
		lists:    []domain.GroceryList{},
		items:    []domain.GroceryItem{},
	}
}

// FetchLists loads owned lists then lists shared with the user, both newest
// first, and keeps the first occurrence of every id.
func (s *Synchronizer) FetchLists(ctx context.Context) error {
	const op = "fetch_lists"
	return s.run(ctx, op, "", func(ctx context.Context) error {
		s.begin()
		lists, err := s.loadLists(ctx)
		if err != nil {
			return s.fail(op, err)
		}
		return s.commit(ctx, func() {
			s.lists = lists
			s.refreshCurrent()
		})
	})
}

func (s *Synchronizer) loadLists(ctx context.Context) ([]domain.GroceryList, error) {
	uid, ok := s.identity.UserID()
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	newestFirst := &ports.Order{Column: mapper.ColCreatedAt, Descending: true}

	ownedRows, err := s.store.Select(ctx, mapper.TableLists, ports.Query{
		Filters: []ports.Filter{ports.Eq(mapper.ColCreatedBy, uid)},
		Order:   newestFirst,
	})
	if err != nil {
		return nil, fmt.Errorf("select owned lists: %w", err)
	}

	sharedRows, err := s.store.Select(ctx, mapper.TableShares, ports.Query{
		Filters: []ports.Filter{ports.Eq(mapper.ColSharedWith, uid)},
		Order:   newestFirst,
		Embed:   &ports.Embed{Table: mapper.TableLists, Column: mapper.ColListID},
	})
	if err != nil {
		return nil, fmt.Errorf("select shared lists: %w", err)
	}

	owned := make([]domain.GroceryList, 0, len(ownedRows))
	ownedIDs := make([]string, 0, len(ownedRows))
	for _, r := range ownedRows {
		l := mapper.ListFromRow(r)
		owned = append(owned, l)
		ownedIDs = append(ownedIDs, l.ID)
	}
	shared := make([]domain.GroceryList, 0, len(sharedRows))
	for _, r := range sharedRows {
		if l, ok := mapper.EmbeddedList(r); ok {
			shared = append(shared, l)
		}
	}

	merged := MergeLists(owned, shared)
	if len(ownedIDs) == 0 {
		return merged, nil
	}

	grantRows, err := s.store.Select(ctx, mapper.TableShares, ports.Query{
		Filters: []ports.Filter{ports.In(mapper.ColListID, ownedIDs)},
	})
	if err != nil {
		return nil, fmt.Errorf("select share records: %w", err)
	}
	recipients := make(map[string][]string)
	for _, r := range grantRows {
		rec := mapper.ShareFromRow(r)
		recipients[rec.ListID] = append(recipients[rec.ListID], rec.SharedWith)
	}
	for i := range merged {
		if merged[i].CreatedBy == uid {
			if ids, ok := recipients[merged[i].ID]; ok {
				merged[i].SharedWith = ids
			}
		}
	}
	return merged, nil
}

// MergeLists concatenates owned and shared and drops every list whose id
// was already seen, so owned entries win over shared duplicates.
func MergeLists(owned, shared []domain.GroceryList) []domain.GroceryList {
	seen := make(map[string]struct{}, len(owned)+len(shared))
	out := make([]domain.GroceryList, 0, len(owned)+len(shared))
	for _, l := range slices.Concat(owned, shared) {
		if _, dup := seen[l.ID]; dup {
			continue
		}
		seen[l.ID] = struct{}{}
		out = append(out, l)
	}
	return out
}

// CreateList inserts a list owned by the current user, reloads the list
// collection and selects the new list. It returns the new id.
func (s *Synchronizer) CreateList(ctx context.Context, name string) (string, error) {
	const op = "create_list"
	name = strings.TrimSpace(name)
	if name == "" {
		return "", s.reject(op, fmt.Errorf("%w: list name is required", domain.ErrInvalidInput))
	}
	uid, ok := s.identity.UserID()
	if !ok {
		return "", s.reject(op, domain.ErrUnauthenticated)
	}

	var id string
	err := s.run(ctx, op, "owner:"+uid, func(ctx context.Context) error {
		s.begin()
		rows, err := s.store.Insert(ctx, mapper.TableLists, mapper.NewListRow(name, uid))
		if err != nil {
			return s.fail(op, err)
		}
		if len(rows) == 0 {
			return s.fail(op, fmt.Errorf("%w: insert returned no rows", domain.ErrBackend))
		}
		created := mapper.ListFromRow(rows[0])

		lists, reloadErr := s.loadLists(ctx)
		if reloadErr != nil {
			s.log.Warn().Err(reloadErr).Str("list_id", created.ID).Msg("reload after create failed")
		}
		if err := s.commit(ctx, func() {
			if reloadErr == nil {
				s.lists = lists
			} else {
				s.errMsg = reloadErr.Error()
			}
			s.current = &created
		}); err != nil {
			return err
		}
		id = created.ID
		s.log.Debug().Str("list_id", id).Str("user_id", uid).Msg("list created")
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// FetchItems replaces the local items with the list's items, newest first.
func (s *Synchronizer) FetchItems(ctx context.Context, listID string) error {
	const op = "fetch_items"
	if listID == "" {
		return s.reject(op, fmt.Errorf("%w: list id is required", domain.ErrInvalidInput))
	}
	return s.run(ctx, op, "", func(ctx context.Context) error {
		s.begin()
		rows, err := s.store.Select(ctx, mapper.TableItems, ports.Query{
			Filters: []ports.Filter{ports.Eq(mapper.ColListID, listID)},
			Order:   &ports.Order{Column: mapper.ColCreatedAt, Descending: true},
		})
		if err != nil {
			return s.fail(op, err)
		}
		items := make([]domain.GroceryItem, 0, len(rows))
		for _, r := range rows {
			items = append(items, mapper.ItemFromRow(r))
		}
		return s.commit(ctx, func() { s.items = items })
	})
}

// AddItem inserts an item with a locally computed total and prepends it.
func (s *Synchronizer) AddItem(ctx context.Context, listID, product string, quantity int, unitPrice float64) (domain.GroceryItem, error) {
	const op = "add_item"
	product = strings.TrimSpace(product)
	if listID == "" || product == "" {
		return domain.GroceryItem{}, s.reject(op, fmt.Errorf("%w: list id and product are required", domain.ErrInvalidInput))
	}

	var item domain.GroceryItem
	err := s.run(ctx, op, listID, func(ctx context.Context) error {
		s.begin()
		total := domain.CalculateTotalPrice(quantity, unitPrice)
		rows, err := s.store.Insert(ctx, mapper.TableItems, mapper.NewItemRow(listID, product, quantity, unitPrice, total))
		if err != nil {
			return s.fail(op, err)
		}
		if len(rows) == 0 {
			return s.fail(op, fmt.Errorf("%w: insert returned no rows", domain.ErrBackend))
		}
		item = mapper.ItemFromRow(rows[0])
		return s.commit(ctx, func() {
			s.items = append([]domain.GroceryItem{item}, s.items...)
		})
	})
	if err != nil {
		return domain.GroceryItem{}, err
	}
	return item, nil
}

// UpdateItem applies a partial update. The total price is recomputed
// whenever quantity or unit price changes; the same patch is written
// remotely and applied locally.
func (s *Synchronizer) UpdateItem(ctx context.Context, id string, patch domain.ItemPatch) (domain.GroceryItem, error) {
	const op = "update_item"
	if id == "" || patch.Empty() {
		return domain.GroceryItem{}, s.reject(op, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput))
	}

	var updated domain.GroceryItem
	err := s.run(ctx, op, s.itemKey(id), func(ctx context.Context) error {
		s.begin()
		current, ok := s.localItem(id)
		if !ok {
			rows, err := s.store.Select(ctx, mapper.TableItems, ports.Query{
				Filters: []ports.Filter{ports.Eq(mapper.ColID, id)},
				Limit:   1,
			})
			if err != nil {
				return s.fail(op, err)
			}
			if len(rows) == 0 {
				return s.fail(op, domain.ErrItemNotFound)
			}
			current = mapper.ItemFromRow(rows[0])
		}

		derived := patch.Derive(current)
		if derived.Empty() {
			updated = current
			return s.commit(ctx, func() {})
		}
		if err := s.store.Update(ctx, mapper.TableItems, mapper.ItemPatchRow(derived), ports.Eq(mapper.ColID, id)); err != nil {
			return s.fail(op, err)
		}
		updated = derived.Apply(current)
		return s.commit(ctx, func() { s.patchItem(id, derived) })
	})
	if err != nil {
		return domain.GroceryItem{}, err
	}
	return updated, nil
}

// TogglePurchased sets the purchased flag remotely and locally.
func (s *Synchronizer) TogglePurchased(ctx context.Context, id string, purchased bool) error {
	const op = "toggle_purchased"
	if id == "" {
		return s.reject(op, fmt.Errorf("%w: item id is required", domain.ErrInvalidInput))
	}
	patch := domain.ItemPatch{Purchased: &purchased}
	return s.run(ctx, op, s.itemKey(id), func(ctx context.Context) error {
		s.begin()
		if err := s.store.Update(ctx, mapper.TableItems, mapper.ItemPatchRow(patch), ports.Eq(mapper.ColID, id)); err != nil {
			return s.fail(op, err)
		}
		return s.commit(ctx, func() { s.patchItem(id, patch) })
	})
}

// DeleteItem removes the item remotely, then locally. Deleting an id that
// is not held locally leaves the local items unchanged.
func (s *Synchronizer) DeleteItem(ctx context.Context, id string) error {
	const op = "delete_item"
	if id == "" {
		return s.reject(op, fmt.Errorf("%w: item id is required", domain.ErrInvalidInput))
	}
	return s.run(ctx, op, s.itemKey(id), func(ctx context.Context) error {
		s.begin()
		if err := s.store.Delete(ctx, mapper.TableItems, ports.Eq(mapper.ColID, id)); err != nil {
			return s.fail(op, err)
		}
		return s.commit(ctx, func() {
			s.items = slices.DeleteFunc(slices.Clone(s.items), func(it domain.GroceryItem) bool {
				return it.ID == id
			})
		})
	})
}

// ShareList grants the user registered under email access to the list.
// It does not touch the loading flag. When no profile matches, nothing is
// written and domain.ErrUserNotFound is returned.
func (s *Synchronizer) ShareList(ctx context.Context, listID, email string) error {
	const op = "share_list"
	email = strings.TrimSpace(email)
	if listID == "" || email == "" {
		return s.reject(op, fmt.Errorf("%w: email is required", domain.ErrInvalidInput))
	}
	return s.run(ctx, op, listID, func(ctx context.Context) error {
		rows, err := s.store.Select(ctx, mapper.TableProfiles, ports.Query{
			Filters: []ports.Filter{ports.Eq(mapper.ColEmail, email)},
			Limit:   1,
		})
		if err != nil {
			return s.reject(op, err)
		}
		if len(rows) == 0 {
			return s.reject(op, domain.ErrUserNotFound)
		}
		recipient := mapper.ProfileFromRow(rows[0])
		if uid, _ := s.identity.UserID(); recipient.ID == uid {
			return s.reject(op, fmt.Errorf("%w: cannot share a list with its owner", domain.ErrInvalidInput))
		}

		if _, err := s.store.Insert(ctx, mapper.TableShares, mapper.ShareRow(listID, recipient.ID)); err != nil {
			return s.reject(op, err)
		}
		shared := true
		if err := s.store.Update(ctx, mapper.TableLists, mapper.ListPatchRow(domain.ListPatch{Shared: &shared}), ports.Eq(mapper.ColID, listID)); err != nil {
			return s.reject(op, err)
		}

		s.log.Debug().Str("list_id", listID).Str("shared_with", recipient.ID).Msg("list shared")
		return s.apply(ctx, func() {
			s.patchList(listID, func(l domain.GroceryList) domain.GroceryList {
				return l.WithRecipient(recipient.ID)
			})
		})
	})
}

// RenameList updates the list name remotely, then in lists and currentList.
func (s *Synchronizer) RenameList(ctx context.Context, listID, newName string) error {
	const op = "rename_list"
	newName = strings.TrimSpace(newName)
	if listID == "" || newName == "" {
		return s.reject(op, fmt.Errorf("%w: list name is required", domain.ErrInvalidInput))
	}
	patch := domain.ListPatch{Name: &newName}
	return s.run(ctx, op, listID, func(ctx context.Context) error {
		s.begin()
		if err := s.store.Update(ctx, mapper.TableLists, mapper.ListPatchRow(patch), ports.Eq(mapper.ColID, listID)); err != nil {
			return s.fail(op, err)
		}
		return s.commit(ctx, func() { s.patchList(listID, patch.Apply) })
	})
}

// SetCurrentList selects list locally. A nil list clears the selection.
func (s *Synchronizer) SetCurrentList(list *domain.GroceryList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if list == nil {
		s.current = nil
		return
	}
	l := *list
	s.current = &l
}

// List returns the locally held list with id.
func (s *Synchronizer) List(id string) (domain.GroceryList, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.lists {
		if l.ID == id {
			return l, true
		}
	}
	return domain.GroceryList{}, false
}

// State returns a snapshot of the synchronizer.
func (s *Synchronizer) State() ports.StoreState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := ports.StoreState{
		Lists:   slices.Clone(s.lists),
		Items:   slices.Clone(s.items),
		Loading: s.loading,
		Error:   s.errMsg,
	}
	if s.current != nil {
		c := *s.current
		st.CurrentList = &c
	}
	return st
}

// Summary aggregates the locally held items.
func (s *Synchronizer) Summary() domain.ListSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Summarize(s.items)
}

// run executes fn through the serializer under key, converting panics into
// domain.ErrUnexpected and reporting the outcome to the observer.
func (s *Synchronizer) run(ctx context.Context, op, key string, fn func(context.Context) error) error {
	start := time.Now()
	guarded := func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error().Interface("panic", r).Str("operation", op).Msg("store operation panicked")
				err = errPanicked
			}
		}()
		return fn(ctx)
	}

	var err error
	if key == "" || s.serial == nil {
		err = guarded(ctx)
	} else {
		err = s.serial.Do(ctx, key, guarded)
	}
	if errors.Is(err, errPanicked) {
		err = s.fail(op, domain.ErrUnexpected)
	}
	s.observer.ObserveOperation(op, time.Since(start), err)
	return err
}

func (s *Synchronizer) begin() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
}

// fail records a remote failure and clears loading.
func (s *Synchronizer) fail(op string, err error) error {
	s.mu.Lock()
	s.loading = false
	s.errMsg = errorMessage(err)
	s.mu.Unlock()
	s.log.Warn().Err(err).Str("operation", op).Msg("store operation failed")
	return err
}

// reject records an edge failure without touching loading.
func (s *Synchronizer) reject(op string, err error) error {
	s.mu.Lock()
	s.errMsg = errorMessage(err)
	s.mu.Unlock()
	s.log.Debug().Err(err).Str("operation", op).Msg("store operation rejected")
	return err
}

// apply patches local state unless ctx was cancelled while the remote call
// was in flight.
func (s *Synchronizer) apply(ctx context.Context, patch func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	patch()
	return nil
}

// commit is apply followed by clearing loading on every path.
func (s *Synchronizer) commit(ctx context.Context, patch func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err := ctx.Err(); err != nil {
		return err
	}
	patch()
	return nil
}

// refreshCurrent re-resolves the selection against the loaded lists.
// Callers hold s.mu.
func (s *Synchronizer) refreshCurrent() {
	if s.current == nil {
		return
	}
	for _, l := range s.lists {
		if l.ID == s.current.ID {
			c := l
			s.current = &c
			return
		}
	}
}

// patchItem replaces the matching item. Callers hold s.mu.
func (s *Synchronizer) patchItem(id string, patch domain.ItemPatch) {
	items := slices.Clone(s.items)
	for i := range items {
		if items[i].ID == id {
			items[i] = patch.Apply(items[i])
		}
	}
	s.items = items
}

// patchList replaces the matching list and selection. Callers hold s.mu.
func (s *Synchronizer) patchList(id string, fn func(domain.GroceryList) domain.GroceryList) {
	lists := slices.Clone(s.lists)
	for i := range lists {
		if lists[i].ID == id {
			lists[i] = fn(lists[i])
		}
	}
	s.lists = lists
	if s.current != nil && s.current.ID == id {
		c := fn(*s.current)
		s.current = &c
	}
}

func (s *Synchronizer) localItem(id string) (domain.GroceryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return domain.GroceryItem{}, false
}

// itemKey serializes item mutations with the other writes of their list
// when the item is held locally.
func (s *Synchronizer) itemKey(id string) string {
	if it, ok := s.localItem(id); ok && it.ListID != "" {
		return it.ListID
	}
	return "item:" + id
}

func errorMessage(err error) string {
	if errors.Is(err, domain.ErrUnexpected) {
		return domain.ErrUnexpected.Error()
	}
	return err.Error()
}
