package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/listasy/grocery-api/internal/api/middleware"
	"github.com/listasy/grocery-api/internal/core/domain"
	"github.com/listasy/grocery-api/internal/core/ports"
)

type stubRegistry struct {
	signInFn  func(ctx context.Context, email, password string) (*ports.Workspace, error)
	signUpFn  func(ctx context.Context, email, password string) (*ports.Workspace, error)
	signOutFn func(ctx context.Context, token string) error
}

func (r *stubRegistry) SignIn(ctx context.Context, email, password string) (*ports.Workspace, error) {
	return r.signInFn(ctx, email, password)
}

func (r *stubRegistry) SignUp(ctx context.Context, email, password string) (*ports.Workspace, error) {
	return r.signUpFn(ctx, email, password)
}

func (r *stubRegistry) Resolve(context.Context, string) (*ports.Workspace, error) {
	return nil, domain.ErrUnauthenticated
}

func (r *stubRegistry) SignOut(ctx context.Context, token string) error {
	return r.signOutFn(ctx, token)
}

type stubSession struct {
	ports.SessionService
	state ports.SessionState
}

func (s stubSession) State() ports.SessionState { return s.state }

func (s stubSession) UserID() (string, bool) {
	if s.state.User == nil {
		return "", false
	}
	return s.state.User.ID, true
}

// stubGrocery records the calls it receives and serves canned state.
type stubGrocery struct {
	state   ports.StoreState
	lists   map[string]domain.GroceryList
	err     error
	calls   []string
	current *domain.GroceryList
	patch   domain.ItemPatch
	args    []any
}

func (g *stubGrocery) record(op string, args ...any) error {
	g.calls = append(g.calls, op)
	g.args = args
	return g.err
}

func (g *stubGrocery) FetchLists(context.Context) error {
	return g.record("FetchLists")
}

func (g *stubGrocery) CreateList(_ context.Context, name string) (string, error) {
	if err := g.record("CreateList", name); err != nil {
		return "", err
	}
	l := domain.GroceryList{ID: "l-new", Name: name}
	g.ensureLists()[l.ID] = l
	return l.ID, nil
}

func (g *stubGrocery) FetchItems(_ context.Context, listID string) error {
	return g.record("FetchItems", listID)
}

func (g *stubGrocery) AddItem(_ context.Context, listID, product string, quantity int, unitPrice float64) (domain.GroceryItem, error) {
	if err := g.record("AddItem", listID, product, quantity, unitPrice); err != nil {
		return domain.GroceryItem{}, err
	}
	return domain.GroceryItem{
		ID:         "i-new",
		ListID:     listID,
		Product:    product,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: domain.CalculateTotalPrice(quantity, unitPrice),
	}, nil
}

func (g *stubGrocery) UpdateItem(_ context.Context, id string, patch domain.ItemPatch) (domain.GroceryItem, error) {
	g.patch = patch
	if err := g.record("UpdateItem", id); err != nil {
		return domain.GroceryItem{}, err
	}
	return patch.Apply(domain.GroceryItem{ID: id}), nil
}

func (g *stubGrocery) TogglePurchased(_ context.Context, id string, purchased bool) error {
	return g.record("TogglePurchased", id, purchased)
}

func (g *stubGrocery) DeleteItem(_ context.Context, id string) error {
	return g.record("DeleteItem", id)
}

func (g *stubGrocery) ShareList(_ context.Context, listID, email string) error {
	return g.record("ShareList", listID, email)
}

func (g *stubGrocery) RenameList(_ context.Context, listID, newName string) error {
	return g.record("RenameList", listID, newName)
}

func (g *stubGrocery) SetCurrentList(list *domain.GroceryList) {
	g.calls = append(g.calls, "SetCurrentList")
	g.current = list
}

func (g *stubGrocery) List(id string) (domain.GroceryList, bool) {
	l, ok := g.lists[id]
	return l, ok
}

func (g *stubGrocery) State() ports.StoreState { return g.state }

func (g *stubGrocery) Summary() domain.ListSummary { return domain.Summarize(g.state.Items) }

func (g *stubGrocery) ensureLists() map[string]domain.GroceryList {
	if g.lists == nil {
		g.lists = make(map[string]domain.GroceryList)
	}
	return g.lists
}

// newContext builds a request context carrying a workspace backed by gs.
func newContext(method, target, body string, gs *stubGrocery) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	name := "Ana"
	ws := &ports.Workspace{
		Token: "tok",
		Session: stubSession{state: ports.SessionState{
			User:    &domain.User{ID: "u1", Email: "ana@example.com", Name: &name},
			Session: &domain.Session{AccessToken: "tok", UserID: "u1"},
		}},
	}
	if gs != nil {
		ws.Grocery = gs
	}
	c.Set(middleware.KeyWorkspace, ws)
	c.Set(middleware.KeyToken, ws.Token)
	return c, rec
}
