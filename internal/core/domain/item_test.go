package domain

import "testing"

func TestCalculateTotalPrice(t *testing.T) {
	cases := []struct {
		quantity  int
		unitPrice float64
		want      float64
	}{
		{2, 3.5, 7},
		{0, 9.99, 0},
		{5, 0, 0},
		{3, 1.25, 3.75},
	}
	for _, tc := range cases {
		if got := CalculateTotalPrice(tc.quantity, tc.unitPrice); got != tc.want {
			t.Errorf("CalculateTotalPrice(%d, %v) = %v, want %v", tc.quantity, tc.unitPrice, got, tc.want)
		}
	}
}

func TestItemPatch_DeriveRecomputesTotal(t *testing.T) {
	item := GroceryItem{ID: "i1", Quantity: 2, UnitPrice: 3, TotalPrice: 6}
	qty := 4
	stale := 1.0

	p := ItemPatch{Quantity: &qty, TotalPrice: &stale}.Derive(item)
	if p.TotalPrice == nil || *p.TotalPrice != 12 {
		t.Fatalf("expected derived total 12, got %v", p.TotalPrice)
	}

	got := p.Apply(item)
	if got.Quantity != 4 || got.TotalPrice != 12 {
		t.Fatalf("unexpected item after apply: %+v", got)
	}
}

func TestItemPatch_DeriveDropsTotalWithoutPriceInputs(t *testing.T) {
	item := GroceryItem{Quantity: 2, UnitPrice: 3, TotalPrice: 6}
	total := 100.0
	product := "Bread"

	p := ItemPatch{Product: &product, TotalPrice: &total}.Derive(item)
	if p.TotalPrice != nil {
		t.Fatalf("caller total must be discarded, got %v", *p.TotalPrice)
	}
	if got := p.Apply(item); got.TotalPrice != 6 || got.Product != "Bread" {
		t.Fatalf("unexpected item: %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	items := []GroceryItem{
		{TotalPrice: 10, Purchased: true},
		{TotalPrice: 5},
		{TotalPrice: 2.5, Purchased: true},
	}
	s := Summarize(items)
	if s.TotalItems != 3 || s.PurchasedItems != 2 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.TotalCost != 17.5 || s.PurchasedCost != 12.5 {
		t.Fatalf("unexpected costs: %+v", s)
	}
	if s.PercentComplete != 67 {
		t.Fatalf("expected 67%%, got %d", s.PercentComplete)
	}

	if empty := Summarize(nil); empty.PercentComplete != 0 || empty.TotalItems != 0 {
		t.Fatalf("unexpected empty summary: %+v", empty)
	}
}

func TestGroceryList_WithRecipient(t *testing.T) {
	l := GroceryList{ID: "l1", SharedWith: []string{"u2"}}

	got := l.WithRecipient("u3").WithRecipient("u3")
	if !got.Shared || len(got.SharedWith) != 2 {
		t.Fatalf("unexpected list: %+v", got)
	}
	if len(l.SharedWith) != 1 {
		t.Fatalf("original list must not be mutated: %+v", l)
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := map[float64]string{
		7:      "R$ 7,00",
		0:      "R$ 0,00",
		3.5:    "R$ 3,50",
		-2.25:  "-R$ 2,25",
		-0.001: "R$ 0,00",
		-0.006: "-R$ 0,01",
	}
	for v, want := range cases {
		if got := FormatCurrency(v); got != want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", v, got, want)
		}
	}
}
