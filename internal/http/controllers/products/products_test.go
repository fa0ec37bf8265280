package products

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Jawadabbaskhan/socialauth/internal/http/dto"
	"github.com/Jawadabbaskhan/socialauth/internal/store/core"
)

type fakeStore struct {
	byID   map[int64]*core.Product
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: map[int64]*core.Product{}, nextID: 1}
}

func (f *fakeStore) CreateProduct(_ context.Context, p *core.Product) error {
	p.ID = f.nextID
	f.nextID++
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakeStore) GetProduct(_ context.Context, id int64) (*core.Product, error) {
	if p, ok := f.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeStore) ListProducts(_ context.Context, offset, limit int) ([]core.Product, error) {
	out := make([]core.Product, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStore) UpdateProduct(_ context.Context, id int64, upd core.ProductUpdate) (*core.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	p.Name, p.Description, p.Price = upd.Name, upd.Description, upd.Price
	cp := *p
	return &cp, nil
}

func (f *fakeStore) DeleteProduct(_ context.Context, id int64) (*core.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	delete(f.byID, id)
	return p, nil
}

// mount wires the controller under a chi router so URL params resolve.
func mount(store core.ProductStore) http.Handler {
	c := New(store)
	r := chi.NewRouter()
	r.Post("/products", c.Create)
	r.Get("/products", c.List)
	r.Get("/products/{id}", c.Get)
	r.Put("/products/{id}", c.Update)
	r.Delete("/products/{id}", c.Delete)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndGet(t *testing.T) {
	h := mount(newFakeStore())

	rec := doJSON(t, h, http.MethodPost, "/products", dto.ProductRequest{Name: "mate", Description: "imperial", Price: 25.5})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var created dto.ProductResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created product has no id")
	}

	rec = doJSON(t, h, http.MethodGet, "/products/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got dto.ProductResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "mate" || got.Price != 25.5 {
		t.Fatalf("got %+v", got)
	}
}

func TestCreate_MissingName(t *testing.T) {
	h := mount(newFakeStore())

	rec := doJSON(t, h, http.MethodPost, "/products", dto.ProductRequest{Price: 1})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGet_NotFoundAndBadID(t *testing.T) {
	h := mount(newFakeStore())

	if rec := doJSON(t, h, http.MethodGet, "/products/99", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing product status = %d, want 404", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodGet, "/products/abc", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d, want 400", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodGet, "/products/-1", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("negative id status = %d, want 400", rec.Code)
	}
}

func TestUpdate(t *testing.T) {
	store := newFakeStore()
	h := mount(store)

	doJSON(t, h, http.MethodPost, "/products", dto.ProductRequest{Name: "mate", Price: 10})

	rec := doJSON(t, h, http.MethodPut, "/products/1", dto.ProductRequest{Name: "mate listo", Price: 12})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if store.byID[1].Name != "mate listo" || store.byID[1].Price != 12 {
		t.Fatalf("store not updated: %+v", store.byID[1])
	}

	rec = doJSON(t, h, http.MethodPut, "/products/99", dto.ProductRequest{Name: "x"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update missing status = %d, want 404", rec.Code)
	}
}

func TestDelete(t *testing.T) {
	store := newFakeStore()
	h := mount(store)

	doJSON(t, h, http.MethodPost, "/products", dto.ProductRequest{Name: "mate", Price: 10})

	rec := doJSON(t, h, http.MethodDelete, "/products/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	var deleted dto.ProductResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &deleted); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if deleted.Name != "mate" {
		t.Fatalf("deleted body = %+v", deleted)
	}
	if _, ok := store.byID[1]; ok {
		t.Fatal("product still in store")
	}

	if rec := doJSON(t, h, http.MethodDelete, "/products/1", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestList_Empty(t *testing.T) {
	h := mount(newFakeStore())

	rec := doJSON(t, h, http.MethodGet, "/products", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out []dto.ProductResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("len = %d, want 0", len(out))
	}
}
