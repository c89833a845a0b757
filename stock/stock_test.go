package stock

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/kkugi/chuubot/testutil"
)

func TestLookupFirstMatch(t *testing.T) {
	srv := testutil.NewMockStockServer(t)
	srv.Items = []map[string]string{
		{"itmsNm": "삼성전자", "clpr": "61500", "hipr": "62100", "lopr": "61000"},
		{"itmsNm": "삼성전자우", "clpr": "51000", "hipr": "51500", "lopr": "50700"},
	}
	c := &Client{ServiceKey: "test-key", BaseURL: srv.URL}
	q, err := c.Lookup(context.Background(), "삼성")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if q.Name != "삼성전자" || q.Current != "61500" || q.High != "62100" || q.Low != "61000" {
		t.Errorf("unexpected quote: %+v", q)
	}
	if srv.LastQuery["likeItmsNm"] != "삼성" {
		t.Errorf("likeItmsNm = %q, want 삼성", srv.LastQuery["likeItmsNm"])
	}
	if srv.LastQuery["numOfRows"] != "1" || srv.LastQuery["resultType"] != "json" {
		t.Errorf("unexpected query params: %v", srv.LastQuery)
	}
	if srv.LastQuery["serviceKey"] != "test-key" {
		t.Errorf("serviceKey not passed through: %v", srv.LastQuery)
	}
}

func TestLookupNoMatch(t *testing.T) {
	srv := testutil.NewMockStockServer(t)
	srv.Items = nil
	c := &Client{ServiceKey: "k", BaseURL: srv.URL}
	_, err := c.Lookup(context.Background(), "없는종목")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupEmptyFragmentStillQueries(t *testing.T) {
	// The router may hand over an empty fragment; the client must still make a
	// well-formed request and report not-found rather than fault.
	srv := testutil.NewMockStockServer(t)
	c := &Client{ServiceKey: "k", BaseURL: srv.URL}
	_, err := c.Lookup(context.Background(), "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty fragment, got %v", err)
	}
}

func TestLookupServerError(t *testing.T) {
	srv := testutil.NewMockStockServer(t)
	srv.Status = http.StatusInternalServerError
	c := &Client{ServiceKey: "k", BaseURL: srv.URL}
	_, err := c.Lookup(context.Background(), "삼성")
	if err == nil {
		t.Fatal("expected error on 500")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("transport failure must stay distinguishable from not-found, got %v", err)
	}
}
