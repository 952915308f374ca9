package upbank

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestListAccountsFollowsPagination(t *testing.T) {
	var gotAuth string
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		requests = append(requests, r.URL.RequestURI())
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page[after]") == "" {
			fmt.Fprintf(w, `{
				"data": [{"type":"accounts","id":"acc-1","attributes":{"displayName":"Spending"}}],
				"links": {"prev": null, "next": %q}
			}`, "http://"+r.Host+"/accounts?page%5Bafter%5D=acc-1")
		} else {
			fmt.Fprint(w, `{
				"data": [{"type":"accounts","id":"acc-2","attributes":{"displayName":"Savings"}}],
				"links": {"prev": null, "next": null}
			}`)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	accounts, err := c.ListAccounts(context.Background())
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if len(requests) != 2 {
		t.Fatalf("requests = %v, want first page plus continuation", requests)
	}
	if len(accounts) != 2 || accounts[0].ID != "acc-1" || accounts[1].ID != "acc-2" {
		t.Errorf("accounts = %+v", accounts)
	}
}

func TestListTransactionsSinceSendsInclusiveFilter(t *testing.T) {
	var gotSince string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSince = r.URL.Query().Get("filter[since]")
		fmt.Fprint(w, `{"data": [], "links": {"prev": null, "next": null}}`)
	}))
	defer srv.Close()

	since, _ := time.Parse(time.RFC3339, "2023-07-01T10:00:01+10:00")
	c := NewClient(srv.URL, "token")
	if _, err := c.ListTransactionsSince(context.Background(), since); err != nil {
		t.Fatalf("ListTransactionsSince: %v", err)
	}
	if gotSince != "2023-07-01T10:00:01+10:00" {
		t.Errorf("filter[since] = %q", gotSince)
	}
}

func TestGetTransactionDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transactions/tx-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"data": {
			"type": "transactions",
			"id": "tx-1",
			"attributes": {
				"status": "SETTLED",
				"description": "Coffee",
				"isCategorizable": true,
				"amount": {"currencyCode":"AUD","value":"-4.50","valueInBaseUnits":-450},
				"createdAt": "2023-03-01T12:00:00+11:00",
				"cashback": null,
				"holdInfo": null
			},
			"relationships": {
				"account": {"data": {"type":"accounts","id":"acc-1"}},
				"category": {"data": null}
			}
		}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token")
	tx, err := c.GetTransaction(context.Background(), "tx-1")
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if tx.ID != "tx-1" || tx.Attributes.Status == nil || *tx.Attributes.Status != "SETTLED" {
		t.Errorf("tx = %+v", tx)
	}
	if tx.Attributes.Cashback != nil {
		t.Error("null cashback decoded as present")
	}
	if tx.Relationships.Category == nil || tx.Relationships.Category.Data != nil {
		t.Error("null relationship data should decode to nil Data")
	}
}

func TestFetchErrorCarriesURLAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token")
	_, err := c.ListAccounts(context.Background())
	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("err = %v, want FetchError", err)
	}
	if ferr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d", ferr.StatusCode)
	}
	if ferr.URL != srv.URL+"/accounts" {
		t.Errorf("URL = %q", ferr.URL)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/util/ping" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"meta": {"id": "x", "statusEmoji": "ok"}}`)
	}))
	defer srv.Close()

	if err := NewClient(srv.URL, "token").Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestPingBadToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "bad").Ping(context.Background())
	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("err = %v, want FetchError", err)
	}
	if ferr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d", ferr.StatusCode)
	}
}
